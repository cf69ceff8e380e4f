package core

import (
	"errors"
	"fmt"
)

// ErrTargetNotFound is returned by Launch when no client executable exists.
var ErrTargetNotFound = errors.New("Oculus client not found")

// RuleRemovalError is returned by Stop when the block rule could not be
// removed. The session stays active.
type RuleRemovalError struct {
	Rule string
	Err  error
}

func (e *RuleRemovalError) Error() string {
	return fmt.Sprintf("failed to remove firewall rule %s: %v", e.Rule, e.Err)
}

func (e *RuleRemovalError) Unwrap() error {
	return e.Err
}
