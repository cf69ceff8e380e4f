package firewall

import (
	"github.com/pkg/errors"
)

// CleanupResult reports what happened to one rule during RemoveIfExists.
type CleanupResult struct {
	Name  string
	Found bool
	Err   error
}

// RemoveIfExists removes each named rule that is currently installed. Every
// removal is isolated: an error or panic for one name never skips the next.
func RemoveIfExists(store RuleStore, names ...string) []CleanupResult {
	results := make([]CleanupResult, 0, len(names))
	for _, name := range names {
		results = append(results, removeOne(store, name))
	}
	return results
}

func removeOne(store RuleStore, name string) (res CleanupResult) {
	res.Name = name
	defer func() {
		if r := recover(); r != nil {
			res.Err = errors.Errorf("panic while removing rule %s: %v", name, r)
		}
	}()

	if !store.Exists(name) {
		return res
	}
	res.Found = true
	res.Err = store.Remove(name)
	return res
}
