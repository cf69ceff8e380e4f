package ui

import (
	"fmt"

	"github.com/user/oculus-guard/internal/core"
)

// view is what the tray shows for one session status.
type view struct {
	statusTitle string
	tooltip     string
	addresses   string
	clientPath  string
	icon        iconState
	canLaunch   bool
	canStop     bool
	canEditPath bool
}

func render(s core.Status) view {
	v := view{
		statusTitle: "Status: " + s.Message,
		tooltip:     "Oculus Guard - " + s.Message,
		addresses:   "Blocked: none",
		clientPath:  "Client: auto-detect",
	}
	if s.OverridePath != "" {
		v.clientPath = "Client: " + s.OverridePath
	}
	if len(s.BlockedAddresses) > 0 {
		v.addresses = "Blocked: " + s.BlockedAddressesDisplay()
		v.tooltip = fmt.Sprintf("%s\nBlocked: %s", v.tooltip, s.BlockedAddressesDisplay())
	}

	switch s.Phase {
	case core.PhaseActive:
		v.icon = iconActive
		v.canStop = true
		if s.Warning {
			v.icon = iconWarning
		}
	case core.PhaseBusy:
		v.icon = iconBusy
	default:
		v.icon = iconIdle
		if s.Error != "" {
			v.icon = iconWarning
		}
		v.canLaunch = true
		v.canEditPath = true
	}
	return v
}
