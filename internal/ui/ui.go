// Package ui provides the system tray front end.
package ui

import (
	"context"

	"fyne.io/systray"

	"github.com/user/oculus-guard/internal/core"
	"github.com/user/oculus-guard/internal/logger"
)

var (
	ctrl *core.Controller

	// Systray menu items
	mStatus    *systray.MenuItem
	mAddresses *systray.MenuItem
	mLastLog   *systray.MenuItem
	mLaunch    *systray.MenuItem
	mStop      *systray.MenuItem
	mPath      *systray.MenuItem
	mSetPath   *systray.MenuItem
	mClearPath *systray.MenuItem
	mLogs      *systray.MenuItem
	mQuit      *systray.MenuItem
)

// Run shows the tray icon and blocks until the user quits or ctx is done.
func Run(ctx context.Context, c *core.Controller) {
	ctrl = c
	systray.Run(func() { onReady(ctx) }, onExit)
}

// onReady is called when systray is ready
func onReady(ctx context.Context) {
	systray.SetIcon(getIcon(iconIdle))
	systray.SetTitle("Oculus Guard")
	systray.SetTooltip("Oculus Guard")

	mStatus = systray.AddMenuItem("Status: Ready", "")
	mStatus.Disable()
	mAddresses = systray.AddMenuItem("Blocked: none", "")
	mAddresses.Disable()
	mLastLog = systray.AddMenuItem("", "")
	mLastLog.Disable()
	mLastLog.Hide()

	systray.AddSeparator()

	mLaunch = systray.AddMenuItem("Launch Oculus (API blocked)", "Stop Oculus, block the Meta API and start Oculus again")
	mStop = systray.AddMenuItem("Stop and restore API", "Remove the firewall block rule")

	systray.AddSeparator()

	mPath = systray.AddMenuItem("Client: auto-detect", "")
	mPath.Disable()
	mSetPath = systray.AddMenuItem("Set client path...", "Choose the Oculus client executable")
	mClearPath = systray.AddMenuItem("Use auto-detect", "Forget the custom client path")
	mLogs = systray.AddMenuItem("Open log file", "")

	systray.AddSeparator()

	mQuit = systray.AddMenuItem("Quit", "Remove the block rule and exit")

	ctrl.AddStatusListener(updateUI)
	ctrl.AddLogListener(showLogLine)
	if lines := ctrl.Log(); len(lines) > 0 {
		showLogLine(lines[len(lines)-1])
	}
	updateUI(ctrl.Status())

	go func() {
		defer logger.Recover("systray-ctx")
		<-ctx.Done()
		systray.Quit()
	}()

	// Handle menu clicks
	go func() {
		defer logger.Recover("systray-menu-loop")
		for {
			select {
			case <-mLaunch.ClickedCh:
				logger.SafeGo("launch", func() { doLaunch(ctx) })
			case <-mStop.ClickedCh:
				logger.SafeGo("stop", doStop)
			case <-mSetPath.ClickedCh:
				logger.SafeGo("setPath", doSetPath)
			case <-mClearPath.ClickedCh:
				logger.SafeGo("clearPath", doClearPath)
			case <-mLogs.ClickedCh:
				logger.SafeGo("openLogs", doOpenLogs)
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// onExit is called when systray exits
func onExit() {
	logger.Info("Tray exiting, removing block rule")
	if ctrl != nil {
		ctrl.ForceCleanup()
	}
}

func doLaunch(ctx context.Context) {
	mLaunch.Disable()
	if err := ctrl.Launch(ctx); err != nil {
		logger.Error("Launch failed: %v", err)
	}
}

func doStop() {
	mStop.Disable()
	if err := ctrl.Stop(); err != nil {
		logger.Error("Stop failed: %v", err)
	}
}

func doSetPath() {
	path, ok, err := pickExecutable()
	if err != nil {
		logger.Error("File picker failed: %v", err)
		return
	}
	if !ok {
		return
	}
	if err := ctrl.SetOverridePath(path); err != nil {
		logger.Error("Failed to set client path: %v", err)
	}
}

func doClearPath() {
	if err := ctrl.ClearOverridePath(); err != nil {
		logger.Error("Failed to clear client path: %v", err)
	}
}

func doOpenLogs() {
	path := logger.GetLogPath()
	if path == "" {
		return
	}
	if err := openPath(path); err != nil {
		logger.Error("Failed to open log file %s: %v", path, err)
	}
}

func updateUI(status core.Status) {
	defer logger.Recover("updateUI")

	v := render(status)
	mStatus.SetTitle(v.statusTitle)
	mAddresses.SetTitle(v.addresses)
	mPath.SetTitle(v.clientPath)
	systray.SetTooltip(v.tooltip)
	systray.SetIcon(getIcon(v.icon))

	setEnabled(mLaunch, v.canLaunch)
	setEnabled(mStop, v.canStop)
	setEnabled(mSetPath, v.canEditPath)
	setEnabled(mClearPath, v.canEditPath && status.OverridePath != "")
}

func showLogLine(line string) {
	defer logger.Recover("showLogLine")
	mLastLog.SetTitle(line)
	mLastLog.Show()
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}
