//go:build windows

package ui

import (
	"os/exec"
	"strings"

	"github.com/user/oculus-guard/internal/procutil"
)

const pickerScript = `Add-Type -AssemblyName System.Windows.Forms
$d = New-Object System.Windows.Forms.OpenFileDialog
$d.Title = 'Select the Oculus client executable'
$d.Filter = 'Oculus client|OculusClient.exe;client.exe|Programs (*.exe)|*.exe'
if ($d.ShowDialog() -eq 'OK') { $d.FileName }`

// pickExecutable shows the Windows open-file dialog.
func pickExecutable() (string, bool, error) {
	cmd := procutil.HideWindow(exec.Command("powershell", "-NoProfile", "-STA", "-Command", pickerScript))
	out, err := cmd.Output()
	if err != nil {
		return "", false, err
	}
	path := strings.TrimSpace(string(out))
	return path, path != "", nil
}

// openPath opens path with its associated application.
func openPath(path string) error {
	return procutil.HideWindow(exec.Command("rundll32", "url.dll,FileProtocolHandler", path)).Start()
}
