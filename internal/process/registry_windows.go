//go:build windows

package process

import (
	"golang.org/x/sys/windows/registry"

	"github.com/user/oculus-guard/internal/logger"
)

const (
	installKey   = `SOFTWARE\WOW6432Node\Oculus VR, LLC\Oculus`
	installValue = "Base"
)

func registryBaseDir() (string, bool) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, installKey, registry.QUERY_VALUE)
	if err != nil {
		logger.Debug("Oculus install key not found: %v", err)
		return "", false
	}
	defer key.Close()

	base, _, err := key.GetStringValue(installValue)
	if err != nil || base == "" {
		return "", false
	}
	return base, true
}
