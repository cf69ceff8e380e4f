//go:build !windows

package process

func registryBaseDir() (string, bool) {
	return "", false
}
