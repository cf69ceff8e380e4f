// Package config handles the persisted user settings and the runtime options
// read from the environment.
package config

// Settings is the record persisted between runs.
type Settings struct {
	// CustomExecutablePath overrides automatic discovery of the Oculus client.
	CustomExecutablePath string `yaml:"customExecutablePath,omitempty"`
}
