// Package config loads application configuration from viper and resolves
// user-supplied paths.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a path the way a shell would: a leading ~ becomes
// the home directory and $VAR references are substituted from the
// environment. A path that needs no expansion passes through unchanged.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
