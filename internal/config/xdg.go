package config

import (
	"os"
	"path/filepath"
)

const appName = "gtdash"

// baseDir resolves an XDG base directory from env, falling back to the given
// path under the home directory, or the working directory without a home.
func baseDir(env string, homeRel ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, homeRel...)...)
}

// dataFile places name under $XDG_DATA_HOME/gtdash, next to the snapshot.
func dataFile(name string) string {
	return filepath.Join(baseDir("XDG_DATA_HOME", ".local", "share"), appName, name)
}

// DefaultDBPath is where the imported incident snapshot and theme live.
func DefaultDBPath() string {
	return dataFile(appName + ".db")
}

// DefaultLogPath is the log file written while the dashboard holds the alt screen.
func DefaultLogPath() string {
	return dataFile(appName + ".log")
}

// DefaultConfigPath is $XDG_CONFIG_HOME/gtdash/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), appName, "config.toml")
}
