package config

import (
	"os"
	"path/filepath"
)

const (
	EnvConfigPath  = "MENUD_CONFIG"
	ConfigFileName = "menud.yaml"
	ConfigDirName  = "menud"
)

// ConfigSearchPaths lists the places Load looks for a config file, most
// specific first. Entries whose environment variable is unset are left out.
func ConfigSearchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing entry of ConfigSearchPaths,
// made absolute when relative, or "" when there is none.
func FindConfigPath() string {
	for _, p := range ConfigSearchPaths() {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}

// EnsureConfigDir creates the directory that will hold configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}
