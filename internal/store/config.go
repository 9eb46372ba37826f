package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type GlobalConfig struct {
	// APIURL is the default STAC API root used when no --api flag or env
	// override is present.
	APIURL string `json:"apiUrl,omitempty"`

	// Token is the saved bearer token from `stac-admin auth login`.
	Token string `json:"token,omitempty"`

	// LicenseURL overrides the SPDX catalog location (mirrors, airgapped use).
	LicenseURL string `json:"licenseUrl,omitempty"`

	// TUI holds optional user preferences for the interactive console.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme forces "dark" or "light" instead of terminal detection.
	Theme string `json:"theme,omitempty"`
	// ColorProfile is an optional override (e.g. "ascii", "256", "truecolor").
	ColorProfile string `json:"colorProfile,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.stac-admin).
	if v := strings.TrimSpace(os.Getenv("STAC_ADMIN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stac-admin"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Best-effort safety net: keep a copy of the previous config to make
	// recovery from accidental overwrites easier. Ignore errors to avoid
	// blocking normal usage.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Use a unique temp file name to avoid cross-process clobbering when the
	// CLI and the TUI write config concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
