// Package settings provides storage for poai user credentials.
//
// Credentials are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/poai/auth.json  (default: ~/.local/share/poai/auth.json)
//
// The file is a JSON object keyed by provider ID. File permissions are 0600
// (owner read/write only).
//
// Lookup order for API keys (see ResolveAPIKey):
//  1. --api-key flag (highest priority)
//  2. POAI_API_KEY, then the provider's own variable (OPENAI_API_KEY, ...)
//  3. The project key file ai_translate.key
//  4. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "poai"
	fileName    = "auth.json"
)

// Info is the entry stored per provider in auth.json.
type Info struct {
	// Key is the API key.
	Key string `json:"key,omitempty"`
	// BaseURL is a custom endpoint URL (custom-openai, self-hosted ollama).
	BaseURL string `json:"baseUrl,omitempty"`
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

// dataDir returns the XDG data directory for poai.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DataDir returns the poai data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// Get returns the entry for a provider, or nil if not found.
func Get(providerID string) *Info {
	return Load()[providerID]
}

// SetAPIKey stores an API key, and optionally a base URL, for a provider.
func SetAPIKey(providerID, key, baseURL string) error {
	store := Load()
	store[providerID] = &Info{Key: key, BaseURL: baseURL}
	return Save(store)
}

// GetAPIKey retrieves the stored API key for a provider, or "".
func GetAPIKey(providerID string) string {
	if info := Get(providerID); info != nil {
		return info.Key
	}
	return ""
}

// GetBaseURL retrieves the stored base URL for a provider, or "".
func GetBaseURL(providerID string) string {
	if info := Get(providerID); info != nil {
		return info.BaseURL
	}
	return ""
}

// Remove deletes credentials for a provider.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
