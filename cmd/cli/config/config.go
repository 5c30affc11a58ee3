package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultAPIURL = "http://localhost:8081"

// ErrNotLoggedIn is returned by CurrentUser when no session is stored.
var ErrNotLoggedIn = errors.New("not logged in: run `tj login` first")

// APIURL returns the base URL for the Trading Journal API.
// It can be overridden with the TJ_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("TJ_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// sessionPath is ~/.tj/session unless TJ_SESSION_FILE is set.
func sessionPath() (string, error) {
	if v := os.Getenv("TJ_SESSION_FILE"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tj", "session"), nil
}

// SaveUser remembers the logged-in user id for later commands.
func SaveUser(userID string) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(path, []byte(userID+"\n"), 0o600)
}

// CurrentUser returns the user id stored by SaveUser.
func CurrentUser() (string, error) {
	path, err := sessionPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	user := strings.TrimSpace(string(data))
	if user == "" {
		return "", ErrNotLoggedIn
	}
	return user, nil
}

// ClearUser forgets the stored session. A missing session is not an error.
func ClearUser() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
