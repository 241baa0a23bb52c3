// Package config stores store backend credentials in the OS keyring under
// named profiles and resolves the effective client settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName       = "store-cli"
	accountKey        = "default"
	defaultProfile    = "default"
	profilePrefix     = "profile:"
	profileIndexKey   = "profiles_index"
	currentProfileKey = "current_profile"

	envBaseURL         = "STORE_BASE_URL"
	envToken           = "STORE_TOKEN"
	envProfile         = "STORE_PROFILE"
	envKeyringBackend  = "STORE_KEYRING_BACKEND"
	envKeyringPassword = "STORE_KEYRING_PASSWORD"
	envCredentialsDir  = "STORE_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// openKeyring can be replaced in tests to use an in-memory keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Account holds the store backend connection details.
type Account struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	Token   string `json:"token" validate:"required"`
}

// ErrNotConfigured is returned when no account is configured
var ErrNotConfigured = errors.New("store not configured - run 'store auth login' first")

func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	// Auto mode still configures the file backend so keyring.Open can fall
	// through to it when no native backend is available.
	configureFileBackend(&cfg)

	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(envValue(envKeyringBackend)) {
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

// Headless Linux has no secret service, so it goes straight to the file backend.
func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func configureFileBackend(cfg *keyring.Config) {
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
}

func keyringFileDir() string {
	base := envValue(envCredentialsDir)
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, serviceName)
		}
	}
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			base = filepath.Join(home, ".config", serviceName)
		}
	}
	if base == "" {
		base = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	// Passwords are used verbatim; only an all-blank value counts as unset.
	if password, ok := os.LookupEnv(envKeyringPassword); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func profileKey(name string) string {
	if name == "" || name == defaultProfile {
		return accountKey
	}
	return profilePrefix + name
}

func loadProfileIndex(ring keyring.Keyring) ([]string, error) {
	item, err := ring.Get(profileIndexKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get profile index: %w", err)
	}
	var profiles []string
	if err := json.Unmarshal(item.Data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile index: %w", err)
	}
	return profiles, nil
}

func saveProfileIndex(ring keyring.Keyring, profiles []string) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	return ring.Set(keyring.Item{Key: profileIndexKey, Data: data})
}

func normalizeProfiles(profiles []string) []string {
	seen := make(map[string]struct{}, len(profiles))
	var out []string
	for _, p := range profiles {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// LoadAccount returns the active credentials. STORE_BASE_URL with STORE_TOKEN
// wins over the keyring; STORE_PROFILE selects a stored profile.
func LoadAccount() (Account, error) {
	if baseURL := envValue(envBaseURL); baseURL != "" {
		token := envValue(envToken)
		if token == "" {
			return Account{}, fmt.Errorf("environment variables %s and %s must both be set", envBaseURL, envToken)
		}
		return Account{BaseURL: strings.TrimSuffix(baseURL, "/"), Token: token}, nil
	}

	if profile := envValue(envProfile); profile != "" {
		return LoadProfile(profile)
	}

	current, err := CurrentProfile()
	if err != nil {
		return Account{}, err
	}
	return LoadProfile(current)
}

// SaveProfile validates and stores credentials under a named profile and
// makes it current.
func SaveProfile(profile string, account Account) error {
	if profile == "" {
		profile = defaultProfile
	}
	if err := ValidateAccount(account); err != nil {
		return err
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := ring.Set(keyring.Item{Key: profileKey(profile), Data: data}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	if err := saveProfileIndex(ring, normalizeProfiles(append(profiles, profile))); err != nil {
		return err
	}
	return SetCurrentProfile(profile)
}

// LoadProfile retrieves credentials for a named profile
func LoadProfile(profile string) (Account, error) {
	if profile == "" {
		profile = defaultProfile
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return Account{}, fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(profileKey(profile))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Account{}, ErrNotConfigured
		}
		return Account{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var account Account
	if err := json.Unmarshal(item.Data, &account); err != nil {
		return Account{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return account, nil
}

// DeleteProfile removes a stored profile. When it was current, the first
// remaining profile (or default) becomes current.
func DeleteProfile(profile string) error {
	if profile == "" {
		profile = defaultProfile
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	if err := ring.Remove(profileKey(profile)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	var remaining []string
	for _, p := range profiles {
		if p != profile {
			remaining = append(remaining, p)
		}
	}
	if err := saveProfileIndex(ring, remaining); err != nil {
		return err
	}

	current, err := CurrentProfile()
	if err == nil && current == profile {
		next := defaultProfile
		if len(remaining) > 0 {
			next = remaining[0]
		}
		_ = SetCurrentProfile(next)
	}
	return nil
}

// HasAccount checks if an account is configured
func HasAccount() bool {
	_, err := LoadAccount()
	return err == nil
}

// ListProfiles returns the known profile names
func ListProfiles() ([]string, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		if _, err := ring.Get(accountKey); err == nil {
			return []string{defaultProfile}, nil
		}
	}
	return profiles, nil
}

// CurrentProfile returns the active profile name
func CurrentProfile() (string, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return "", fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(currentProfileKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return defaultProfile, nil
		}
		return "", fmt.Errorf("failed to get current profile: %w", err)
	}
	return string(item.Data), nil
}

// SetCurrentProfile sets the active profile name
func SetCurrentProfile(profile string) error {
	if profile == "" {
		profile = defaultProfile
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring.Set(keyring.Item{Key: currentProfileKey, Data: []byte(profile)})
}
