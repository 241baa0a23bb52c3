package config

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
)

// withMockKeyring swaps in ring for the duration of a test
func withMockKeyring(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
}

// withFailingKeyring sets up a keyring that always fails to open
func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return nil, err
	}))
}

func clearStoreEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envBaseURL, envToken, envProfile, envKeyringBackend, envKeyringPassword, envCredentialsDir} {
		t.Setenv(key, "")
	}
}

var testAccount = Account{BaseURL: "https://store.example.com/api/v1", Token: "tok-123"}

func TestProfileKey(t *testing.T) {
	tests := map[string]string{
		"":        accountKey,
		"default": accountKey,
		"work":    "profile:work",
		"a:b":     "profile:a:b",
	}
	for in, want := range tests {
		if got := profileKey(in); got != want {
			t.Errorf("profileKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeProfiles(t *testing.T) {
	got := normalizeProfiles([]string{" work ", "", "home", "work", "  "})
	if strings.Join(got, ",") != "work,home" {
		t.Fatalf("normalizeProfiles = %v", got)
	}
	if normalizeProfiles(nil) != nil {
		t.Fatal("nil input should give nil")
	}
}

func TestProfileIndexRoundTrip(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)

	profiles, err := loadProfileIndex(ring)
	if err != nil || len(profiles) != 0 {
		t.Fatalf("empty ring: %v, %v", profiles, err)
	}
	if err := saveProfileIndex(ring, []string{"work", "home"}); err != nil {
		t.Fatal(err)
	}
	profiles, err = loadProfileIndex(ring)
	if err != nil || strings.Join(profiles, ",") != "work,home" {
		t.Fatalf("round trip: %v, %v", profiles, err)
	}

	_ = ring.Set(keyring.Item{Key: profileIndexKey, Data: []byte("{bad")})
	if _, err := loadProfileIndex(ring); err == nil {
		t.Fatal("expected error for corrupt index")
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	clearStoreEnv(t)
	ring := keyring.NewArrayKeyring(nil)
	withMockKeyring(t, ring)

	if err := SaveProfile("work", testAccount); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := LoadProfile("work")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got != testAccount {
		t.Fatalf("LoadProfile = %+v, want %+v", got, testAccount)
	}

	item, err := ring.Get("profile:work")
	if err != nil {
		t.Fatalf("raw item: %v", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(item.Data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["base_url"] != testAccount.BaseURL || raw["token"] != testAccount.Token {
		t.Fatalf("unexpected stored JSON: %s", item.Data)
	}

	current, err := CurrentProfile()
	if err != nil || current != "work" {
		t.Fatalf("CurrentProfile = %q, %v", current, err)
	}
	profiles, err := ListProfiles()
	if err != nil || strings.Join(profiles, ",") != "work" {
		t.Fatalf("ListProfiles = %v, %v", profiles, err)
	}
}

func TestSaveProfileRejectsInvalidAccount(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	err := SaveProfile("work", Account{BaseURL: "https://store.example.com"})
	if err == nil || !strings.Contains(err.Error(), "token is required") {
		t.Fatalf("expected token error, got %v", err)
	}
	err = SaveProfile("work", Account{BaseURL: "not a url", Token: "t"})
	if err == nil || !strings.Contains(err.Error(), "base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	withMockKeyring(t, ring)

	if _, err := LoadProfile("missing"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	_ = ring.Set(keyring.Item{Key: "profile:bad", Data: []byte("{bad")})
	if _, err := LoadProfile("bad"); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestKeyringOpenErrors(t *testing.T) {
	withFailingKeyring(t, errors.New("locked"))

	checks := map[string]error{
		"SaveProfile":       SaveProfile("x", testAccount),
		"DeleteProfile":     DeleteProfile("x"),
		"SetCurrentProfile": SetCurrentProfile("x"),
	}
	_, checks["LoadProfile"] = LoadProfile("x")
	_, checks["ListProfiles"] = ListProfiles()
	_, checks["CurrentProfile"] = CurrentProfile()

	for name, err := range checks {
		if err == nil || !strings.Contains(err.Error(), "failed to open keyring") {
			t.Errorf("%s: expected open error, got %v", name, err)
		}
	}
}

func TestDeleteProfileSwitchesCurrentProfile(t *testing.T) {
	clearStoreEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	if err := SaveProfile("home", testAccount); err != nil {
		t.Fatal(err)
	}
	if err := SaveProfile("work", testAccount); err != nil {
		t.Fatal(err)
	}
	if err := DeleteProfile("work"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	current, _ := CurrentProfile()
	if current != "home" {
		t.Fatalf("current = %q, want home", current)
	}
	profiles, _ := ListProfiles()
	if strings.Join(profiles, ",") != "home" {
		t.Fatalf("profiles = %v", profiles)
	}

	if err := DeleteProfile("home"); err != nil {
		t.Fatal(err)
	}
	current, _ = CurrentProfile()
	if current != defaultProfile {
		t.Fatalf("current = %q, want default", current)
	}
	if err := DeleteProfile("never-existed"); err != nil {
		t.Fatalf("deleting a missing profile should succeed: %v", err)
	}
}

func TestListProfilesLegacyDefault(t *testing.T) {
	data, _ := json.Marshal(testAccount)
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: accountKey, Data: data}}))

	profiles, err := ListProfiles()
	if err != nil || len(profiles) != 1 || profiles[0] != defaultProfile {
		t.Fatalf("ListProfiles = %v, %v", profiles, err)
	}
}

func TestLoadAccount(t *testing.T) {
	t.Run("from env", func(t *testing.T) {
		clearStoreEnv(t)
		withFailingKeyring(t, errors.New("keyring must not be touched"))
		t.Setenv(envBaseURL, "https://store.example.com/")
		t.Setenv(envToken, "env-token")

		got, err := LoadAccount()
		if err != nil {
			t.Fatal(err)
		}
		if got.BaseURL != "https://store.example.com" || got.Token != "env-token" {
			t.Fatalf("LoadAccount = %+v", got)
		}
	})

	t.Run("env base url without token", func(t *testing.T) {
		clearStoreEnv(t)
		t.Setenv(envBaseURL, "https://store.example.com")
		if _, err := LoadAccount(); err == nil || !strings.Contains(err.Error(), envToken) {
			t.Fatalf("expected token error, got %v", err)
		}
		if HasAccount() {
			t.Fatal("HasAccount should be false")
		}
	})

	t.Run("profile from env", func(t *testing.T) {
		clearStoreEnv(t)
		withMockKeyring(t, keyring.NewArrayKeyring(nil))
		if err := SaveProfile("work", testAccount); err != nil {
			t.Fatal(err)
		}
		if err := SetCurrentProfile("other"); err != nil {
			t.Fatal(err)
		}
		t.Setenv(envProfile, "work")

		got, err := LoadAccount()
		if err != nil || got != testAccount {
			t.Fatalf("LoadAccount = %+v, %v", got, err)
		}
	})

	t.Run("current profile", func(t *testing.T) {
		clearStoreEnv(t)
		withMockKeyring(t, keyring.NewArrayKeyring(nil))
		if err := SaveProfile("work", testAccount); err != nil {
			t.Fatal(err)
		}
		if !HasAccount() {
			t.Fatal("HasAccount should be true")
		}
	})
}

func TestErrNotConfigured(t *testing.T) {
	if !strings.Contains(ErrNotConfigured.Error(), "store auth login") {
		t.Errorf("unexpected message %q", ErrNotConfigured.Error())
	}
}

func TestKeyringConfig(t *testing.T) {
	clearStoreEnv(t)

	cfg := keyringConfig()
	if cfg.ServiceName != serviceName {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, serviceName)
	}
	if cfg.FileDir == "" || cfg.FilePasswordFunc == nil {
		t.Error("file backend should be configured in auto mode")
	}
}

func TestKeyringConfig_FileBackendOverride(t *testing.T) {
	clearStoreEnv(t)
	base := t.TempDir()
	t.Setenv(envKeyringBackend, "file")
	t.Setenv(envCredentialsDir, base)

	cfg := keyringConfig()
	if len(cfg.AllowedBackends) != 1 || cfg.AllowedBackends[0] != keyring.FileBackend {
		t.Fatalf("AllowedBackends = %v, want [%s]", cfg.AllowedBackends, keyring.FileBackend)
	}
	if want := filepath.Join(base, "keyring"); cfg.FileDir != want {
		t.Fatalf("FileDir = %q, want %q", cfg.FileDir, want)
	}
}

func TestKeyringConfig_SystemBackendOverride(t *testing.T) {
	clearStoreEnv(t)
	t.Setenv(envKeyringBackend, "system")

	cfg := keyringConfig()
	if cfg.FileDir != "" || cfg.FilePasswordFunc != nil || len(cfg.AllowedBackends) != 0 {
		t.Fatalf("system backend should leave file settings empty: %+v", cfg)
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		backend  string
		dbusAddr string
		want     bool
	}{
		{"explicit file", "darwin", keyringBackendFile, "ignored", true},
		{"headless linux", "linux", keyringBackendAuto, "", true},
		{"linux desktop", "linux", keyringBackendAuto, "unix:path=/run/user/1000/bus", false},
		{"system never", "linux", keyringBackendSystem, "", false},
		{"non-linux auto", "windows", keyringBackendAuto, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldForceFileBackend(tt.goos, tt.backend, tt.dbusAddr); got != tt.want {
				t.Fatalf("shouldForceFileBackend = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyringBackendMode(t *testing.T) {
	tests := map[string]string{
		"":       keyringBackendAuto,
		"file":   keyringBackendFile,
		"FILE":   keyringBackendFile,
		"system": keyringBackendSystem,
		"native": keyringBackendSystem,
		"os":     keyringBackendSystem,
		"weird":  keyringBackendAuto,
	}
	for in, want := range tests {
		t.Setenv(envKeyringBackend, in)
		if got := keyringBackendMode(); got != want {
			t.Errorf("keyringBackendMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyringFileDir_DefaultsToUserConfigDir(t *testing.T) {
	clearStoreEnv(t)
	fakeConfigDir := t.TempDir()
	original := userConfigDir
	userConfigDir = func() (string, error) { return fakeConfigDir, nil }
	t.Cleanup(func() { userConfigDir = original })

	if got, want := keyringFileDir(), filepath.Join(fakeConfigDir, serviceName, "keyring"); got != want {
		t.Fatalf("keyringFileDir() = %q, want %q", got, want)
	}
}

func TestKeyringFilePassword(t *testing.T) {
	t.Setenv(envKeyringPassword, " env-pass ")
	password, err := keyringFilePassword("prompt")
	if err != nil || password != " env-pass " {
		t.Fatalf("keyringFilePassword = %q, %v", password, err)
	}

	t.Setenv(envKeyringPassword, "")
	original := stdinHasTTY
	stdinHasTTY = func() bool { return false }
	t.Cleanup(func() { stdinHasTTY = original })

	_, err = keyringFilePassword("prompt")
	if err == nil || !strings.Contains(err.Error(), envKeyringPassword) {
		t.Fatalf("expected non-interactive error, got %v", err)
	}
}
