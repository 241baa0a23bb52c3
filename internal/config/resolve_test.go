package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/99designs/keyring"
)

func TestResolveClientConfig(t *testing.T) {
	t.Run("flags only never open the keyring", func(t *testing.T) {
		clearStoreEnv(t)
		withFailingKeyring(t, errors.New("locked"))

		cfg, err := ResolveClientConfig("", "https://store.example.com/", "flag-token")
		if err != nil {
			t.Fatal(err)
		}
		want := ClientConfig{BaseURL: "https://store.example.com", Token: "flag-token", Profile: defaultProfile}
		if cfg != want {
			t.Fatalf("got %+v, want %+v", cfg, want)
		}
	})

	t.Run("base url flag without stored token", func(t *testing.T) {
		clearStoreEnv(t)
		withMockKeyring(t, keyring.NewArrayKeyring(nil))

		cfg, err := ResolveClientConfig("", "https://store.example.com", "")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Token != "" {
			t.Fatalf("expected empty token, got %q", cfg.Token)
		}
	})

	t.Run("stored profile with token override", func(t *testing.T) {
		clearStoreEnv(t)
		withMockKeyring(t, keyring.NewArrayKeyring(nil))
		if err := SaveProfile("work", testAccount); err != nil {
			t.Fatal(err)
		}

		cfg, err := ResolveClientConfig("work", "", "override")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.BaseURL != testAccount.BaseURL || cfg.Token != "override" || cfg.Profile != "work" {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("current profile is reported", func(t *testing.T) {
		clearStoreEnv(t)
		withMockKeyring(t, keyring.NewArrayKeyring(nil))
		if err := SaveProfile("home", testAccount); err != nil {
			t.Fatal(err)
		}
		cfg, err := ResolveClientConfig("", "", "")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Profile != "home" || cfg.Token != testAccount.Token {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearStoreEnv(t)
		withMockKeyring(t, keyring.NewArrayKeyring(nil))
		if _, err := ResolveClientConfig("", "", ""); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("blank base url", func(t *testing.T) {
		clearStoreEnv(t)
		withFailingKeyring(t, errors.New("locked"))
		_, err := ResolveClientConfig("", " / ", "t")
		if err == nil || !strings.Contains(err.Error(), "base URL not configured") {
			t.Fatalf("expected base URL error, got %v", err)
		}
	})
}
