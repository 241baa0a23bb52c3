package config

import (
	"fmt"
	"strings"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL string
	Token   string
	Profile string
}

// ResolveClientConfig merges stored credentials with --base-url/--token
// overrides. Flags beat the environment, which beats the keyring. Both
// overrides together skip the keyring entirely.
func ResolveClientConfig(profile, baseURLOverride, tokenOverride string) (ClientConfig, error) {
	cfg := ClientConfig{Profile: profile}

	useKeyring := baseURLOverride == "" || tokenOverride == ""
	if useKeyring {
		var (
			account Account
			err     error
		)
		if profile != "" {
			account, err = LoadProfile(profile)
		} else {
			account, err = LoadAccount()
		}
		if err == nil {
			cfg.BaseURL = account.BaseURL
			cfg.Token = account.Token
		} else if baseURLOverride == "" {
			return ClientConfig{}, err
		}
	}

	if baseURLOverride != "" {
		cfg.BaseURL = baseURLOverride
	}
	if tokenOverride != "" {
		cfg.Token = tokenOverride
	}
	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")

	if cfg.BaseURL == "" {
		return ClientConfig{}, fmt.Errorf("base URL not configured (set %s, run 'store auth login', or pass --base-url)", envBaseURL)
	}
	if cfg.Profile == "" {
		cfg.Profile = envValue(envProfile)
	}
	if cfg.Profile == "" && useKeyring {
		if current, err := CurrentProfile(); err == nil {
			cfg.Profile = current
		}
	}
	if cfg.Profile == "" {
		cfg.Profile = defaultProfile
	}
	return cfg, nil
}
