package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/config"
	"github.com/36node/store-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage authentication credentials",
		Long:    "Store backend credentials are kept in your OS keychain under named profiles.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save credentials to the keychain",
		Long: strings.TrimSpace(`
Save a base URL and bearer token under a profile (default: "default") and
make that profile current.

Values come from --base-url and --token, or from STORE_BASE_URL and
STORE_TOKEN in the file given by --env-file.
`),
		Example: strings.TrimSpace(`
  store auth login --base-url https://api.example.com/store/v0 --token "$TOKEN"
  store auth login --env-file .env --profile staging
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			baseURL, token, profile := flags.BaseURL, flags.Token, flags.Profile
			if envFile != "" {
				vars, err := config.ReadDotEnv(envFile)
				if err != nil {
					return fmt.Errorf("failed to read --env-file %q: %w", envFile, err)
				}
				if baseURL == "" {
					baseURL = strings.TrimSpace(vars["STORE_BASE_URL"])
				}
				if token == "" {
					token = strings.TrimSpace(vars["STORE_TOKEN"])
				}
				if profile == "" {
					profile = strings.TrimSpace(vars["STORE_PROFILE"])
				}
			}
			if baseURL == "" {
				return fmt.Errorf("--base-url is required")
			}
			if token == "" {
				return fmt.Errorf("--token is required")
			}

			baseURL = strings.TrimSuffix(baseURL, "/")
			if err := validation.ValidateBaseURL(baseURL); err != nil {
				return fmt.Errorf("invalid URL: %w", err)
			}

			account := config.Account{BaseURL: baseURL, Token: token}
			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}
			if profile == "" {
				profile = "default"
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"saved": true, "profile": profile, "base_url": baseURL})
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Credentials saved.")
			_, _ = fmt.Fprintf(out, "  Base URL: %s\n", baseURL)
			_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			if info, err := config.InspectToken(token); err == nil && info.Expired(time.Now()) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: the token has already expired")
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Read STORE_BASE_URL and STORE_TOKEN from a .env file")
	flagAlias(cmd.Flags(), "env-file", "env")
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials",
		Long:  "Show the active base URL and a masked token. JWT tokens also show their subject and expiry.",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			usingEnv := strings.TrimSpace(os.Getenv("STORE_BASE_URL")) != ""

			cfg, err := config.ResolveClientConfig(flags.Profile, flags.BaseURL, flags.Token)
			if err != nil || cfg.Token == "" {
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{
						"authenticated": false,
						"message":       "Not authenticated. Run 'store auth login' to configure credentials.",
					})
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not authenticated.")
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'store auth login' to configure credentials.")
				return nil
			}

			source := "keychain"
			switch {
			case flags.BaseURL != "" || flags.Token != "":
				source = "flags"
			case usingEnv:
				source = "env"
			}
			info, _ := config.InspectToken(cfg.Token)

			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated": true,
					"base_url":      cfg.BaseURL,
					"token":         maskToken(cfg.Token),
					"profile":       cfg.Profile,
					"source":        source,
				}
				if info != nil {
					payload["token_info"] = info
					payload["expired"] = info.Expired(time.Now())
				}
				return printJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Authenticated")
			_, _ = fmt.Fprintf(out, "  Base URL: %s\n", cfg.BaseURL)
			_, _ = fmt.Fprintf(out, "  Token: %s\n", maskToken(cfg.Token))
			_, _ = fmt.Fprintf(out, "  Profile: %s\n", cfg.Profile)
			_, _ = fmt.Fprintf(out, "  Source: %s\n", source)
			if info != nil {
				if info.Subject != "" {
					_, _ = fmt.Fprintf(out, "  Subject: %s\n", info.Subject)
				}
				if info.ExpiresAt != nil {
					state := "expires"
					if info.Expired(time.Now()) {
						state = "expired"
					}
					_, _ = fmt.Fprintf(out, "  Token %s: %s\n", state, info.ExpiresAt.Format(time.RFC3339))
				}
			}
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove credentials from the keychain",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}
			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"removed": true, "profile": profile})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed credentials for profile %s\n", profile)
			return nil
		}),
	}
}

// maskToken keeps the first and last four characters.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", min(len(token)-8, 16)) + token[len(token)-4:]
}
