package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/config"
	"github.com/36node/store-cli/internal/debug"
	"github.com/36node/store-cli/internal/dryrun"
	"github.com/36node/store-cli/internal/iocontext"
	"github.com/36node/store-cli/internal/outfmt"
	"github.com/36node/store-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output         string
	JSON           bool
	JQ             string
	Template       string
	Compact        bool
	Debug          bool
	DryRun         bool
	Quiet          bool
	Yes            bool
	AllowPrivate   bool
	Timeout        time.Duration
	Transport      string
	IdempotencyKey string
	BaseURL        string
	Token          string
	Profile        string

	MaxRateLimitRetries     int
	Max5xxRetries           int
	RateLimitDelay          time.Duration
	ServerErrorDelay        time.Duration
	CircuitBreakerThreshold int
	CircuitBreakerResetTime time.Duration

	MaxRateLimitRetriesSet     bool
	Max5xxRetriesSet           bool
	RateLimitDelaySet          bool
	ServerErrorDelaySet        bool
	CircuitBreakerThresholdSet bool
	CircuitBreakerResetTimeSet bool
}

// flags holds the global command flags. It is package-level state and MUST be
// reset at the start of every Execute call; tests rely on that reset.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	return rootFlags{
		Output:       defaultOutput(),
		AllowPrivate: parseBoolEnv("STORE_ALLOW_PRIVATE"),
		Timeout:      api.DefaultTimeout,
		Transport:    defaultTransport(),
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("STORE_OUTPUT")); value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func defaultTransport() string {
	if value := strings.TrimSpace(os.Getenv("STORE_TRANSPORT")); value != "" {
		return strings.ToLower(value)
	}
	return transportStd
}

func parseBoolEnv(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

func normalizeOutputFormat(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// .env files never override exported variables, so load them before the
	// env-driven flag defaults are computed.
	config.LoadDotEnv()
	flags = defaultFlags()

	root := &cobra.Command{
		Use:                "store",
		Short:              "CLI for the 36node store API",
		Long:               "Manage members, products, orders, invitations and WeChat helpers of a 36node store backend.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			flags.Output = normalizeOutputFormat(flags.Output)
			if flags.JSON {
				if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			if (flags.JQ != "" || flags.Template != "") && flags.Output == "text" {
				if flagOrAliasChanged(cmd, "output") {
					return fmt.Errorf("--jq/--template require --output json or jsonl (or --json)")
				}
				flags.Output = "json"
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)

			base := iocontext.GetIO(ctx)
			ioStreams := &iocontext.IO{In: base.In, Out: base.Out, ErrOut: base.ErrOut}
			if flags.Quiet {
				ioStreams.ErrOut = io.Discard
				if mode == outfmt.Text {
					ioStreams.Out = io.Discard
				}
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			allowPrivate := parseBoolEnv("STORE_ALLOW_PRIVATE") || flags.AllowPrivate
			validation.SetAllowPrivate(allowPrivate)
			if allowPrivate && flagOrAliasChanged(cmd, "allow-private") {
				_, _ = fmt.Fprintln(ioStreams.ErrOut, "Warning: allowing private/localhost URLs (use only with trusted targets).")
			}

			debug.SetupLogger(ioStreams.ErrOut, flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			if flags.JQ != "" {
				ctx = outfmt.WithQuery(ctx, flags.JQ)
			}
			if flags.Template != "" {
				tmpl, err := loadTemplate(flags.Template)
				if err != nil {
					return err
				}
				ctx = outfmt.WithTemplate(ctx, tmpl)
			}

			switch flags.Transport {
			case transportStd, transportResty:
			default:
				return api.NewValidationError("transport", flags.Transport, []string{transportStd, transportResty})
			}
			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			if err := readRetryOverrides(cmd); err != nil {
				return err
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	streams := iocontext.GetIO(ctx)
	root.SetContext(ctx)
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl (env STORE_OUTPUT)")
	pf.BoolVar(&flags.JSON, "json", false, "Shorthand for --output json")
	pf.StringVar(&flags.JQ, "jq", "", "JQ expression to filter JSON output")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print the request instead of sending it")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", flags.AllowPrivate, "Allow private/localhost base URLs (env STORE_ALLOW_PRIVATE)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g. 30s, 2m)")
	pf.StringVar(&flags.Transport, "transport", flags.Transport, "HTTP transport: std|resty (env STORE_TRANSPORT)")
	pf.StringVar(&flags.IdempotencyKey, "idempotency-key", "", "Idempotency key for write requests ('auto' for per-request keys)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "API base URL (overrides profile and env)")
	pf.StringVar(&flags.Token, "token", "", "API token (overrides profile and env)")
	pf.StringVar(&flags.Profile, "profile", "", "Credentials profile (env STORE_PROFILE)")
	pf.IntVar(&flags.MaxRateLimitRetries, "max-rate-limit-retries", 0, "Max retries for 429 responses (overrides env)")
	pf.IntVar(&flags.Max5xxRetries, "max-5xx-retries", 0, "Max retries for 5xx responses (overrides env)")
	pf.DurationVar(&flags.RateLimitDelay, "rate-limit-delay", 0, "Base delay for 429 retries (overrides env)")
	pf.DurationVar(&flags.ServerErrorDelay, "server-error-delay", 0, "Delay between 5xx retries (overrides env)")
	pf.IntVar(&flags.CircuitBreakerThreshold, "circuit-breaker-threshold", 0, "Failures before the circuit opens (overrides env)")
	pf.DurationVar(&flags.CircuitBreakerResetTime, "circuit-breaker-reset-time", 0, "Circuit breaker reset time (overrides env)")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "jq", "query")
	flagAlias(pf, "template", "tpl")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "idempotency-key", "idem")
	flagAlias(pf, "allow-private", "ap")
	flagAlias(pf, "max-rate-limit-retries", "max-rl")
	flagAlias(pf, "max-5xx-retries", "m5x")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newMembersCmd())
	root.AddCommand(newProductsCmd())
	root.AddCommand(newOrdersCmd())
	root.AddCommand(newSettingsCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newInvitationsCmd())
	root.AddCommand(newWechatCmd())
	root.AddCommand(newFormIDsCmd())
	root.AddCommand(newRepliesCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newOpsCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

func readRetryOverrides(cmd *cobra.Command) error {
	flags.MaxRateLimitRetriesSet = flagOrAliasChanged(cmd, "max-rate-limit-retries")
	flags.Max5xxRetriesSet = flagOrAliasChanged(cmd, "max-5xx-retries")
	flags.RateLimitDelaySet = flagOrAliasChanged(cmd, "rate-limit-delay")
	flags.ServerErrorDelaySet = flagOrAliasChanged(cmd, "server-error-delay")
	flags.CircuitBreakerThresholdSet = flagOrAliasChanged(cmd, "circuit-breaker-threshold")
	flags.CircuitBreakerResetTimeSet = flagOrAliasChanged(cmd, "circuit-breaker-reset-time")

	switch {
	case flags.MaxRateLimitRetriesSet && flags.MaxRateLimitRetries < 0:
		return fmt.Errorf("--max-rate-limit-retries must be >= 0")
	case flags.Max5xxRetriesSet && flags.Max5xxRetries < 0:
		return fmt.Errorf("--max-5xx-retries must be >= 0")
	case flags.RateLimitDelaySet && flags.RateLimitDelay < 0:
		return fmt.Errorf("--rate-limit-delay must be >= 0")
	case flags.ServerErrorDelaySet && flags.ServerErrorDelay < 0:
		return fmt.Errorf("--server-error-delay must be >= 0")
	case flags.CircuitBreakerThresholdSet && flags.CircuitBreakerThreshold < 0:
		return fmt.Errorf("--circuit-breaker-threshold must be >= 0")
	case flags.CircuitBreakerResetTimeSet && flags.CircuitBreakerResetTime < 0:
		return fmt.Errorf("--circuit-breaker-reset-time must be >= 0")
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command and
// flag errors. targetCmd is the command Cobra resolved before failing.
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
		return msg
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown == "" {
			return msg
		}
		target := root
		if targetCmd != nil {
			target = targetCmd
		}
		seen := make(map[string]bool)
		var names []string
		add := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Hidden {
					return
				}
				for _, name := range []string{"--" + f.Name, shorthand(f)} {
					if name != "" && !seen[name] {
						seen[name] = true
						names = append(names, name)
					}
				}
			})
		}
		add(target.Flags())
		add(target.InheritedFlags())

		helpCmd := strings.TrimSpace(target.CommandPath()) + " --help"
		if suggestion := suggestFlag(unknown, names); suggestion != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
		}
		return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
	}

	return msg
}

func shorthand(f *pflag.Flag) string {
	if f.Shorthand == "" {
		return ""
	}
	return "-" + f.Shorthand
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name such as "--foo" or "-f" from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		idx++
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimRight(rest, ".,;:!?\"'")
	if len(rest) < 2 {
		return ""
	}
	return rest
}

func loadTemplate(value string) (string, error) {
	if strings.HasPrefix(value, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
