package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/config"
	"github.com/36node/store-cli/internal/dryrun"
	"github.com/36node/store-cli/internal/iocontext"
	"github.com/36node/store-cli/internal/validation"
)

const (
	transportStd   = "std"
	transportResty = "resty"
)

// session is a configured client plus the credentials it was built from.
// Under --dry-run the client talks to a RecordingTransport.
type session struct {
	client   *api.Client
	cfg      config.ClientConfig
	recorder *api.RecordingTransport
}

type clientFactory struct {
	timeout   time.Duration
	userAgent string
	transport string
	dryRun    bool
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("store-cli/%s", version),
		transport: flags.Transport,
		dryRun:    flags.DryRun,
	}
}

// getSession resolves credentials and builds a client for the command.
func getSession(cmd *cobra.Command) (*session, error) {
	f := newClientFactory()
	f.dryRun = dryrun.IsEnabled(cmd.Context())
	return f.session()
}

func (f *clientFactory) session() (*session, error) {
	cfg, err := config.ResolveClientConfig(flags.Profile, flags.BaseURL, flags.Token)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateBaseURL(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	s := &session{cfg: cfg}
	var transport api.Transport
	switch {
	case f.dryRun:
		s.recorder = &api.RecordingTransport{}
		transport = s.recorder
	case f.transport == transportResty:
		transport = api.NewRestyTransport(f.timeout, f.userAgent)
	default:
		transport = f.httpTransport()
	}
	s.client = api.New(api.Options{BaseURL: cfg.BaseURL, Token: cfg.Token}, api.WithTransport(transport))
	return s, nil
}

func (f *clientFactory) httpTransport() *api.HTTPTransport {
	t := api.NewHTTPTransport()
	if f.timeout > 0 {
		t.HTTP.Timeout = f.timeout
	}
	t.UserAgent = f.userAgent
	if flags.IdempotencyKey != "" {
		if strings.EqualFold(flags.IdempotencyKey, "auto") {
			t.IdempotencyKeyFunc = newIdempotencyKey
		} else {
			t.IdempotencyKey = flags.IdempotencyKey
		}
	}
	applyRetryOverrides(t)
	return t
}

func applyRetryOverrides(t *api.HTTPTransport) {
	cfg := t.RetryConfig

	if flags.MaxRateLimitRetriesSet {
		cfg.MaxRateLimitRetries = flags.MaxRateLimitRetries
	}
	if flags.Max5xxRetriesSet {
		cfg.Max5xxRetries = flags.Max5xxRetries
	}
	if flags.RateLimitDelaySet {
		cfg.RateLimitBaseDelay = flags.RateLimitDelay
	}
	if flags.ServerErrorDelaySet {
		cfg.ServerErrorRetryDelay = flags.ServerErrorDelay
	}
	if flags.CircuitBreakerThresholdSet {
		cfg.CircuitBreakerThreshold = flags.CircuitBreakerThreshold
	}
	if flags.CircuitBreakerResetTimeSet {
		cfg.CircuitBreakerResetTime = flags.CircuitBreakerResetTime
	}

	t.SetRetryConfig(cfg)
}

func newIdempotencyKey() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// previewed prints the recorded requests when the session is a dry run and
// reports whether the command should stop there. A callErr raised before any
// request was recorded is returned instead of an empty preview.
func (s *session) previewed(cmd *cobra.Command, callErr error) (bool, error) {
	if s.recorder == nil {
		return false, nil
	}
	if callErr != nil && s.recorder.Calls() == 0 {
		return true, callErr
	}
	requests := s.recorder.Requests()
	previews := make([]*dryrun.Preview, 0, len(requests))
	for _, tr := range requests {
		previews = append(previews, dryrun.FromRequest(tr))
	}
	if isJSON(cmd) {
		payload := map[string]any{"dry_run": true, "requests": previews}
		return true, printJSON(cmd, payload)
	}
	out := iocontext.GetIO(cmd.Context()).Out
	for _, p := range previews {
		p.Write(out)
	}
	return true, nil
}
