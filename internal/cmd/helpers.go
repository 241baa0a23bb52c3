package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/iocontext"
	"github.com/36node/store-cli/internal/outfmt"
	"github.com/36node/store-cli/internal/validation"
)

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printJSON outputs data as JSON with optional jq/template filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	query := outfmt.GetQuery(cmd.Context())
	if tmpl := outfmt.GetTemplate(cmd.Context()); tmpl != "" {
		filtered, err := outfmt.ApplyQuery(v, query)
		if err != nil {
			return err
		}
		return outfmt.WriteTemplate(ioStreams.Out, filtered, tmpl)
	}
	return outfmt.WriteJSONFiltered(ioStreams.Out, v, query, outfmt.IsCompact(cmd.Context()) || outfmt.IsJSONL(cmd.Context()))
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	return outfmt.WriteJSON(iocontext.GetIO(cmd.Context()).ErrOut, v)
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// printAction reports a completed mutation in text mode.
func printAction(cmd *cobra.Command, action, resource, id string) {
	if flags.Quiet || isJSON(cmd) {
		return
	}
	message := fmt.Sprintf("%s %s", action, resource)
	if id != "" {
		message += " " + id
	}
	_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).Out, message)
}

// cmdContext returns the command context
func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

// aliasBridgeValue wraps a pflag.Value so that setting a hidden alias also
// marks the canonical flag as Changed.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue forwards pflag.SliceValue for slice flags.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

// flagAlias registers a hidden alias sharing the Value of an existing flag.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	ann := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		ann[k] = v
	}
	a.Annotations = ann
	fs.AddFlag(&a)
}

// flagOrAliasChanged reports whether the named flag or one of its hidden
// aliases was set explicitly.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}
	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}
	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

func boolPtrIfChanged(cmd *cobra.Command, flag string, value bool) *bool {
	if flagOrAliasChanged(cmd, flag) {
		return &value
	}
	return nil
}

// loadAtValue reads @path and @- (stdin) values; anything else is returned as-is.
func loadAtValue(cmd *cobra.Command, value string) (string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	target := strings.TrimPrefix(value, "@")
	if target == "" {
		return "", fmt.Errorf("invalid @ value: missing path (use @- for stdin)")
	}
	var (
		data []byte
		err  error
	)
	if target == "-" {
		data, err = io.ReadAll(iocontext.GetIO(cmd.Context()).In)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(target)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", target, err)
		}
	}
	return string(data), nil
}

// readBody parses a --body value (inline JSON, @file or @-) into raw JSON.
// An empty value returns nil.
func readBody(cmd *cobra.Command, value string) (json.RawMessage, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	text, err := loadAtValue(cmd, value)
	if err != nil {
		return nil, err
	}
	data := []byte(strings.TrimSpace(text))
	if len(data) == 0 {
		return nil, fmt.Errorf("--body is empty")
	}
	if err := validation.ValidateJSONPayload(data); err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON in --body")
	}
	return json.RawMessage(data), nil
}

// mergeBody overlays fields onto a --body object. Typed flags win over keys
// from --body.
func mergeBody(raw json.RawMessage, fields map[string]any) (any, error) {
	if raw == nil && len(fields) == 0 {
		return nil, nil
	}
	if len(fields) == 0 {
		return raw, nil
	}
	obj := map[string]any{}
	if raw != nil {
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("--body must be a JSON object when combined with field flags: %w", err)
		}
	}
	for k, v := range fields {
		obj[k] = v
	}
	return obj, nil
}

// parseKeyValues splits repeated key=value flags.
func parseKeyValues(flagName string, values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, kv := range values {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected key=value", flagName, kv)
		}
		out[key] = value
	}
	return out, nil
}

type confirmOptions struct {
	Prompt        string
	CancelMessage string
}

// confirmAction asks for a y/N answer unless --yes is set. Non-interactive
// JSON runs must pass --yes.
func confirmAction(cmd *cobra.Command, opts confirmOptions) (bool, error) {
	if flags.Yes || flags.DryRun {
		return true, nil
	}
	if isJSON(cmd) {
		return false, fmt.Errorf("--yes is required when using --output json")
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	if opts.Prompt != "" {
		_, _ = fmt.Fprint(ioStreams.ErrOut, opts.Prompt)
	}
	response, err := bufio.NewReader(ioStreams.In).ReadString('\n')
	if err != nil && response == "" {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(ioStreams.ErrOut, opts.CancelMessage)
		}
		return false, nil
	}
	if strings.ToLower(strings.TrimSpace(response)) != "y" {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(ioStreams.ErrOut, opts.CancelMessage)
		}
		return false, nil
	}
	return true, nil
}

func validateID(kind string, args ...string) error {
	for _, id := range args {
		if err := validation.ValidateIdentifier(kind, id); err != nil {
			return err
		}
	}
	return nil
}

// errAlreadyHandled signals that the error was printed already; Cobra should
// only propagate it for the exit code.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with error reporting: a structured JSON error
// on stderr in JSON mode, suggestions otherwise.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if isJSON(cmd) {
			_ = printJSONErr(cmd, api.StructuredErrorFromError(err))
		} else {
			_, _ = fmt.Fprint(iocontext.GetIO(cmd.Context()).ErrOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}
