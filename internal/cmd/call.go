package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/iocontext"
)

type callFunc func(ctx context.Context, s *session) (*api.Response, error)

// runCall performs one API call and renders the decoded result: JSON in
// structured modes, render otherwise. Dry runs stop after the preview.
func runCall[T any](cmd *cobra.Command, call callFunc, render func(T) error) error {
	s, err := getSession(cmd)
	if err != nil {
		return err
	}
	resp, err := call(cmdContext(cmd), s)
	if done, perr := s.previewed(cmd, err); done {
		return perr
	}
	v, err := api.Decode[T](resp, err)
	if err != nil {
		return err
	}
	if isJSON(cmd) {
		return printJSON(cmd, v)
	}
	if render == nil {
		return nil
	}
	return render(v)
}

// runDelete confirms and performs a delete call.
func runDelete(cmd *cobra.Command, resource, id string, call callFunc) error {
	ok, err := confirmAction(cmd, confirmOptions{
		Prompt:        fmt.Sprintf("Delete %s %s? (y/N): ", resource, id),
		CancelMessage: "Cancelled.",
	})
	if err != nil || !ok {
		return err
	}
	s, err := getSession(cmd)
	if err != nil {
		return err
	}
	_, err = call(cmdContext(cmd), s)
	if done, perr := s.previewed(cmd, err); done {
		return perr
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", resource, id, err)
	}
	if isJSON(cmd) {
		return printJSON(cmd, map[string]any{"deleted": true, "resource": resource, "id": id})
	}
	printAction(cmd, "Deleted", resource, id)
	return nil
}

// printDetail writes a heading followed by aligned label/value pairs.
func printDetail(cmd *cobra.Command, heading string, pairs ...string) error {
	out := iocontext.GetIO(cmd.Context()).Out
	_, _ = fmt.Fprintln(out, heading)
	w := newTabWriter(out)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s:\t%s\n", pairs[i], pairs[i+1])
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// pathReq builds a request carrying path parameters and an optional body.
func pathReq(body any, kv ...string) api.Request {
	return api.Request{PathParams: api.PathValues(kv...), Body: body}
}
