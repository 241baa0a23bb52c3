package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/iocontext"
	"github.com/36node/store-cli/internal/validation"
)

func newInvitationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invitations",
		Aliases: []string{"invitation", "inv"},
		Short:   "Manage invitation codes",
	}

	cmd.AddCommand(newInvitationsListCmd())
	cmd.AddCommand(newInvitationsGetCmd())
	cmd.AddCommand(newInvitationsCreateCmd())
	cmd.AddCommand(newInvitationsUpdateCmd())
	cmd.AddCommand(newInvitationsUpdateManyCmd())
	cmd.AddCommand(newInvitationsDeleteCmd())

	return cmd
}

func newInvitationsListCmd() *cobra.Command {
	var f api.InvitationFilter

	return NewListCommand(ListConfig[api.Invitation]{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List invitations",
		EmptyMessage: "No invitations found",
		Example: strings.TrimSpace(`
  store invitations list --used false
  store invitations list --code AB12CD -o json
`),
		Headers: []string{"ID", "CODE", "PERIOD", "WINDOW", "USED", "USED BY"},
		RowFunc: func(inv api.Invitation) []string {
			return []string{inv.ID, orDash(inv.Code), orDash(itoaIfPositive(inv.Period)), orDash(window(inv.Start, inv.End)), yesNo(inv.Used), orDash(inv.UsedBy)}
		},
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&f.NS, "ns", "", "Filter by namespace")
			cmd.Flags().StringVar(&f.Sub, "sub", "", "Filter by subject")
			cmd.Flags().StringVar(&f.Code, "code", "", "Filter by code")
			cmd.Flags().StringVar(&f.Phone, "phone", "", "Filter by phone")
			cmd.Flags().StringVar(&f.Used, "used", "", "Filter by used state (true|false)")
		},
		Filter: func(_ *cobra.Command, q *api.Query) error {
			if f.Used != "" {
				if _, err := strconv.ParseBool(f.Used); err != nil {
					return api.NewValidationError("used", f.Used, []string{"true", "false"})
				}
			}
			f.Apply(q)
			return nil
		},
		Fetch: func(ctx context.Context, client *api.Client, q *api.Query) (*api.Response, error) {
			return client.Invitation().ListInvitations(ctx, api.Request{Query: q})
		},
	})
}

func renderInvitation(cmd *cobra.Command) func(api.Invitation) error {
	return func(inv api.Invitation) error {
		return printDetail(cmd, "Invitation "+inv.ID,
			"Code", inv.Code,
			"Email", inv.Email,
			"Phone", inv.Phone,
			"Period", itoaIfPositive(inv.Period),
			"Window", window(inv.Start, inv.End),
			"Expires", inv.ExpireAt,
			"Used", yesNo(inv.Used),
			"Used at", inv.UsedAt,
			"Used by", inv.UsedBy,
			"Source", inv.Source,
			"Comment", inv.Comment,
		)
	}
}

func newInvitationsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"g"},
		Short:   "Get an invitation",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("invitation ID", args[0]); err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Invitation().GetInvitation(ctx, pathReq(nil, string(api.FieldInvitationID), args[0]))
			}, renderInvitation(cmd))
		}),
	}
}

type invitationFlags struct {
	body    string
	start   string
	end     string
	period  int
	email   string
	phone   string
	source  string
	comment string
	used    bool
}

func (ivf *invitationFlags) register(cmd *cobra.Command, update bool) {
	cmd.Flags().StringVar(&ivf.body, "body", "", "Invitation JSON (inline, @file or @-)")
	cmd.Flags().StringVar(&ivf.start, "start", "", "Membership start")
	cmd.Flags().StringVar(&ivf.end, "end", "", "Membership end")
	cmd.Flags().IntVar(&ivf.period, "period", 0, "Membership period in days")
	cmd.Flags().StringVar(&ivf.email, "email", "", "Recipient email")
	cmd.Flags().StringVar(&ivf.phone, "phone", "", "Recipient phone")
	if update {
		cmd.Flags().StringVar(&ivf.source, "source", "", "Source")
		cmd.Flags().StringVar(&ivf.comment, "comment", "", "Comment")
		cmd.Flags().BoolVar(&ivf.used, "used", false, "Mark as used")
	}
}

func (ivf *invitationFlags) payload(cmd *cobra.Command) (any, error) {
	if ivf.email != "" {
		if err := validation.ValidateEmail(ivf.email); err != nil {
			return nil, err
		}
	}
	if ivf.phone != "" {
		if err := validation.ValidatePhone(ivf.phone); err != nil {
			return nil, err
		}
	}
	raw, err := readBody(cmd, ivf.body)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	for flag, v := range map[string]any{
		"start":   ivf.start,
		"end":     ivf.end,
		"period":  ivf.period,
		"email":   ivf.email,
		"phone":   ivf.phone,
		"source":  ivf.source,
		"comment": ivf.comment,
		"used":    ivf.used,
	} {
		if cmd.Flags().Lookup(flag) != nil && flagOrAliasChanged(cmd, flag) {
			fields[flag] = v
		}
	}
	return mergeBody(raw, fields)
}

func newInvitationsCreateCmd() *cobra.Command {
	var (
		ivf         invitationFlags
		count       int
		concurrency int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create invitations",
		Long:  "Create one invitation, or --count invitations sharing the same terms.",
		Example: strings.TrimSpace(`
  store invitations create --period 30 --email someone@example.com
  store invitations create --period 365 --count 20
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			payload, err := ivf.payload(cmd)
			if err != nil {
				return err
			}
			if payload == nil {
				// An invitation with server defaults is valid.
				payload = map[string]any{}
			}
			if count == 1 {
				return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
					return s.client.Invitation().CreateInvitation(ctx, api.Request{Body: payload})
				}, func(inv api.Invitation) error {
					printAction(cmd, "Created", "invitation", inv.Code)
					return nil
				})
			}

			keys := make([]string, count)
			for i := range keys {
				keys[i] = strconv.Itoa(i + 1)
			}
			return runBulk(cmd, "Created", "invitations", keys, concurrency, func(ctx context.Context, s *session, _ string) (any, error) {
				inv, err := api.Decode[api.Invitation](s.client.Invitation().CreateInvitation(ctx, api.Request{Body: payload}))
				if err != nil {
					return nil, err
				}
				return inv, nil
			})
		}),
	}

	ivf.register(cmd, false)
	cmd.Flags().IntVar(&count, "count", 1, "Number of invitations to create")
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests for --count")
	return cmd
}

func newInvitationsUpdateCmd() *cobra.Command {
	var ivf invitationFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an invitation",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("invitation ID", args[0]); err != nil {
				return err
			}
			payload, err := ivf.payload(cmd)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Invitation().UpdateInvitation(ctx, pathReq(payload, string(api.FieldInvitationID), args[0]))
			}, func(api.Invitation) error {
				printAction(cmd, "Updated", "invitation", args[0])
				return nil
			})
		}),
	}
	ivf.register(cmd, true)
	return cmd
}

func newInvitationsUpdateManyCmd() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "update-many",
		Short: "Upsert invitations in one request",
		Long:  "Send a JSON array of invitations ({id, code, start, end, period}) to the bulk upsert endpoint.",
		Example: strings.TrimSpace(`
  store invitations update-many --body @invitations.json
  cat invitations.json | store invitations update-many --body @-
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			raw, err := readBody(cmd, body)
			if err != nil {
				return err
			}
			if raw == nil {
				return &api.MissingParameterError{Operation: api.OpUpdateInvitations, Field: api.FieldBody}
			}
			var items []api.UpdateInvitationsBody
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("--body must be a JSON array of invitations: %w", err)
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Invitation().UpdateInvitations(ctx, api.Request{Body: items})
			}, func(out []api.Invitation) error {
				printAction(cmd, "Upserted", "invitations", strconv.Itoa(max(len(out), len(items))))
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&body, "body", "", "JSON array (inline, @file or @-)")
	return cmd
}

func newInvitationsDeleteCmd() *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete one or more invitations",
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("invitation ID", args...); err != nil {
				return err
			}
			if len(args) == 1 {
				return runDelete(cmd, "invitation", args[0], func(ctx context.Context, s *session) (*api.Response, error) {
					return s.client.Invitation().DeleteInvitation(ctx, pathReq(nil, string(api.FieldInvitationID), args[0]))
				})
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete %d invitations? (y/N): ", len(args)),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			return runBulk(cmd, "Deleted", "invitations", args, concurrency, func(ctx context.Context, s *session, id string) (any, error) {
				_, err := s.client.Invitation().DeleteInvitation(ctx, pathReq(nil, string(api.FieldInvitationID), id))
				return nil, err
			})
		}),
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests")
	return cmd
}

// runBulk fans op out over keys and reports the results. The command fails
// with the first error when any item failed.
func runBulk(cmd *cobra.Command, action, resource string, keys []string, concurrency int64, op func(ctx context.Context, s *session, key string) (any, error)) error {
	s, err := getSession(cmd)
	if err != nil {
		return err
	}

	var progress io.Writer
	if !isJSON(cmd) && !flags.Quiet && s.recorder == nil {
		progress = iocontext.GetIO(cmd.Context()).ErrOut
	}
	results := runBulkOperation(cmdContext(cmd), keys, concurrency, progress, func(ctx context.Context, key string) (any, error) {
		return op(ctx, s, key)
	})
	if done, perr := s.previewed(cmd, firstBulkError(results)); done {
		return perr
	}

	success, failure := countResults(results)
	if isJSON(cmd) {
		if err := printJSON(cmd, map[string]any{
			"success_count": success,
			"failure_count": failure,
			"results":       results,
		}); err != nil {
			return err
		}
	} else {
		out := iocontext.GetIO(cmd.Context()).Out
		for _, r := range results {
			if !r.Success {
				_, _ = fmt.Fprintf(out, "  #%d %s: %s\n", r.Index+1, r.ID, r.Error)
			}
		}
		if !flags.Quiet {
			_, _ = fmt.Fprintf(out, "%s %d of %d %s\n", action, success, len(keys), resource)
		}
	}
	if failure > 0 {
		return fmt.Errorf("%d of %d %s failed: %w", failure, len(keys), resource, firstBulkError(results))
	}
	return nil
}
