package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
)

func newMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "members",
		Aliases: []string{"member", "mb"},
		Short:   "Manage memberships",
		Long:    "List, create, update and delete user memberships.",
	}

	cmd.AddCommand(newMembersListCmd())
	cmd.AddCommand(newMembersGetCmd())
	cmd.AddCommand(newMembersCreateCmd())
	cmd.AddCommand(newMembersUpdateCmd())
	cmd.AddCommand(newMembersDeleteCmd())

	return cmd
}

func memberRow(m api.Member) []string {
	var periods []string
	for _, p := range m.Period {
		periods = append(periods, fmt.Sprintf("%s..%s", orDash(p.Start), orDash(p.End)))
	}
	return []string{m.User, yesNo(m.Active), orDash(strings.Join(periods, ", ")), orDash(m.UpdatedAt)}
}

func newMembersListCmd() *cobra.Command {
	var users []string
	var active bool

	return NewListCommand(ListConfig[api.Member]{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List members",
		EmptyMessage: "No members found",
		Example: strings.TrimSpace(`
  # Active members
  store members list --active

  # Specific users as JSON
  store members list --user u1 --user u2 -o json
`),
		Headers: []string{"USER", "ACTIVE", "PERIODS", "UPDATED"},
		RowFunc: memberRow,
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().StringSliceVar(&users, "user", nil, "Only these users (repeatable)")
			cmd.Flags().BoolVar(&active, "active", false, "Filter by active state")
		},
		Filter: func(cmd *cobra.Command, q *api.Query) error {
			api.MemberFilter{Users: users, Active: boolPtrIfChanged(cmd, "active", active)}.Apply(q)
			return nil
		},
		Fetch: func(ctx context.Context, client *api.Client, q *api.Query) (*api.Response, error) {
			return client.Member().ListMembers(ctx, api.Request{Query: q})
		},
	})
}

func renderMember(cmd *cobra.Command) func(api.Member) error {
	return func(m api.Member) error {
		row := memberRow(m)
		return printDetail(cmd, "Member "+m.User,
			"Active", row[1],
			"Periods", row[2],
			"Created", m.CreatedAt,
			"Updated", m.UpdatedAt,
		)
	}
}

func newMembersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <user>",
		Aliases: []string{"g"},
		Short:   "Get a user's membership",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("user", args[0]); err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Member().GetMember(ctx, pathReq(nil, string(api.FieldUser), args[0]))
			}, renderMember(cmd))
		}),
	}
}

func newMembersCreateCmd() *cobra.Command {
	var body, user string
	var active bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a membership",
		Example: strings.TrimSpace(`
  store members create --user u1 --active
  store members create --body '{"user":"u1","period":[{"start":"2024-01-01","end":"2024-12-31"}]}'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			raw, err := readBody(cmd, body)
			if err != nil {
				return err
			}
			fields := map[string]any{}
			if user != "" {
				fields["user"] = user
			}
			if flagOrAliasChanged(cmd, "active") {
				fields["active"] = active
			}
			payload, err := mergeBody(raw, fields)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Member().CreateMember(ctx, api.Request{Body: payload})
			}, func(m api.Member) error {
				printAction(cmd, "Created", "member", m.User)
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&body, "body", "", "Member JSON (inline, @file or @-)")
	cmd.Flags().StringVar(&user, "user", "", "User ID")
	cmd.Flags().BoolVar(&active, "active", false, "Mark the membership active")
	return cmd
}

func newMembersUpdateCmd() *cobra.Command {
	var body string
	var active bool

	cmd := &cobra.Command{
		Use:   "update <user>",
		Short: "Update a user's membership",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("user", args[0]); err != nil {
				return err
			}
			raw, err := readBody(cmd, body)
			if err != nil {
				return err
			}
			fields := map[string]any{}
			if flagOrAliasChanged(cmd, "active") {
				fields["active"] = active
			}
			payload, err := mergeBody(raw, fields)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Member().UpdateMember(ctx, pathReq(payload, string(api.FieldUser), args[0]))
			}, func(m api.Member) error {
				printAction(cmd, "Updated", "member", args[0])
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&body, "body", "", "Member JSON (inline, @file or @-)")
	cmd.Flags().BoolVar(&active, "active", false, "Set the active state")
	return cmd
}

func newMembersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <user>",
		Aliases: []string{"rm"},
		Short:   "Delete a user's membership",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("user", args[0]); err != nil {
				return err
			}
			return runDelete(cmd, "member", args[0], func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Member().DeleteMember(ctx, pathReq(nil, string(api.FieldUser), args[0]))
			})
		}),
	}
}
