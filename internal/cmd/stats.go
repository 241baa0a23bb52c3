package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/cli"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Record and list per-user daily stats",
	}

	cmd.AddCommand(newStatsListCmd())
	cmd.AddCommand(newStatsCreateCmd())

	return cmd
}

func newStatsListCmd() *cobra.Command {
	var user, from, to string

	return NewListCommand(ListConfig[api.Stats]{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List stats records",
		Long:         "List stats records. --from and --to are exclusive bounds on the record date and accept YYYY-MM-DD, yesterday or 7d ago.",
		EmptyMessage: "No stats found",
		Example: strings.TrimSpace(`
  store stats list --user u1 --from 2024-01-01 --to 2024-02-01
  store stats list --user u1 --from "8d ago"
`),
		Headers: []string{"USER", "DATE", "VALUE"},
		RowFunc: func(st api.Stats) []string {
			return []string{st.User, st.Date, strconv.FormatFloat(st.Data.Value, 'f', -1, 64)}
		},
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&user, "user", "", "Filter by user")
			cmd.Flags().StringVar(&from, "from", "", "Only records after this date")
			cmd.Flags().StringVar(&to, "to", "", "Only records before this date")
		},
		Filter: func(_ *cobra.Command, q *api.Query) error {
			dateFrom, err := parseDayFlag("from", from)
			if err != nil {
				return err
			}
			dateTo, err := parseDayFlag("to", to)
			if err != nil {
				return err
			}
			api.StatsFilter{User: user, DateFrom: dateFrom, DateTo: dateTo}.Apply(q)
			return nil
		},
		Fetch: func(ctx context.Context, client *api.Client, q *api.Query) (*api.Response, error) {
			return client.Stats().ListStats(ctx, api.Request{Query: q})
		},
	})
}

func newStatsCreateCmd() *cobra.Command {
	var (
		body  string
		user  string
		date  string
		value float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create or update a stats record",
		Example: strings.TrimSpace(`
  store stats create --user u1 --date 2024-01-15 --value 42
  store stats create --user u1 --date today --value 3
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			raw, err := readBody(cmd, body)
			if err != nil {
				return err
			}
			day, err := parseDayFlag("date", date)
			if err != nil {
				return err
			}
			fields := map[string]any{}
			if user != "" {
				fields["user"] = user
			}
			if day != "" {
				fields["date"] = day
			}
			if flagOrAliasChanged(cmd, "value") {
				fields["data"] = api.StatsData{Value: value}
			}
			payload, err := mergeBody(raw, fields)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Stats().CreateStats(ctx, api.Request{Body: payload})
			}, func(st api.Stats) error {
				printAction(cmd, "Recorded", "stats", st.User+"@"+st.Date)
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&body, "body", "", "Stats JSON (inline, @file or @-)")
	cmd.Flags().StringVar(&user, "user", "", "User ID")
	cmd.Flags().StringVar(&date, "date", "", "Record date (YYYY-MM-DD, today, yesterday, 2d ago)")
	cmd.Flags().Float64Var(&value, "value", 0, "Recorded value")
	return cmd
}

// parseDayFlag normalizes a date flag to YYYY-MM-DD. Empty stays empty.
func parseDayFlag(name, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	day, err := cli.ParseDay(value, time.Now())
	if err != nil {
		return "", fmt.Errorf("invalid --%s: %w", name, err)
	}
	return day, nil
}

// parseTimeFlag normalizes a time flag to RFC3339 UTC. Empty stays empty.
func parseTimeFlag(name, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	t, err := cli.ParseTime(value, time.Now())
	if err != nil {
		return "", fmt.Errorf("invalid --%s: %w", name, err)
	}
	return cli.FormatTime(t), nil
}
