package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/outfmt"
)

// ListConfig defines how a list command behaves
type ListConfig[T any] struct {
	Use          string
	Aliases      []string
	Short        string
	Long         string
	Example      string
	EmptyMessage string
	Headers      []string
	RowFunc      func(T) []string
	// Fetch performs the list call with the query built from flags.
	Fetch func(ctx context.Context, client *api.Client, q *api.Query) (*api.Response, error)
	// Flags registers command-specific filter flags.
	Flags func(cmd *cobra.Command)
	// Filter applies command-specific filter flags to the query.
	Filter func(cmd *cobra.Command, q *api.Query) error
	// Footer runs after the table in text mode.
	Footer func(cmd *cobra.Command, items []T)
}

// listFlags are the paging and filter flags shared by every list command.
type listFlags struct {
	limit    int
	offset   int
	sort     string
	selects  string
	populate string
	filters  []string
}

func (lf *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&lf.limit, "limit", 0, "Maximum number of items (_limit)")
	cmd.Flags().IntVar(&lf.offset, "offset", 0, "Number of items to skip (_offset)")
	cmd.Flags().StringVar(&lf.sort, "sort", "", "Sort field, prefix with - for descending (_sort)")
	cmd.Flags().StringVar(&lf.selects, "select", "", "Comma-separated fields to return (_select)")
	cmd.Flags().StringVar(&lf.populate, "populate", "", "Referenced field to expand (_populate)")
	cmd.Flags().StringArrayVar(&lf.filters, "filter", nil, "Filter key=value or key[$op]=value ($gt $gte $lt $lte $ne $in $nin $regex); repeatable")
	flagAlias(cmd.Flags(), "limit", "lim")
	flagAlias(cmd.Flags(), "filter", "where")
}

func (lf *listFlags) query() (*api.Query, error) {
	if lf.limit < 0 {
		return nil, fmt.Errorf("--limit must be >= 0")
	}
	if lf.offset < 0 {
		return nil, fmt.Errorf("--offset must be >= 0")
	}
	q := api.NewQuery()
	q.Limit = lf.limit
	q.Offset = lf.offset
	q.Sort = lf.sort
	q.Select = lf.selects
	q.Populate = lf.populate
	filter, err := parseFilters(lf.filters)
	if err != nil {
		return nil, err
	}
	for k, v := range filter {
		q.Where(k, v)
	}
	return q, nil
}

// parseFilters turns repeated --filter values into a query filter. A repeated
// key becomes a list; key[$op]=value builds an operator map.
func parseFilters(values []string) (map[string]any, error) {
	out := map[string]any{}
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --filter %q: expected key=value", raw)
		}

		if open := strings.IndexByte(key, '['); open > 0 && strings.HasSuffix(key, "]") {
			field, op := key[:open], key[open+1:len(key)-1]
			if !strings.HasPrefix(op, "$") {
				op = "$" + op
			}
			ops, isMap := out[field].(map[string]any)
			if !isMap {
				if _, exists := out[field]; exists {
					return nil, fmt.Errorf("invalid --filter %q: %s already has a plain value", raw, field)
				}
				ops = map[string]any{}
				out[field] = ops
			}
			if op == "$in" || op == "$nin" {
				prev, _ := ops[op].([]string)
				ops[op] = append(prev, value)
			} else {
				ops[op] = value
			}
			continue
		}

		switch existing := out[key].(type) {
		case nil:
			out[key] = value
		case string:
			out[key] = []string{existing, value}
		case []string:
			out[key] = append(existing, value)
		default:
			return nil, fmt.Errorf("invalid --filter %q: %s already has operator filters", raw, key)
		}
	}
	return out, nil
}

// NewListCommand creates a cobra command from ListConfig
func NewListCommand[T any](cfg ListConfig[T]) *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:     cfg.Use,
		Aliases: cfg.Aliases,
		Short:   cfg.Short,
		Long:    cfg.Long,
		Example: cfg.Example,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			q, err := lf.query()
			if err != nil {
				return err
			}
			if cfg.Filter != nil {
				if err := cfg.Filter(cmd, q); err != nil {
					return err
				}
			}

			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			resp, err := cfg.Fetch(cmdContext(cmd), s.client, q)
			if done, perr := s.previewed(cmd, err); done {
				return perr
			}
			items, err := api.Decode[[]T](resp, err)
			if err != nil {
				return err
			}

			meta := &outfmt.ListMeta{Limit: q.Limit, Offset: q.Offset}
			if total, ok := resp.TotalCount(); ok {
				meta.Total = &total
			}

			f := newFormatter(cmd)
			if isJSON(cmd) {
				return f.OutputList(emptySlice(items), meta)
			}
			if len(items) == 0 {
				f.Empty(cfg.EmptyMessage)
				return nil
			}
			f.StartTable(cfg.Headers)
			for _, item := range items {
				f.Row(cfg.RowFunc(item)...)
			}
			if err := f.EndTable(); err != nil {
				return err
			}
			if cfg.Footer != nil {
				cfg.Footer(cmd, items)
			}
			if meta.Total != nil && !flags.Quiet {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d\n", len(items), *meta.Total)
			}
			return nil
		}),
	}

	lf.register(cmd)
	if cfg.Flags != nil {
		cfg.Flags(cmd)
	}
	return cmd
}

func emptySlice[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
