package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/outfmt"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order", "od"},
		Short:   "Manage orders",
	}

	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersGetCmd())
	cmd.AddCommand(newOrdersCreateCmd())
	cmd.AddCommand(newOrdersUpdateCmd())
	cmd.AddCommand(newOrdersDeleteCmd())

	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var (
		paid      bool
		method    string
		createdBy string
		since     string
		until     string
	)

	return NewListCommand(ListConfig[api.Order]{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List orders",
		EmptyMessage: "No orders found",
		Example: strings.TrimSpace(`
  # Paid WeChat orders with the product expanded
  store orders list --paid --method WX_PAY --populate product

  # Orders of one creator, newest first
  store orders list --created-by u1 --sort -createdAt

  # Orders created this week
  store orders list --since "7d ago"
`),
		Headers: []string{"ID", "NO", "PRODUCT", "METHOD", "STATUS", "FEE", "PAID AT"},
		RowFunc: func(o api.Order) []string {
			return []string{o.ID, orDash(o.No), orDash(o.Product), orDash(o.Method), orDash(o.Status), outfmt.Money(o.Fee), orDash(o.PaidAt)}
		},
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&paid, "paid", false, "Filter by paid state")
			cmd.Flags().StringVar(&method, "method", "", "Filter by payment method")
			cmd.Flags().StringVar(&createdBy, "created-by", "", "Filter by creator")
			cmd.Flags().StringVar(&since, "since", "", "Only orders created at or after this time (RFC3339, YYYY-MM-DD, 7d ago)")
			cmd.Flags().StringVar(&until, "until", "", "Only orders created before this time")
		},
		Filter: func(cmd *cobra.Command, q *api.Query) error {
			from, err := parseTimeFlag("since", since)
			if err != nil {
				return err
			}
			to, err := parseTimeFlag("until", until)
			if err != nil {
				return err
			}
			api.OrderFilter{
				Paid:         boolPtrIfChanged(cmd, "paid", paid),
				Method:       method,
				CreatedBy:    createdBy,
				CreatedSince: from,
				CreatedUntil: to,
			}.Apply(q)
			return nil
		},
		Fetch: func(ctx context.Context, client *api.Client, q *api.Query) (*api.Response, error) {
			return client.Order().ListOrders(ctx, api.Request{Query: q})
		},
		Footer: func(cmd *cobra.Command, items []api.Order) {
			fees := make([]float64, 0, len(items))
			for _, o := range items {
				fees = append(fees, o.Fee)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nTotal fee: %s\n", outfmt.SumMoney(fees...))
		},
	})
}

func newOrdersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"g"},
		Short:   "Get an order",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("order ID", args[0]); err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Order().GetOrder(ctx, pathReq(nil, string(api.FieldOrderID), args[0]))
			}, func(o api.Order) error {
				return printDetail(cmd, "Order "+o.ID,
					"No", o.No,
					"Product", o.Product,
					"Method", o.Method,
					"Status", o.Status,
					"Fee", outfmt.Money(o.Fee),
					"Paid at", o.PaidAt,
					"Created by", o.CreatedBy,
					"Created", o.CreatedAt,
					"Comment", o.Comment,
				)
			})
		}),
	}
}

type orderFlags struct {
	body    string
	product string
	method  string
	status  string
	comment string
	fee     float64
}

func (of *orderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&of.body, "body", "", "Order JSON (inline, @file or @-)")
	cmd.Flags().StringVar(&of.product, "product", "", "Product ID")
	cmd.Flags().StringVar(&of.method, "method", "", "Payment method")
	cmd.Flags().StringVar(&of.status, "status", "", "Order status")
	cmd.Flags().StringVar(&of.comment, "comment", "", "Comment")
	cmd.Flags().Float64Var(&of.fee, "fee", 0, "Fee")
}

func (of *orderFlags) payload(cmd *cobra.Command) (any, error) {
	raw, err := readBody(cmd, of.body)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	for flag, v := range map[string]any{
		"product": of.product,
		"method":  of.method,
		"status":  of.status,
		"comment": of.comment,
		"fee":     of.fee,
	} {
		if flagOrAliasChanged(cmd, flag) {
			fields[flag] = v
		}
	}
	return mergeBody(raw, fields)
}

func newOrdersCreateCmd() *cobra.Command {
	var of orderFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order",
		Example: strings.TrimSpace(`
  store orders create --product 5c8f4b1e2a3d4c0012345678 --method OFFLINE --fee 199
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			payload, err := of.payload(cmd)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Order().CreateOrder(ctx, api.Request{Body: payload})
			}, func(o api.Order) error {
				printAction(cmd, "Created", "order", o.ID)
				return nil
			})
		}),
	}
	of.register(cmd)
	return cmd
}

func newOrdersUpdateCmd() *cobra.Command {
	var of orderFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an order",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("order ID", args[0]); err != nil {
				return err
			}
			payload, err := of.payload(cmd)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Order().UpdateOrder(ctx, pathReq(payload, string(api.FieldOrderID), args[0]))
			}, func(o api.Order) error {
				printAction(cmd, "Updated", "order", args[0])
				return nil
			})
		}),
	}
	of.register(cmd)
	return cmd
}

func newOrdersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an order",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("order ID", args[0]); err != nil {
				return err
			}
			return runDelete(cmd, "order", args[0], func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Order().DeleteOrder(ctx, pathReq(nil, string(api.FieldOrderID), args[0]))
			})
		}),
	}
}
