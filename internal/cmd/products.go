package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/outfmt"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "pd"},
		Short:   "Manage membership products",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsGetCmd())
	cmd.AddCommand(newProductsCreateCmd())
	cmd.AddCommand(newProductsUpdateCmd())
	cmd.AddCommand(newProductsDeleteCmd())

	return cmd
}

func newProductsListCmd() *cobra.Command {
	var published bool

	return NewListCommand(ListConfig[api.Product]{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List products",
		EmptyMessage: "No products found",
		Example: strings.TrimSpace(`
  store products list --published
  store products list --sort -price --limit 10 -o json
`),
		Headers: []string{"ID", "NAME", "SLUG", "PRICE", "PERIOD", "PUBLISHED"},
		RowFunc: func(p api.Product) []string {
			return []string{p.ID, p.Name, orDash(p.Slug), outfmt.Money(p.Price), strconv.Itoa(p.Period), yesNo(p.Published)}
		},
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&published, "published", false, "Filter by published state")
		},
		Filter: func(cmd *cobra.Command, q *api.Query) error {
			api.ProductFilter{Published: boolPtrIfChanged(cmd, "published", published)}.Apply(q)
			return nil
		},
		Fetch: func(ctx context.Context, client *api.Client, q *api.Query) (*api.Response, error) {
			return client.Product().ListProducts(ctx, api.Request{Query: q})
		},
	})
}

func renderProduct(cmd *cobra.Command) func(api.Product) error {
	return func(p api.Product) error {
		original := ""
		if p.OriginalPrice > 0 {
			original = outfmt.Money(p.OriginalPrice)
		}
		period := ""
		if p.Period > 0 {
			period = strconv.Itoa(p.Period) + " days"
		}
		return printDetail(cmd, "Product "+p.ID,
			"Name", p.Name,
			"Slug", p.Slug,
			"Price", outfmt.Money(p.Price),
			"Original price", original,
			"Price items", itoaIfPositive(len(p.PriceItems)),
			"Period", period,
			"Window", window(p.Start, p.End),
			"Published", yesNo(p.Published),
			"Description", p.Description,
		)
	}
}

func itoaIfPositive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func window(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return orDash(start) + " .. " + orDash(end)
}

func newProductsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|slug|name>",
		Aliases: []string{"g"},
		Short:   "Get a product",
		Long:    "Get a product by ID. A slug or a (fuzzy) product name is resolved against a cached product list.",
		Example: strings.TrimSpace(`
  store products get 5c8f4b1e2a3d4c0012345678
  store products get vip-year
  store products get "annual vip"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				id, err := resolveProductID(ctx, s, args[0])
				if err != nil {
					return nil, err
				}
				if err := validateID("product ID", id); err != nil {
					return nil, err
				}
				return s.client.Product().GetProduct(ctx, pathReq(nil, string(api.FieldProductID), id))
			}, renderProduct(cmd))
		}),
	}
}

type productFlags struct {
	body        string
	name        string
	slug        string
	description string
	price       float64
	period      int
	published   bool
}

func (pf *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pf.body, "body", "", "Product JSON (inline, @file or @-)")
	cmd.Flags().StringVar(&pf.name, "name", "", "Product name")
	cmd.Flags().StringVar(&pf.slug, "slug", "", "URL slug")
	cmd.Flags().StringVar(&pf.description, "description", "", "Description")
	cmd.Flags().Float64Var(&pf.price, "price", 0, "Price")
	cmd.Flags().IntVar(&pf.period, "period", 0, "Membership period in days")
	cmd.Flags().BoolVar(&pf.published, "published", false, "Published state")
	flagAlias(cmd.Flags(), "description", "desc")
}

func (pf *productFlags) payload(cmd *cobra.Command) (any, error) {
	raw, err := readBody(cmd, pf.body)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	for flag, v := range map[string]any{
		"name":        pf.name,
		"slug":        pf.slug,
		"description": pf.description,
		"price":       pf.price,
		"period":      pf.period,
		"published":   pf.published,
	} {
		if flagOrAliasChanged(cmd, flag) {
			fields[flag] = v
		}
	}
	return mergeBody(raw, fields)
}

func newProductsCreateCmd() *cobra.Command {
	var pf productFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Example: strings.TrimSpace(`
  store products create --name "Annual VIP" --slug vip-year --price 199 --period 365 --published
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			payload, err := pf.payload(cmd)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				resp, err := s.client.Product().CreateProduct(ctx, api.Request{Body: payload})
				if err == nil {
					invalidateCache(ctx, s, "products")
				}
				return resp, err
			}, func(p api.Product) error {
				printAction(cmd, "Created", "product", p.ID)
				return nil
			})
		}),
	}
	pf.register(cmd)
	return cmd
}

func newProductsUpdateCmd() *cobra.Command {
	var pf productFlags

	cmd := &cobra.Command{
		Use:   "update <id|slug|name>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			payload, err := pf.payload(cmd)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				id, err := resolveProductID(ctx, s, args[0])
				if err != nil {
					return nil, err
				}
				resp, err := s.client.Product().UpdateProduct(ctx, pathReq(payload, string(api.FieldProductID), id))
				if err == nil {
					invalidateCache(ctx, s, "products")
				}
				return resp, err
			}, func(p api.Product) error {
				printAction(cmd, "Updated", "product", p.ID)
				return nil
			})
		}),
	}
	pf.register(cmd)
	return cmd
}

func newProductsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("product ID", args[0]); err != nil {
				return err
			}
			return runDelete(cmd, "product", args[0], func(ctx context.Context, s *session) (*api.Response, error) {
				resp, err := s.client.Product().DeleteProduct(ctx, pathReq(nil, string(api.FieldProductID), args[0]))
				if err == nil {
					invalidateCache(ctx, s, "products")
				}
				return resp, err
			})
		}),
	}
}
