package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
)

type opEntry struct {
	Namespace  string   `json:"namespace"`
	Name       string   `json:"name"`
	Method     string   `json:"method"`
	Path       string   `json:"path"`
	Required   []string `json:"required"`
	Query      bool     `json:"accepts_query"`
	Body       bool     `json:"has_body"`
	PathParams []string `json:"path_params"`
}

func newOpsCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:     "ops",
		Aliases: []string{"operations"},
		Short:   "List the API operation catalogue",
		Example: strings.TrimSpace(`
  store ops
  store ops --namespace invitation -o json
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ops := api.Operations
			if namespace != "" {
				ops = api.NamespaceOperations(namespace)
				if len(ops) == 0 {
					return fmt.Errorf("unknown namespace %q", namespace)
				}
			}

			entries := make([]opEntry, 0, len(ops))
			for _, op := range ops {
				required := make([]string, 0, len(op.Required))
				for _, f := range op.Required {
					required = append(required, string(f))
				}
				entries = append(entries, opEntry{
					Namespace:  op.Namespace,
					Name:       op.Name,
					Method:     op.Method,
					Path:       op.Path,
					Required:   required,
					Query:      op.AcceptsQuery,
					Body:       op.HasBody,
					PathParams: emptySlice(op.PathParams()),
				})
			}

			f := newFormatter(cmd)
			if isJSON(cmd) {
				return f.OutputList(entries, nil)
			}
			f.StartTable([]string{"NAMESPACE", "OPERATION", "METHOD", "PATH", "REQUIRED"})
			for _, e := range entries {
				f.Row(e.Namespace, e.Name, e.Method, e.Path, orDash(strings.Join(e.Required, ",")))
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "Only operations of this namespace")
	flagAlias(cmd.Flags(), "namespace", "ns")
	return cmd
}
