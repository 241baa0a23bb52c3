package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
)

func newAPICmd() *cobra.Command {
	var (
		lf             listFlags
		params         []string
		headers        []string
		body           string
		silent         bool
		includeHeaders bool
	)

	cmd := &cobra.Command{
		Use:   "api <operation>",
		Short: "Call any catalogue operation by name",
		Long: strings.TrimSpace(`
Call any store API operation by its catalogue name (see 'store ops').

Path parameters are passed with --param, query options with the list flags
(--limit, --sort, --filter, ...) and the request body with --body. Missing
required parameters are reported before any request is sent.
`),
		Example: strings.TrimSpace(`
  # GET /members/{user}
  store api getMember --param user=u1

  # GET /stats with a date range
  store api listStats --filter user=u1 --filter 'date[$gt]=2024-01-01'

  # PUT /invitations/{invitationId}
  store api updateInvitation --param invitationId=5c8f... --body '{"comment":"vip"}'

  # Show status and headers
  store api listProducts --limit 1 --include
`),
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var out []string
			for _, name := range api.OperationNames() {
				if strings.HasPrefix(name, toComplete) {
					out = append(out, name)
				}
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			op, ok := api.LookupOperation(args[0])
			if !ok {
				return &api.UnknownOperationError{Name: args[0]}
			}

			pathParams, err := parseKeyValues("param", params)
			if err != nil {
				return err
			}
			headerValues, err := parseKeyValues("header", headers)
			if err != nil {
				return err
			}
			req := api.Request{PathParams: pathParams}
			if len(headerValues) > 0 {
				req.Headers = http.Header{}
				for k, v := range headerValues {
					req.Headers.Set(k, v)
				}
			}

			if op.AcceptsQuery {
				q, err := lf.query()
				if err != nil {
					return err
				}
				if op.RequiresQuery() || anyListFlagChanged(cmd) {
					req.Query = q
				}
			} else if anyListFlagChanged(cmd) {
				return fmt.Errorf("operation %s does not take query options", op.Name)
			}

			raw, err := readBody(cmd, body)
			if err != nil {
				return err
			}
			if raw != nil {
				if !op.HasBody {
					return fmt.Errorf("operation %s does not take a body", op.Name)
				}
				req.Body = raw
			}

			if op.Method == http.MethodDelete {
				ok, err := confirmAction(cmd, confirmOptions{
					Prompt:        fmt.Sprintf("Call %s %s? (y/N): ", op.Method, op.Path),
					CancelMessage: "Cancelled.",
				})
				if err != nil || !ok {
					return err
				}
			}

			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.client.Call(cmdContext(cmd), op.Name, req)
			if done, perr := s.previewed(cmd, err); done {
				return perr
			}
			if err != nil {
				return err
			}
			if silent {
				return nil
			}

			if isJSON(cmd) {
				return printJSON(cmd, apiJSONPayload(resp, includeHeaders))
			}

			out := cmd.OutOrStdout()
			if includeHeaders {
				_, _ = fmt.Fprintf(out, "HTTP %d\n", resp.StatusCode)
				keys := make([]string, 0, len(resp.Header))
				for k := range resp.Header {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					for _, v := range resp.Header[k] {
						_, _ = fmt.Fprintf(out, "%s: %s\n", k, v)
					}
				}
				_, _ = fmt.Fprintln(out)
			}
			if len(resp.Body) > 0 {
				var pretty bytes.Buffer
				if err := json.Indent(&pretty, resp.Body, "", "  "); err == nil {
					_, _ = fmt.Fprintln(out, pretty.String())
					return nil
				}
				_, _ = fmt.Fprintln(out, string(resp.Body))
			}
			return nil
		}),
	}

	lf.register(cmd)
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Path parameter as name=value (repeatable)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Extra request header as name=value (repeatable)")
	cmd.Flags().StringVarP(&body, "body", "d", "", "Request body JSON (inline, @file or @-)")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Suppress output")
	cmd.Flags().BoolVar(&includeHeaders, "include", false, "Include status and response headers")
	flagAlias(cmd.Flags(), "include", "inc")
	return cmd
}

var listFlagNames = []string{"limit", "offset", "sort", "select", "populate", "filter"}

func anyListFlagChanged(cmd *cobra.Command) bool {
	for _, name := range listFlagNames {
		if flagOrAliasChanged(cmd, name) {
			return true
		}
	}
	return false
}

func apiJSONPayload(resp *api.Response, includeHeaders bool) any {
	var body any
	if len(resp.Body) > 0 {
		if json.Valid(resp.Body) {
			body = json.RawMessage(resp.Body)
		} else {
			body = string(resp.Body)
		}
	}
	if !includeHeaders {
		return body
	}
	return map[string]any{
		"status":  resp.StatusCode,
		"headers": resp.Header,
		"body":    body,
	}
}
