package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
)

func newWechatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wechat",
		Aliases: []string{"wx"},
		Short:   "WeChat payment, JS-SDK signature and content checks",
	}

	cmd.AddCommand(newWechatPaymentCmd())
	cmd.AddCommand(newWechatSignatureCmd())
	cmd.AddCommand(newWechatMsgSecCheckCmd())

	return cmd
}

func newWechatPaymentCmd() *cobra.Command {
	var openid, product, body string

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Start a JSAPI payment for a product",
		Example: strings.TrimSpace(`
  store wechat payment --openid o123 --product vip-year
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			raw, err := readBody(cmd, body)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				fields := map[string]any{}
				if openid != "" {
					fields["openid"] = openid
				}
				if product != "" {
					id, err := resolveProductID(ctx, s, product)
					if err != nil {
						return nil, err
					}
					fields["product"] = id
				}
				payload, err := mergeBody(raw, fields)
				if err != nil {
					return nil, err
				}
				return s.client.Wechat().CreatePayment(ctx, api.Request{Body: payload})
			}, func(p api.Payment) error {
				return printDetail(cmd, "Payment",
					"App ID", p.AppID,
					"Timestamp", p.TimeStamp,
					"Nonce", p.NonceStr,
					"Package", p.Package,
					"Sign type", p.SignType,
					"Pay sign", p.PaySign,
				)
			})
		}),
	}

	cmd.Flags().StringVar(&openid, "openid", "", "Payer openid")
	cmd.Flags().StringVar(&product, "product", "", "Product ID, slug or name")
	cmd.Flags().StringVar(&body, "body", "", "Payment JSON (inline, @file or @-)")
	return cmd
}

func newWechatSignatureCmd() *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "signature",
		Short: "Get a JS-SDK config signature for a page URL",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			q := api.NewQuery().Where("url", pageURL)
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Wechat().GetSignature(ctx, api.Request{Query: q})
			}, func(sig api.Signature) error {
				return printDetail(cmd, "Signature",
					"App ID", sig.AppID,
					"Timestamp", sig.Timestamp,
					"Nonce", sig.NonceStr,
					"Signature", sig.Signature,
					"APIs", strings.Join(sig.JSAPIList, ", "),
				)
			})
		}),
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "Page URL (required)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newWechatMsgSecCheckCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "msg-sec-check",
		Short: "Check text against WeChat content security",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			q := api.NewQuery().Where("content", content)
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				return s.client.Wechat().GetMsgSecCheck(ctx, api.Request{Query: q})
			}, func(r api.MsgSecCheck) error {
				status := "passed"
				if r.ErrCode != 0 {
					status = "rejected"
				}
				return printDetail(cmd, "Content check "+status,
					"Code", strconv.Itoa(r.ErrCode),
					"Message", r.ErrMsg,
				)
			})
		}),
	}

	cmd.Flags().StringVar(&content, "content", "", "Text to check (required)")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}
