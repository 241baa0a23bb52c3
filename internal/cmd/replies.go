package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/api"
)

func newRepliesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "replies",
		Aliases: []string{"reply", "rp"},
		Short:   "Manage keyword auto-replies",
	}

	cmd.AddCommand(newRepliesListCmd())
	cmd.AddCommand(newRepliesGetCmd())
	cmd.AddCommand(newRepliesCreateCmd())
	cmd.AddCommand(newRepliesUpdateCmd())
	cmd.AddCommand(newRepliesDeleteCmd())

	return cmd
}

func replyContent(r api.Reply) string {
	switch {
	case r.Content != "":
		return r.Content
	case r.Link != nil:
		return r.Link.Title
	case r.Image != nil:
		return orDash(r.Image.URL)
	}
	return ""
}

func newRepliesListCmd() *cobra.Command {
	var active bool

	return NewListCommand(ListConfig[api.Reply]{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List replies",
		EmptyMessage: "No replies found",
		Example: strings.TrimSpace(`
  store replies list --active --sort index
`),
		Headers: []string{"ID", "INDEX", "KEYWORD", "TYPE", "MSGTYPE", "ACTIVE", "CONTENT"},
		RowFunc: func(r api.Reply) []string {
			return []string{r.ID, strconv.Itoa(r.Index), orDash(r.Keyword), orDash(r.Type), orDash(r.MsgType), yesNo(r.Active), orDash(truncate(replyContent(r), 40))}
		},
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&active, "active", false, "Filter by active state")
		},
		Filter: func(cmd *cobra.Command, q *api.Query) error {
			api.ReplyFilter{Active: boolPtrIfChanged(cmd, "active", active)}.Apply(q)
			return nil
		},
		Fetch: func(ctx context.Context, client *api.Client, q *api.Query) (*api.Response, error) {
			return client.Reply().ListReplies(ctx, api.Request{Query: q})
		},
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func newRepliesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|keyword>",
		Aliases: []string{"g"},
		Short:   "Get a reply",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				id, err := resolveReplyID(ctx, s, args[0])
				if err != nil {
					return nil, err
				}
				if err := validateID("reply ID", id); err != nil {
					return nil, err
				}
				return s.client.Reply().GetReply(ctx, pathReq(nil, string(api.FieldReplyID), id))
			}, func(r api.Reply) error {
				pairs := []string{
					"Keyword", r.Keyword,
					"Type", r.Type,
					"Message type", r.MsgType,
					"Active", yesNo(r.Active),
					"Index", strconv.Itoa(r.Index),
					"Content", r.Content,
				}
				if r.Image != nil {
					pairs = append(pairs, "Image", orDash(r.Image.URL), "Media ID", r.Image.MediaID)
				}
				if r.Link != nil {
					pairs = append(pairs, "Link", r.Link.URL, "Link title", r.Link.Title)
				}
				return printDetail(cmd, "Reply "+r.ID, pairs...)
			})
		}),
	}
}

type replyFlags struct {
	body    string
	keyword string
	kind    string
	msgType string
	content string
	active  bool
	index   int
}

func (rf *replyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.body, "body", "", "Reply JSON (inline, @file or @-)")
	cmd.Flags().StringVar(&rf.keyword, "keyword", "", "Trigger keyword")
	cmd.Flags().StringVar(&rf.kind, "type", "", "Match type")
	cmd.Flags().StringVar(&rf.msgType, "msgtype", "", "Message type (text, image, link)")
	cmd.Flags().StringVar(&rf.content, "content", "", "Text content")
	cmd.Flags().BoolVar(&rf.active, "active", false, "Active state")
	cmd.Flags().IntVar(&rf.index, "index", 0, "Sort index")
}

func (rf *replyFlags) payload(cmd *cobra.Command) (any, error) {
	raw, err := readBody(cmd, rf.body)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	for flag, v := range map[string]any{
		"keyword": rf.keyword,
		"type":    rf.kind,
		"msgtype": rf.msgType,
		"content": rf.content,
		"active":  rf.active,
		"index":   rf.index,
	} {
		if flagOrAliasChanged(cmd, flag) {
			fields[flag] = v
		}
	}
	return mergeBody(raw, fields)
}

func newRepliesCreateCmd() *cobra.Command {
	var rf replyFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a reply",
		Example: strings.TrimSpace(`
  store replies create --keyword hello --msgtype text --content "Hi there" --active
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			payload, err := rf.payload(cmd)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				resp, err := s.client.Reply().CreateReply(ctx, api.Request{Body: payload})
				if err == nil {
					invalidateCache(ctx, s, "replies")
				}
				return resp, err
			}, func(r api.Reply) error {
				printAction(cmd, "Created", "reply", r.ID)
				return nil
			})
		}),
	}
	rf.register(cmd)
	return cmd
}

func newRepliesUpdateCmd() *cobra.Command {
	var rf replyFlags

	cmd := &cobra.Command{
		Use:   "update <id|keyword>",
		Short: "Update a reply",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			payload, err := rf.payload(cmd)
			if err != nil {
				return err
			}
			return runCall(cmd, func(ctx context.Context, s *session) (*api.Response, error) {
				id, err := resolveReplyID(ctx, s, args[0])
				if err != nil {
					return nil, err
				}
				resp, err := s.client.Reply().UpdateReply(ctx, pathReq(payload, string(api.FieldReplyID), id))
				if err == nil {
					invalidateCache(ctx, s, "replies")
				}
				return resp, err
			}, func(r api.Reply) error {
				printAction(cmd, "Updated", "reply", r.ID)
				return nil
			})
		}),
	}
	rf.register(cmd)
	return cmd
}

func newRepliesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a reply",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validateID("reply ID", args[0]); err != nil {
				return err
			}
			return runDelete(cmd, "reply", args[0], func(ctx context.Context, s *session) (*api.Response, error) {
				resp, err := s.client.Reply().DeleteReply(ctx, pathReq(nil, string(api.FieldReplyID), args[0]))
				if err == nil {
					invalidateCache(ctx, s, "replies")
				}
				return resp, err
			})
		}),
	}
}
