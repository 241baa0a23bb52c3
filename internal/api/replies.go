package api

import "context"

type ImageContent struct {
	MediaID  string `json:"media_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type LinkContent struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	ThumbURL    string `json:"thumb_url,omitempty"`
}

// Reply is an auto-reply rule matched by keyword.
type Reply struct {
	ID      string        `json:"id,omitempty"`
	Type    string        `json:"type,omitempty"`
	Keyword string        `json:"keyword,omitempty"`
	MsgType string        `json:"msgtype,omitempty"`
	Content string        `json:"content,omitempty"`
	Image   *ImageContent `json:"image,omitempty"`
	Link    *LinkContent  `json:"link,omitempty"`
	Active  bool          `json:"active"`
	Index   int           `json:"index"`
}

// ReplyFilter holds the list filters of the replies endpoint.
type ReplyFilter struct {
	Active *bool
}

func (f ReplyFilter) Apply(q *Query) *Query {
	if f.Active != nil {
		q.Where("active", *f.Active)
	}
	return q
}

func (s ReplyService) ListReplies(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpListReplies, req)
}

func (s ReplyService) CreateReply(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpCreateReply, req)
}

func (s ReplyService) GetReply(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpGetReply, req)
}

func (s ReplyService) DeleteReply(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpDeleteReply, req)
}

func (s ReplyService) UpdateReply(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpUpdateReply, req)
}
