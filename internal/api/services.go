package api

import "context"

// Service accessors group catalogue operations by namespace. Each service
// embeds *Client, so Client configuration changes are seen immediately.

type WechatService struct{ *Client }

type MemberService struct{ *Client }

type ProductService struct{ *Client }

type OrderService struct{ *Client }

type SettingService struct{ *Client }

type StatsService struct{ *Client }

type InvitationService struct{ *Client }

type FormIDService struct{ *Client }

type ReplyService struct{ *Client }

func (c *Client) Wechat() WechatService { return WechatService{c} }

func (c *Client) Member() MemberService { return MemberService{c} }

func (c *Client) Product() ProductService { return ProductService{c} }

func (c *Client) Order() OrderService { return OrderService{c} }

func (c *Client) Setting() SettingService { return SettingService{c} }

func (c *Client) Stats() StatsService { return StatsService{c} }

func (c *Client) Invitation() InvitationService { return InvitationService{c} }

func (c *Client) FormID() FormIDService { return FormIDService{c} }

func (c *Client) Reply() ReplyService { return ReplyService{c} }

// Caller is the dispatch surface the services rely on.
type Caller interface {
	Call(ctx context.Context, name string, req Request) (*Response, error)
}

var _ Caller = (*Client)(nil)
