package api

import "context"

type CreatePaymentBody struct {
	Openid  string         `json:"openid"`
	Product string         `json:"product"`
	User    map[string]any `json:"user,omitempty"`
}

// Payment carries the parameters for the WeChat JSAPI pay call.
type Payment struct {
	AppID     string `json:"appid"`
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}

// Signature is a WeChat JS-SDK config signature.
type Signature struct {
	Debug     bool     `json:"debug"`
	AppID     string   `json:"appId"`
	Timestamp string   `json:"timestamp"`
	NonceStr  string   `json:"nonceStr"`
	Signature string   `json:"signature"`
	JSAPIList []string `json:"jsApiList"`
}

// MsgSecCheck is the result of a content security check.
type MsgSecCheck struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errMsg"`
}

// CreatePayment starts a payment for a product.
func (s WechatService) CreatePayment(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpCreatePayment, req)
}

// GetSignature requires a Query with a url filter.
func (s WechatService) GetSignature(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpGetSignature, req)
}

// GetMsgSecCheck requires a Query with a content filter.
func (s WechatService) GetMsgSecCheck(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpGetMsgSecCheck, req)
}
