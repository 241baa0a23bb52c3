package api

import "context"

// FormID is a saved mini-program form ID.
type FormID struct {
	User      string `json:"user"`
	FormID    string `json:"formId"`
	Used      string `json:"used,omitempty"`
	ExpiredAt string `json:"expiredAt,omitempty"`
}

type CreateFormIDBody struct {
	User   string `json:"user"`
	FormID string `json:"formId"`
}

// CreateFormID saves a form ID for later template messages.
func (s FormIDService) CreateFormID(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpCreateFormID, req)
}
