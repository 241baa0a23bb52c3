package api

import "context"

// Invitation is an invitation code that grants a membership period.
type Invitation struct {
	ID        string         `json:"id,omitempty"`
	CreatedAt string         `json:"createdAt,omitempty"`
	Code      string         `json:"code,omitempty"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	ExpireAt  string         `json:"expireAt,omitempty"`
	Period    int            `json:"period,omitempty"`
	Start     string         `json:"start,omitempty"`
	End       string         `json:"end,omitempty"`
	Used      bool           `json:"used"`
	UsedAt    string         `json:"usedAt,omitempty"`
	UsedBy    string         `json:"usedBy,omitempty"`
	User      map[string]any `json:"user,omitempty"`
	Source    string         `json:"source,omitempty"`
	Comment   string         `json:"comment,omitempty"`
}

type CreateInvitationBody struct {
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	Period int    `json:"period,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

type UpdateInvitationBody struct {
	Start   string         `json:"start,omitempty"`
	End     string         `json:"end,omitempty"`
	Period  int            `json:"period,omitempty"`
	Source  string         `json:"source,omitempty"`
	Comment string         `json:"comment,omitempty"`
	Used    *bool          `json:"used,omitempty"`
	UsedBy  string         `json:"usedBy,omitempty"`
	User    map[string]any `json:"user,omitempty"`
	Email   string         `json:"email,omitempty"`
	Phone   string         `json:"phone,omitempty"`
}

// UpdateInvitationsBody is one element of a bulk upsert.
type UpdateInvitationsBody struct {
	ID     string `json:"id,omitempty"`
	Code   string `json:"code,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	Period int    `json:"period,omitempty"`
}

// InvitationFilter holds the list filters of the invitations endpoint.
type InvitationFilter struct {
	NS    string
	Sub   string
	Code  string
	Phone string
	Used  string
}

func (f InvitationFilter) Apply(q *Query) *Query {
	for key, v := range map[string]string{"ns": f.NS, "sub": f.Sub, "code": f.Code, "phone": f.Phone, "used": f.Used} {
		if v != "" {
			q.Where(key, v)
		}
	}
	return q
}

func (s InvitationService) CreateInvitation(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpCreateInvitation, req)
}

func (s InvitationService) ListInvitations(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpListInvitations, req)
}

// UpdateInvitations bulk upserts; Body is an array of UpdateInvitationsBody.
func (s InvitationService) UpdateInvitations(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpUpdateInvitations, req)
}

func (s InvitationService) GetInvitation(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpGetInvitation, req)
}

func (s InvitationService) UpdateInvitation(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpUpdateInvitation, req)
}

func (s InvitationService) DeleteInvitation(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpDeleteInvitation, req)
}
