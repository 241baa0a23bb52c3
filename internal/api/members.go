package api

import "context"

// Period is one membership period.
type Period struct {
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Trial   bool   `json:"trial,omitempty"`
	Product string `json:"product,omitempty"`
	Active  string `json:"active,omitempty"`
}

// Member is a user's membership record.
type Member struct {
	ID        string   `json:"id,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
	User      string   `json:"user"`
	Period    []Period `json:"period,omitempty"`
	Active    bool     `json:"active"`
}

// MemberFilter holds the list filters the members endpoint understands.
type MemberFilter struct {
	Users  []string
	Active *bool
}

// Apply adds the filter to q.
func (f MemberFilter) Apply(q *Query) *Query {
	if len(f.Users) > 0 {
		q.Where("users", f.Users)
	}
	if f.Active != nil {
		q.Where("active", *f.Active)
	}
	return q
}

// ListMembers lists members. Query is optional.
func (s MemberService) ListMembers(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpListMembers, req)
}

// CreateMember requires Body.
func (s MemberService) CreateMember(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpCreateMember, req)
}

// GetMember requires the user path parameter.
func (s MemberService) GetMember(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpGetMember, req)
}

func (s MemberService) DeleteMember(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpDeleteMember, req)
}

func (s MemberService) UpdateMember(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpUpdateMember, req)
}
