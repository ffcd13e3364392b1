package sdk

import (
	"context"
	"net/url"
)

// ListPoliciesInput filters the policy collection.
type ListPoliciesInput struct {
	Name   string
	Search string
}

// ListPolicies returns the policies matching input.
func (c *Client) ListPolicies(ctx context.Context, input ListPoliciesInput) (*ListResult, error) {
	q := url.Values{}
	if input.Name != "" {
		q.Set("name", input.Name)
	}
	if input.Search != "" {
		q.Set("search", input.Search)
	}
	return c.list(ctx, "/policies", q)
}
