package sdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateUserInput describes a user to create. Optional fields left empty are
// not sent.
type CreateUserInput struct {
	UUID      string `json:"uuid,omitempty"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	Email     string `json:"email_address,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
}

// ListUsersInput filters the user collection.
type ListUsersInput struct {
	// Username matches the username exactly.
	Username string
	// Search is a free-text search over the user fields.
	Search string
}

func (in ListUsersInput) values() url.Values {
	q := url.Values{}
	if in.Username != "" {
		q.Set("username", in.Username)
	}
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	return q
}

// CreateUser creates a user and returns the resource stored by the server.
func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (Object, error) {
	var user Object
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users", body: input}, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes the user identified by uuid.
func (c *Client) DeleteUser(ctx context.Context, uuid string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: userPath(uuid)}, nil)
}

// GetUser returns the user identified by uuid.
func (c *Client) GetUser(ctx context.Context, uuid string) (Object, error) {
	var user Object
	if err := c.do(ctx, request{method: http.MethodGet, path: userPath(uuid)}, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns the users matching input.
func (c *Client) ListUsers(ctx context.Context, input ListUsersInput) (*ListResult, error) {
	return c.list(ctx, "/users", input.values())
}

// GetUserPolicies returns the policies associated to a user.
func (c *Client) GetUserPolicies(ctx context.Context, uuid string) (*ListResult, error) {
	return c.list(ctx, userPath(uuid)+"/policies", nil)
}

// GetUserTenants returns the tenants a user belongs to.
func (c *Client) GetUserTenants(ctx context.Context, uuid string) (*ListResult, error) {
	return c.list(ctx, userPath(uuid)+"/tenants", nil)
}

// GetUserGroups returns the groups a user is a member of.
func (c *Client) GetUserGroups(ctx context.Context, uuid string) (*ListResult, error) {
	return c.list(ctx, userPath(uuid)+"/groups", nil)
}

// AddUserPolicy associates a policy to a user.
func (c *Client) AddUserPolicy(ctx context.Context, userUUID, policyUUID string) error {
	return c.do(ctx, request{method: http.MethodPut, path: userPolicyPath(userUUID, policyUUID)}, nil)
}

// RemoveUserPolicy dissociates a policy from a user.
func (c *Client) RemoveUserPolicy(ctx context.Context, userUUID, policyUUID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: userPolicyPath(userUUID, policyUUID)}, nil)
}

func (c *Client) list(ctx context.Context, path string, query url.Values) (*ListResult, error) {
	var result ListResult
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: query}, &result); err != nil {
		return nil, err
	}
	if result.Items == nil {
		result.Items = []Object{}
	}
	return &result, nil
}

func userPath(uuid string) string {
	return "/users/" + escape(uuid)
}

func userPolicyPath(userUUID, policyUUID string) string {
	return userPath(userUUID) + "/policies/" + escape(policyUUID)
}
