// Package resolve turns a name-or-UUID identifier into a UUID.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
)

var (
	// ErrNotFound is wrapped when no resource matches the identifier.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is wrapped when several resources match the identifier.
	ErrAmbiguous = errors.New("ambiguous identifier")
)

// Error reports a failed resolution.
type Error struct {
	Kind       string
	Identifier string
	Matches    int
}

func (e *Error) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("unknown %s %q", e.Kind, e.Identifier)
	}
	return fmt.Sprintf("%s %q is ambiguous: %d matches", e.Kind, e.Identifier, e.Matches)
}

func (e *Error) Unwrap() error {
	if e.Matches == 0 {
		return ErrNotFound
	}
	return ErrAmbiguous
}

// UserFinder looks users up by username.
type UserFinder interface {
	ListUsers(ctx context.Context, input sdk.ListUsersInput) (*sdk.ListResult, error)
}

// PolicyFinder looks policies up by name.
type PolicyFinder interface {
	ListPolicies(ctx context.Context, input sdk.ListPoliciesInput) (*sdk.ListResult, error)
}

// kind describes how to look up one entity type by name.
type kind struct {
	name  string
	field string
}

var (
	userKind   = kind{name: "user", field: "username"}
	policyKind = kind{name: "policy", field: "name"}
)

// IsUUID reports whether s has the canonical 8-4-4-4-12 UUID form.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// UserUUID resolves a username or UUID to a user UUID.
func UserUUID(ctx context.Context, finder UserFinder, identifier string) (string, error) {
	return userKind.resolve(ctx, identifier, func(ctx context.Context) (*sdk.ListResult, error) {
		return finder.ListUsers(ctx, sdk.ListUsersInput{Username: identifier})
	})
}

// PolicyUUID resolves a policy name or UUID to a policy UUID.
func PolicyUUID(ctx context.Context, finder PolicyFinder, identifier string) (string, error) {
	return policyKind.resolve(ctx, identifier, func(ctx context.Context) (*sdk.ListResult, error) {
		return finder.ListPolicies(ctx, sdk.ListPoliciesInput{Name: identifier})
	})
}

func (k kind) resolve(ctx context.Context, identifier string, lookup func(context.Context) (*sdk.ListResult, error)) (string, error) {
	if IsUUID(identifier) {
		return identifier, nil
	}

	result, err := lookup(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to look up %s %q: %w", k.name, identifier, err)
	}

	var matches []sdk.Object
	for _, item := range result.Items {
		if item.String(k.field) == identifier {
			matches = append(matches, item)
		}
	}
	if len(matches) != 1 {
		return "", &Error{Kind: k.name, Identifier: identifier, Matches: len(matches)}
	}
	return matches[0].UUID(), nil
}
