package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from wazo-auth.
type APIError struct {
	StatusCode int
	Message    string
	ErrorID    string
	Resource   string
	Details    map[string]any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wazo-auth: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("wazo-auth: %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

func newAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body struct {
		Message  string         `json:"message"`
		ErrorID  string         `json:"error_id"`
		Resource string         `json:"resource"`
		Details  map[string]any `json:"details"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}

	apiErr.Message = body.Message
	apiErr.ErrorID = body.ErrorID
	apiErr.Resource = body.Resource
	apiErr.Details = body.Details
	return apiErr
}
