package sdk

import "fmt"

// Object is a JSON resource as returned by wazo-auth. The CLI displays
// whatever fields the server sends, so resources are kept untyped.
type Object map[string]any

// String returns the field named key formatted as a string, or "" when the
// field is absent or null.
func (o Object) String(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// UUID is shorthand for o.String("uuid").
func (o Object) UUID() string {
	return o.String("uuid")
}

// ListResult is the envelope of every wazo-auth collection endpoint.
type ListResult struct {
	Items    []Object `json:"items"`
	Total    int      `json:"total"`
	Filtered int      `json:"filtered"`
}

// Email is one entry of a user's "emails" field.
type Email struct {
	UUID      string `json:"uuid,omitempty" mapstructure:"uuid"`
	Address   string `json:"address" mapstructure:"address"`
	Main      bool   `json:"main" mapstructure:"main"`
	Confirmed bool   `json:"confirmed" mapstructure:"confirmed"`
}
