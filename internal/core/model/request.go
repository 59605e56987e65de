package model

import (
	"time"

	"github.com/google/uuid"
)

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

// Methods lists every supported method in display order.
var Methods = []Method{
	MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete,
	MethodHead, MethodOptions, MethodConnect, MethodTrace,
}

// DefaultTimeoutMillis is the per-request timeout applied when none is set.
const DefaultTimeoutMillis = 30000

// KVPair represents a key-value entry (header, query param, path variable, form field).
// Only enabled entries participate in substitution and transmission.
type KVPair struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}

// Variable is an environment or collection variable.
type Variable struct {
	KVPair
	IsSecret bool   `json:"isSecret,omitempty"`
	Type     string `json:"type,omitempty"` // free-form, defaults to "string"
}

// Request is the declarative model of a single API request.
type Request struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Method          Method   `json:"method"`
	URL             string   `json:"url"`
	Headers         []KVPair `json:"headers,omitempty"`
	QueryParams     []KVPair `json:"queryParameters,omitempty"`
	PathVariables   []KVPair `json:"pathVariables,omitempty"`
	Body            Body     `json:"body"`
	Auth            Auth     `json:"authentication"`
	TimeoutMillis   int      `json:"timeout"`
	FollowRedirects bool     `json:"followRedirects"`
	VerifySSL       bool     `json:"verifySsl"`
	Proxy           Proxy    `json:"proxy"`

	LastUsed time.Time `json:"lastUsed,omitempty"`
}

// NewRequest creates a request with a fresh id and defaults.
func NewRequest(name string, method Method, url string) *Request {
	return &Request{
		ID:              uuid.New().String(),
		Name:            name,
		Method:          method,
		URL:             url,
		Body:            Body{Type: BodyNone},
		Auth:            Auth{Type: AuthNone},
		TimeoutMillis:   DefaultTimeoutMillis,
		FollowRedirects: true,
		VerifySSL:       true,
	}
}

// Timeout returns the request timeout as a duration, applying the default
// when the field is unset.
func (r *Request) Timeout() time.Duration {
	if r.TimeoutMillis <= 0 {
		return DefaultTimeoutMillis * time.Millisecond
	}
	return time.Duration(r.TimeoutMillis) * time.Millisecond
}

// ProxyType identifies the proxy protocol.
type ProxyType string

const (
	ProxyNone   ProxyType = "none"
	ProxyHTTP   ProxyType = "http"
	ProxySOCKS5 ProxyType = "socks5"
)

// Proxy holds per-request upstream proxy settings.
type Proxy struct {
	Enabled  bool      `json:"enabled"`
	Type     ProxyType `json:"type,omitempty"`
	Host     string    `json:"host,omitempty"`
	Port     int       `json:"port,omitempty"`
	UseAuth  bool      `json:"useAuthentication,omitempty"`
	Username string    `json:"username,omitempty"`
	Password string    `json:"password,omitempty"`
}
