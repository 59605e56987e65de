package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sadopc/restman/internal/core/model"
)

// ErrInvalidRequest marks a request that cannot be turned into a wire
// request. It is a user error, not a transport failure.
var ErrInvalidRequest = errors.New("invalid request")

// WireRequest is a fully prepared request ready to put on the wire.
type WireRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Build turns a variable-resolved request into a wire request: query
// parameters and path variables are folded into the url, headers and auth
// are applied, and the body is encoded per its type. Validation failures
// wrap ErrInvalidRequest.
func Build(req *model.Request) (*WireRequest, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("%w: method is required", ErrInvalidRequest)
	}

	rawURL := appendQueryParams(req.URL, req.QueryParams)
	rawURL = substitutePathVariables(rawURL, req.PathVariables)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing url: %v", ErrInvalidRequest, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: url must be absolute http or https, got %q", ErrInvalidRequest, req.URL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: url has no host", ErrInvalidRequest)
	}

	wire := &WireRequest{
		Method: string(req.Method),
		URL:    u,
		Header: make(http.Header),
	}

	for _, h := range req.Headers {
		if h.Enabled && h.Key != "" {
			wire.Header.Add(h.Key, h.Value)
		}
	}

	if err := applyAuth(wire, req.Auth); err != nil {
		return nil, err
	}

	// GET and HEAD never carry a body, whatever the body editor holds.
	if req.Method == model.MethodGet || req.Method == model.MethodHead {
		return wire, nil
	}

	if err := encodeBody(wire, req.Body); err != nil {
		return nil, err
	}
	return wire, nil
}

// appendQueryParams folds enabled query parameters into the url string. The
// url may already carry a query; joining is done textually so placeholders
// resolved into the url earlier survive untouched.
func appendQueryParams(rawURL string, params []model.KVPair) string {
	var b strings.Builder
	b.WriteString(rawURL)
	hasQuery := strings.Contains(rawURL, "?")
	for _, p := range params {
		if !p.Enabled || p.Key == "" {
			continue
		}
		if hasQuery {
			b.WriteByte('&')
		} else {
			b.WriteByte('?')
			hasQuery = true
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// substitutePathVariables replaces {key} segments with the url-encoded
// variable value. Unmatched placeholders stay in the url.
func substitutePathVariables(rawURL string, vars []model.KVPair) string {
	for _, v := range vars {
		if !v.Enabled || v.Key == "" {
			continue
		}
		rawURL = strings.ReplaceAll(rawURL, "{"+v.Key+"}", url.PathEscape(v.Value))
	}
	return rawURL
}

func applyAuth(wire *WireRequest, auth model.Auth) error {
	if !auth.Enabled {
		return nil
	}
	switch auth.Type {
	case model.AuthBasic:
		if auth.Basic == nil {
			return nil
		}
		encoded := base64.StdEncoding.EncodeToString(
			[]byte(auth.Basic.Username + ":" + auth.Basic.Password),
		)
		wire.Header.Set("Authorization", "Basic "+encoded)
	case model.AuthBearer:
		if auth.Bearer == nil {
			return nil
		}
		wire.Header.Set("Authorization", "Bearer "+auth.Bearer.Token)
	case model.AuthAPIKey:
		if auth.APIKey == nil || auth.APIKey.Name == "" {
			return nil
		}
		if auth.APIKey.AddToHeader {
			wire.Header.Set(auth.APIKey.Name, auth.APIKey.Key)
		} else {
			// Appended textually, never re-encoded through url.Values: the
			// existing query may hold unresolved placeholders that must stay
			// visible as typed.
			pair := url.QueryEscape(auth.APIKey.Name) + "=" + url.QueryEscape(auth.APIKey.Key)
			if wire.URL.RawQuery == "" {
				wire.URL.RawQuery = pair
			} else {
				wire.URL.RawQuery += "&" + pair
			}
		}
	case model.AuthOAuth2:
		if auth.OAuth2 != nil && auth.OAuth2.AccessToken != "" {
			wire.Header.Set("Authorization", "Bearer "+auth.OAuth2.AccessToken)
		}
	}
	// Digest and AWS signing need the final wire request and happen in the
	// client.
	return nil
}

func encodeBody(wire *WireRequest, body model.Body) error {
	switch body.Type {
	case model.BodyNone:
		return nil

	case model.BodyRaw:
		if body.Raw == nil || body.Raw.Content == "" {
			return nil
		}
		wire.Body = []byte(body.Raw.Content)
		setContentType(wire, contentTypeOr(body.Raw.ContentType, "text/plain"))

	case model.BodyURLEncoded:
		form := url.Values{}
		for _, p := range body.URLEncoded {
			if p.Enabled && p.Key != "" {
				form.Add(p.Key, p.Value)
			}
		}
		wire.Body = []byte(form.Encode())
		setContentType(wire, "application/x-www-form-urlencoded")

	case model.BodyFormData:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, p := range body.FormData {
			if !p.Enabled || p.Key == "" {
				continue
			}
			if err := w.WriteField(p.Key, p.Value); err != nil {
				return fmt.Errorf("encoding form field %s: %w", p.Key, err)
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("closing multipart body: %w", err)
		}
		wire.Body = buf.Bytes()
		setContentType(wire, w.FormDataContentType())

	case model.BodyGraphQL:
		if body.GraphQL == nil {
			return nil
		}
		// Blank variables still ship as an empty object; some servers reject
		// a payload without the variables key.
		payload := map[string]any{
			"query":     body.GraphQL.Query,
			"variables": json.RawMessage("{}"),
		}
		if vars := strings.TrimSpace(body.GraphQL.Variables); vars != "" {
			if !gjson.Valid(vars) {
				return fmt.Errorf("%w: graphql variables are not valid json", ErrInvalidRequest)
			}
			payload["variables"] = json.RawMessage(vars)
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding graphql body: %w", err)
		}
		wire.Body = data
		setContentType(wire, "application/json")

	case model.BodyBinary:
		if body.Binary == nil || len(body.Binary.Data) == 0 {
			return nil
		}
		wire.Body = body.Binary.Data
		setContentType(wire, "application/octet-stream")

	default:
		return fmt.Errorf("%w: unknown body type %q", ErrInvalidRequest, body.Type)
	}
	return nil
}

// setContentType fills in Content-Type unless the user supplied one
// explicitly as a header.
func setContentType(wire *WireRequest, value string) {
	if wire.Header.Get("Content-Type") == "" {
		wire.Header.Set("Content-Type", value)
	}
}

func contentTypeOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
