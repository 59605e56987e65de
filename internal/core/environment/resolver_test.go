package environment

import (
	"testing"

	"github.com/sadopc/restman/internal/core/model"
)

func testEnv() *model.Environment {
	return &model.Environment{
		ID:   "env-1",
		Name: "dev",
		Variables: []model.Variable{
			{KVPair: model.KVPair{Key: "baseUrl", Value: "https://api.example.com", Enabled: true}},
			{KVPair: model.KVPair{Key: "token", Value: "secret-123", Enabled: true}, IsSecret: true},
			{KVPair: model.KVPair{Key: "disabled", Value: "nope", Enabled: false}},
			{KVPair: model.KVPair{Key: "nested", Value: "{{baseUrl}}/v2", Enabled: true}},
		},
	}
}

func TestResolve(t *testing.T) {
	env := testEnv()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "https://example.com", "https://example.com"},
		{"single", "{{baseUrl}}/users", "https://api.example.com/users"},
		{"multiple", "{{baseUrl}}/users?t={{token}}", "https://api.example.com/users?t=secret-123"},
		{"case insensitive", "{{BASEURL}}/users", "https://api.example.com/users"},
		{"whitespace trimmed", "{{ baseUrl }}/users", "https://api.example.com/users"},
		{"unknown kept", "{{missing}}/users", "{{missing}}/users"},
		{"disabled kept", "{{disabled}}", "{{disabled}}"},
		{"value not rescanned", "{{nested}}", "{{baseUrl}}/v2"},
		{"empty name kept", "{{}}", "{{}}"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.input, env); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveNilEnvironment(t *testing.T) {
	if got := Resolve("{{baseUrl}}/users", nil); got != "{{baseUrl}}/users" {
		t.Errorf("Resolve with nil env = %q, want placeholders untouched", got)
	}
}

func TestProcessRequestDoesNotMutateOriginal(t *testing.T) {
	env := testEnv()
	req := model.NewRequest("get users", model.MethodGet, "{{baseUrl}}/users")
	req.Headers = []model.KVPair{{Key: "Authorization", Value: "Bearer {{token}}", Enabled: true}}
	req.QueryParams = []model.KVPair{{Key: "q", Value: "{{token}}", Enabled: true}}

	out := ProcessRequest(req, env)

	if out.URL != "https://api.example.com/users" {
		t.Errorf("url = %q", out.URL)
	}
	if out.Headers[0].Value != "Bearer secret-123" {
		t.Errorf("header = %q", out.Headers[0].Value)
	}
	if out.QueryParams[0].Value != "secret-123" {
		t.Errorf("query = %q", out.QueryParams[0].Value)
	}

	if req.URL != "{{baseUrl}}/users" {
		t.Errorf("original url mutated: %q", req.URL)
	}
	if req.Headers[0].Value != "Bearer {{token}}" {
		t.Errorf("original header mutated: %q", req.Headers[0].Value)
	}
	if out.ID != req.ID {
		t.Errorf("processed copy id = %q, want %q", out.ID, req.ID)
	}
}

func TestProcessRequestBodies(t *testing.T) {
	env := testEnv()

	t.Run("raw", func(t *testing.T) {
		req := model.NewRequest("r", model.MethodPost, "{{baseUrl}}")
		req.Body = model.Body{
			Type: model.BodyRaw,
			Raw:  &model.RawBody{Content: `{"token":"{{token}}"}`, ContentType: "application/json"},
		}
		out := ProcessRequest(req, env)
		if out.Body.Raw.Content != `{"token":"secret-123"}` {
			t.Errorf("raw body = %q", out.Body.Raw.Content)
		}
	})

	t.Run("form data", func(t *testing.T) {
		req := model.NewRequest("r", model.MethodPost, "{{baseUrl}}")
		req.Body = model.Body{
			Type:     model.BodyFormData,
			FormData: []model.KVPair{{Key: "t", Value: "{{token}}", Enabled: true}},
		}
		out := ProcessRequest(req, env)
		if out.Body.FormData[0].Value != "secret-123" {
			t.Errorf("form value = %q", out.Body.FormData[0].Value)
		}
	})

	t.Run("graphql", func(t *testing.T) {
		req := model.NewRequest("r", model.MethodPost, "{{baseUrl}}")
		req.Body = model.Body{
			Type: model.BodyGraphQL,
			GraphQL: &model.GraphQLBody{
				Query:     "query { user(token: \"{{token}}\") }",
				Variables: `{"base":"{{baseUrl}}"}`,
			},
		}
		out := ProcessRequest(req, env)
		if out.Body.GraphQL.Query != "query { user(token: \"secret-123\") }" {
			t.Errorf("graphql query = %q", out.Body.GraphQL.Query)
		}
		if out.Body.GraphQL.Variables != `{"base":"https://api.example.com"}` {
			t.Errorf("graphql variables = %q", out.Body.GraphQL.Variables)
		}
	})
}

func TestProcessRequestAuth(t *testing.T) {
	env := testEnv()

	req := model.NewRequest("r", model.MethodGet, "{{baseUrl}}")
	req.Auth = model.Auth{
		Type:    model.AuthBearer,
		Enabled: true,
		Bearer:  &model.BearerAuth{Token: "{{token}}"},
	}
	out := ProcessRequest(req, env)
	if out.Auth.Bearer.Token != "secret-123" {
		t.Errorf("bearer token = %q", out.Auth.Bearer.Token)
	}

	// Disabled auth is left as-is.
	req.Auth.Enabled = false
	out = ProcessRequest(req, env)
	if out.Auth.Bearer.Token != "{{token}}" {
		t.Errorf("disabled auth resolved: %q", out.Auth.Bearer.Token)
	}
}
