package environment

import (
	"regexp"
	"strings"

	"github.com/sadopc/restman/internal/core/model"
)

var varPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Resolve replaces {{variable}} placeholders in a string using the enabled
// variables of the given environment. Lookup is case-insensitive. Unknown
// variables are left untouched so the user can see which placeholders failed
// to bind. Values are inserted literally; they are never re-scanned.
func Resolve(input string, env *model.Environment) string {
	if input == "" || !strings.Contains(input, "{{") {
		return input
	}
	return varPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		if value, ok := lookupVariable(env, name); ok {
			return value
		}
		return match
	})
}

func lookupVariable(env *model.Environment, name string) (string, bool) {
	if env == nil {
		return "", false
	}
	for i := range env.Variables {
		v := &env.Variables[i]
		if v.Enabled && strings.EqualFold(v.Key, name) {
			return v.Value, true
		}
	}
	return "", false
}

// ProcessRequest returns a fully independent copy of the request with
// variables resolved in the url, header/query/path values, the body payload,
// and enabled auth credentials. The request passed in is never mutated; the
// original is what gets persisted to history and collections.
func ProcessRequest(req *model.Request, env *model.Environment) *model.Request {
	out := req.Clone()

	out.URL = Resolve(out.URL, env)
	resolvePairs(out.Headers, env)
	resolvePairs(out.QueryParams, env)
	resolvePairs(out.PathVariables, env)

	switch out.Body.Type {
	case model.BodyRaw:
		if out.Body.Raw != nil {
			out.Body.Raw.Content = Resolve(out.Body.Raw.Content, env)
		}
	case model.BodyFormData:
		resolvePairs(out.Body.FormData, env)
	case model.BodyURLEncoded:
		resolvePairs(out.Body.URLEncoded, env)
	case model.BodyGraphQL:
		if out.Body.GraphQL != nil {
			out.Body.GraphQL.Query = Resolve(out.Body.GraphQL.Query, env)
			out.Body.GraphQL.Variables = Resolve(out.Body.GraphQL.Variables, env)
		}
	}

	if out.Auth.Enabled {
		switch out.Auth.Type {
		case model.AuthBasic:
			if out.Auth.Basic != nil {
				out.Auth.Basic.Username = Resolve(out.Auth.Basic.Username, env)
				out.Auth.Basic.Password = Resolve(out.Auth.Basic.Password, env)
			}
		case model.AuthBearer:
			if out.Auth.Bearer != nil {
				out.Auth.Bearer.Token = Resolve(out.Auth.Bearer.Token, env)
			}
		case model.AuthAPIKey:
			if out.Auth.APIKey != nil {
				out.Auth.APIKey.Key = Resolve(out.Auth.APIKey.Key, env)
			}
		}
	}

	return out
}

func resolvePairs(pairs []model.KVPair, env *model.Environment) {
	for i := range pairs {
		pairs[i].Value = Resolve(pairs[i].Value, env)
	}
}
