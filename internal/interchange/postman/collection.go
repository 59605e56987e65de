// Package postman converts collections and environments to and from the
// Postman interchange formats (Collection v2.1 and environment JSON).
package postman

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sadopc/restman/internal/core/model"
)

const collectionSchema = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

type pmCollection struct {
	Info     pmInfo   `json:"info"`
	Item     []pmItem `json:"item"`
	Variable []pmVar  `json:"variable,omitempty"`
}

type pmInfo struct {
	PostmanID   string `json:"_postman_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema"`
}

type pmItem struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Item        *[]pmItem  `json:"item,omitempty"`
	Request     *pmRequest `json:"request,omitempty"`
}

type pmRequest struct {
	Method      string          `json:"method"`
	Description string          `json:"description,omitempty"`
	Header      []pmKV          `json:"header,omitempty"`
	Body        *pmBody         `json:"body,omitempty"`
	URL         json.RawMessage `json:"url"`
	Auth        *pmAuth         `json:"auth,omitempty"`
}

type pmBody struct {
	Mode       string     `json:"mode,omitempty"`
	Raw        string     `json:"raw,omitempty"`
	URLEncoded []pmKV     `json:"urlencoded,omitempty"`
	FormData   []pmKV     `json:"formdata,omitempty"`
	GraphQL    *pmGraphQL `json:"graphql,omitempty"`
	Options    *pmOptions `json:"options,omitempty"`
}

type pmGraphQL struct {
	Query     string `json:"query"`
	Variables string `json:"variables,omitempty"`
}

type pmOptions struct {
	Raw struct {
		Language string `json:"language,omitempty"`
	} `json:"raw"`
}

type pmKV struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Disabled    bool   `json:"disabled,omitempty"`
	Description string `json:"description,omitempty"`
}

type pmAuth struct {
	Type   string `json:"type"`
	Basic  []pmKV `json:"basic,omitempty"`
	Bearer []pmKV `json:"bearer,omitempty"`
	APIKey []pmKV `json:"apikey,omitempty"`
	OAuth2 []pmKV `json:"oauth2,omitempty"`
	AWSV4  []pmKV `json:"awsv4,omitempty"`
	Digest []pmKV `json:"digest,omitempty"`
}

type pmVar struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type pmURL struct {
	Raw      string `json:"raw"`
	Query    []pmKV `json:"query,omitempty"`
	Variable []pmKV `json:"variable,omitempty"`
}

// ImportCollection parses Postman Collection v2.1 JSON. Items that are
// neither folders nor requests are dropped silently; the import never fails
// over a single malformed item.
func ImportCollection(data []byte) (*model.Collection, error) {
	var pc pmCollection
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("parsing postman collection: %w", err)
	}
	if pc.Info.Name == "" {
		return nil, fmt.Errorf("postman collection missing info.name")
	}

	col := model.NewCollection(pc.Info.Name)
	col.Description = pc.Info.Description
	for _, v := range pc.Variable {
		col.Variables = append(col.Variables, model.Variable{
			KVPair: model.KVPair{Key: v.Key, Value: v.Value, Enabled: true},
		})
	}

	// An item with a non-empty nested item list is a folder, an item with a
	// request is a leaf; anything else is dropped.
	for _, item := range pc.Item {
		switch {
		case isFolderItem(item):
			col.Folders = append(col.Folders, importFolder(item, ""))
		case item.Request != nil:
			col.Requests = append(col.Requests, importRequest(item))
		}
	}
	return col, nil
}

// isFolderItem reports whether an item should import as a folder. The folder
// test requires a non-empty child list: some exporters emit "item": [] on
// every node, and a request must win over an empty list so leaves are not
// swallowed into empty folders. An empty list with no request is still a
// folder, so exported empty folders round-trip.
func isFolderItem(item pmItem) bool {
	if item.Item == nil {
		return false
	}
	return len(*item.Item) > 0 || item.Request == nil
}

func importFolder(item pmItem, parentID string) *model.Folder {
	folder := model.NewFolder(item.Name, parentID)
	folder.Description = item.Description
	for _, child := range *item.Item {
		switch {
		case isFolderItem(child):
			folder.Folders = append(folder.Folders, importFolder(child, folder.ID))
		case child.Request != nil:
			folder.Requests = append(folder.Requests, importRequest(child))
		}
	}
	return folder
}

func importRequest(item pmItem) *model.Request {
	pr := item.Request
	method := model.Method(strings.ToUpper(pr.Method))
	if method == "" {
		method = model.MethodGet
	}

	raw, query, pathVars := splitURL(pr.URL)
	req := model.NewRequest(item.Name, method, raw)
	req.Description = pr.Description

	for _, h := range pr.Header {
		req.Headers = append(req.Headers, model.KVPair{
			Key: h.Key, Value: h.Value, Enabled: !h.Disabled, Description: h.Description,
		})
	}
	for _, q := range query {
		req.QueryParams = append(req.QueryParams, model.KVPair{
			Key: q.Key, Value: q.Value, Enabled: !q.Disabled, Description: q.Description,
		})
	}
	for _, v := range pathVars {
		req.PathVariables = append(req.PathVariables, model.KVPair{
			Key: v.Key, Value: v.Value, Enabled: !v.Disabled, Description: v.Description,
		})
	}

	req.Body = importBody(pr.Body)
	req.Auth = importAuth(pr.Auth)
	return req
}

// splitURL handles both url shapes: a bare string or the v2.1 object with
// raw, query and variable lists.
func splitURL(raw json.RawMessage) (string, []pmKV, []pmKV) {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, nil, nil
	}
	var obj pmURL
	if json.Unmarshal(raw, &obj) == nil {
		// Postman duplicates query params into raw; strip them so they are
		// not sent twice after the builder re-appends the list.
		base := obj.Raw
		if idx := strings.IndexByte(base, '?'); idx >= 0 && len(obj.Query) > 0 {
			base = base[:idx]
		}
		return base, obj.Query, obj.Variable
	}
	return "", nil, nil
}

func importBody(pb *pmBody) model.Body {
	if pb == nil {
		return model.Body{Type: model.BodyNone}
	}
	switch pb.Mode {
	case "raw":
		if pb.Raw == "" {
			return model.Body{Type: model.BodyNone}
		}
		return model.Body{
			Type: model.BodyRaw,
			Raw:  &model.RawBody{Content: pb.Raw, ContentType: rawContentType(pb)},
		}
	case "urlencoded":
		return model.Body{Type: model.BodyURLEncoded, URLEncoded: importKVs(pb.URLEncoded)}
	case "formdata":
		return model.Body{Type: model.BodyFormData, FormData: importKVs(pb.FormData)}
	case "graphql":
		if pb.GraphQL == nil {
			return model.Body{Type: model.BodyNone}
		}
		return model.Body{
			Type:    model.BodyGraphQL,
			GraphQL: &model.GraphQLBody{Query: pb.GraphQL.Query, Variables: pb.GraphQL.Variables},
		}
	default:
		return model.Body{Type: model.BodyNone}
	}
}

// rawContentType resolves the media type of a raw body: the declared
// language wins, otherwise the content shape decides.
func rawContentType(pb *pmBody) string {
	if pb.Options != nil {
		switch strings.ToLower(pb.Options.Raw.Language) {
		case "json":
			return "application/json"
		case "xml":
			return "application/xml"
		case "html":
			return "text/html"
		case "javascript":
			return "application/javascript"
		case "text":
			return "text/plain"
		}
	}
	return InferContentType(pb.Raw)
}

// InferContentType guesses a media type from the payload shape.
func InferContentType(content string) string {
	trimmed := strings.TrimSpace(content)
	switch {
	case trimmed == "":
		return "text/plain"
	case (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && gjson.Valid(trimmed):
		return "application/json"
	case strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">"):
		return "application/xml"
	default:
		return "text/plain"
	}
}

func importKVs(kvs []pmKV) []model.KVPair {
	out := make([]model.KVPair, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, model.KVPair{
			Key: kv.Key, Value: kv.Value, Enabled: !kv.Disabled, Description: kv.Description,
		})
	}
	return out
}

// importAuth maps Postman auth onto the supported schemes. OAuth2 configs
// that already hold an access token degrade to a bearer token; schemes with
// no counterpart degrade to none rather than failing the import.
func importAuth(pa *pmAuth) model.Auth {
	if pa == nil {
		return model.Auth{Type: model.AuthNone}
	}
	attrs := func(kvs []pmKV) map[string]string {
		m := make(map[string]string, len(kvs))
		for _, kv := range kvs {
			m[kv.Key] = kv.Value
		}
		return m
	}

	switch pa.Type {
	case "basic":
		a := attrs(pa.Basic)
		return model.Auth{
			Type:    model.AuthBasic,
			Enabled: true,
			Basic:   &model.BasicAuth{Username: a["username"], Password: a["password"]},
		}
	case "bearer":
		a := attrs(pa.Bearer)
		return model.Auth{
			Type:    model.AuthBearer,
			Enabled: true,
			Bearer:  &model.BearerAuth{Token: a["token"]},
		}
	case "apikey":
		a := attrs(pa.APIKey)
		return model.Auth{
			Type:    model.AuthAPIKey,
			Enabled: true,
			APIKey: &model.APIKeyAuth{
				Name:        a["key"],
				Key:         a["value"],
				AddToHeader: a["in"] != "query",
			},
		}
	case "oauth2":
		a := attrs(pa.OAuth2)
		if token := a["accessToken"]; token != "" {
			return model.Auth{
				Type:    model.AuthBearer,
				Enabled: true,
				Bearer:  &model.BearerAuth{Token: token},
			}
		}
		return model.Auth{Type: model.AuthNone}
	case "awsv4":
		a := attrs(pa.AWSV4)
		return model.Auth{
			Type:    model.AuthAWSV4,
			Enabled: true,
			AWS: &model.AWSAuth{
				AccessKey:    a["accessKey"],
				SecretKey:    a["secretKey"],
				SessionToken: a["sessionToken"],
				Region:       a["region"],
				Service:      a["service"],
			},
		}
	case "digest":
		a := attrs(pa.Digest)
		return model.Auth{
			Type:    model.AuthDigest,
			Enabled: true,
			Digest:  &model.DigestAuth{Username: a["username"], Password: a["password"]},
		}
	default:
		return model.Auth{Type: model.AuthNone}
	}
}

// ExportCollection renders a collection as Postman Collection v2.1 JSON.
func ExportCollection(col *model.Collection) ([]byte, error) {
	if col == nil {
		return nil, fmt.Errorf("collection is nil")
	}
	pc := pmCollection{
		Info: pmInfo{
			PostmanID:   col.ID,
			Name:        col.Name,
			Description: col.Description,
			Schema:      collectionSchema,
		},
	}
	for _, v := range col.Variables {
		pc.Variable = append(pc.Variable, pmVar{Key: v.Key, Value: v.Value})
	}
	for _, req := range col.Requests {
		pc.Item = append(pc.Item, exportRequest(req))
	}
	for _, folder := range col.Folders {
		pc.Item = append(pc.Item, exportFolder(folder))
	}
	return json.MarshalIndent(pc, "", "  ")
}

func exportFolder(folder *model.Folder) pmItem {
	children := make([]pmItem, 0, len(folder.Requests)+len(folder.Folders))
	for _, req := range folder.Requests {
		children = append(children, exportRequest(req))
	}
	for _, sub := range folder.Folders {
		children = append(children, exportFolder(sub))
	}
	return pmItem{Name: folder.Name, Description: folder.Description, Item: &children}
}

func exportRequest(req *model.Request) pmItem {
	u := pmURL{Raw: req.URL}
	for _, q := range req.QueryParams {
		u.Query = append(u.Query, pmKV{Key: q.Key, Value: q.Value, Disabled: !q.Enabled, Description: q.Description})
	}
	for _, v := range req.PathVariables {
		u.Variable = append(u.Variable, pmKV{Key: v.Key, Value: v.Value, Disabled: !v.Enabled, Description: v.Description})
	}
	rawURL, _ := json.Marshal(u)

	pr := &pmRequest{
		Method:      string(req.Method),
		Description: req.Description,
		URL:         rawURL,
		Body:        exportBody(req.Body),
		Auth:        exportAuth(req.Auth),
	}
	for _, h := range req.Headers {
		pr.Header = append(pr.Header, pmKV{Key: h.Key, Value: h.Value, Disabled: !h.Enabled, Description: h.Description})
	}

	return pmItem{Name: req.Name, Request: pr}
}

func exportBody(body model.Body) *pmBody {
	switch body.Type {
	case model.BodyRaw:
		if body.Raw == nil || body.Raw.Content == "" {
			return nil
		}
		pb := &pmBody{Mode: "raw", Raw: body.Raw.Content}
		if lang := languageFor(body.Raw.ContentType); lang != "" {
			pb.Options = &pmOptions{}
			pb.Options.Raw.Language = lang
		}
		return pb
	case model.BodyURLEncoded:
		return &pmBody{Mode: "urlencoded", URLEncoded: exportKVs(body.URLEncoded)}
	case model.BodyFormData:
		return &pmBody{Mode: "formdata", FormData: exportKVs(body.FormData)}
	case model.BodyGraphQL:
		if body.GraphQL == nil {
			return nil
		}
		return &pmBody{
			Mode:    "graphql",
			GraphQL: &pmGraphQL{Query: body.GraphQL.Query, Variables: body.GraphQL.Variables},
		}
	default:
		return nil
	}
}

func languageFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "json"):
		return "json"
	case strings.Contains(contentType, "xml"):
		return "xml"
	case strings.Contains(contentType, "html"):
		return "html"
	case strings.Contains(contentType, "javascript"):
		return "javascript"
	case strings.Contains(contentType, "text/plain"):
		return "text"
	default:
		return ""
	}
}

func exportKVs(pairs []model.KVPair) []pmKV {
	out := make([]pmKV, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, pmKV{Key: p.Key, Value: p.Value, Disabled: !p.Enabled, Description: p.Description})
	}
	return out
}

func exportAuth(auth model.Auth) *pmAuth {
	switch auth.Type {
	case model.AuthBasic:
		if auth.Basic == nil {
			return nil
		}
		return &pmAuth{Type: "basic", Basic: []pmKV{
			{Key: "username", Value: auth.Basic.Username},
			{Key: "password", Value: auth.Basic.Password},
		}}
	case model.AuthBearer:
		if auth.Bearer == nil {
			return nil
		}
		return &pmAuth{Type: "bearer", Bearer: []pmKV{
			{Key: "token", Value: auth.Bearer.Token},
		}}
	case model.AuthAPIKey:
		if auth.APIKey == nil {
			return nil
		}
		in := "header"
		if !auth.APIKey.AddToHeader {
			in = "query"
		}
		return &pmAuth{Type: "apikey", APIKey: []pmKV{
			{Key: "key", Value: auth.APIKey.Name},
			{Key: "value", Value: auth.APIKey.Key},
			{Key: "in", Value: in},
		}}
	case model.AuthAWSV4:
		if auth.AWS == nil {
			return nil
		}
		return &pmAuth{Type: "awsv4", AWSV4: []pmKV{
			{Key: "accessKey", Value: auth.AWS.AccessKey},
			{Key: "secretKey", Value: auth.AWS.SecretKey},
			{Key: "sessionToken", Value: auth.AWS.SessionToken},
			{Key: "region", Value: auth.AWS.Region},
			{Key: "service", Value: auth.AWS.Service},
		}}
	case model.AuthDigest:
		if auth.Digest == nil {
			return nil
		}
		return &pmAuth{Type: "digest", Digest: []pmKV{
			{Key: "username", Value: auth.Digest.Username},
			{Key: "password", Value: auth.Digest.Password},
		}}
	default:
		return nil
	}
}
