package model

// BodyType tags the payload shape carried by a Body.
type BodyType string

const (
	BodyNone       BodyType = "none"
	BodyRaw        BodyType = "raw"
	BodyFormData   BodyType = "formdata"
	BodyURLEncoded BodyType = "urlencoded"
	BodyGraphQL    BodyType = "graphql"
	BodyBinary     BodyType = "binary"
)

// Body is a tagged union over the supported payload shapes. Only the case
// matching Type is meaningful; the others are ignored, not validated away.
type Body struct {
	Type       BodyType     `json:"type"`
	Raw        *RawBody     `json:"raw,omitempty"`
	FormData   []KVPair     `json:"formData,omitempty"`
	URLEncoded []KVPair     `json:"urlEncoded,omitempty"`
	GraphQL    *GraphQLBody `json:"graphql,omitempty"`
	Binary     *BinaryBody  `json:"binary,omitempty"`
}

// RawBody is free-text content sent with a declared media type.
type RawBody struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

// GraphQLBody holds a GraphQL query and its variables as stored text.
// Variables are validated only at build time.
type GraphQLBody struct {
	Query     string `json:"query"`
	Variables string `json:"variables,omitempty"`
}

// BinaryBody is an opaque byte payload.
type BinaryBody struct {
	Data     []byte `json:"data"`
	FileName string `json:"fileName,omitempty"`
}
