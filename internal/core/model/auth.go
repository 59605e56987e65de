package model

// AuthType tags the authentication scheme carried by an Auth.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBasic  AuthType = "basic"
	AuthBearer AuthType = "bearer"
	AuthAPIKey AuthType = "apikey"
	AuthOAuth1 AuthType = "oauth1"
	AuthOAuth2 AuthType = "oauth2"
	AuthDigest AuthType = "digest"
	AuthNTLM   AuthType = "ntlm"
	AuthAWSV4  AuthType = "awsv4"
	AuthCustom AuthType = "custom"
)

// Auth is a tagged union over authentication schemes. Enabled gates whether
// auth is applied at all; the case structs for types the builder cannot sign
// are still accepted and persisted.
type Auth struct {
	Type    AuthType    `json:"type"`
	Enabled bool        `json:"enabled"`
	Basic   *BasicAuth  `json:"basic,omitempty"`
	Bearer  *BearerAuth `json:"bearer,omitempty"`
	APIKey  *APIKeyAuth `json:"apikey,omitempty"`
	OAuth1  *OAuth1Auth `json:"oauth1,omitempty"`
	OAuth2  *OAuth2Auth `json:"oauth2,omitempty"`
	Digest  *DigestAuth `json:"digest,omitempty"`
	NTLM    *NTLMAuth   `json:"ntlm,omitempty"`
	AWS     *AWSAuth    `json:"aws,omitempty"`
	Custom  *CustomAuth `json:"custom,omitempty"`
}

// BasicAuth holds basic auth credentials.
type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BearerAuth holds a bearer token.
type BearerAuth struct {
	Token string `json:"token"`
}

// APIKeyAuth holds an API key placed in a header or a query parameter.
type APIKeyAuth struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	AddToHeader bool   `json:"addToHeader"`
}

// OAuth1Auth holds OAuth 1.0 credentials (stored only, not signed).
type OAuth1Auth struct {
	ConsumerKey     string `json:"consumerKey"`
	ConsumerSecret  string `json:"consumerSecret"`
	AccessToken     string `json:"accessToken"`
	TokenSecret     string `json:"tokenSecret"`
	SignatureMethod string `json:"signatureMethod,omitempty"`
}

// OAuth2Auth holds OAuth 2.0 settings (stored only, not signed).
type OAuth2Auth struct {
	ClientID       string `json:"clientId"`
	ClientSecret   string `json:"clientSecret"`
	AuthURL        string `json:"authUrl"`
	AccessTokenURL string `json:"accessTokenUrl"`
	RedirectURL    string `json:"redirectUrl,omitempty"`
	Scope          string `json:"scope,omitempty"`
	AccessToken    string `json:"accessToken,omitempty"`
}

// DigestAuth holds digest auth credentials. The challenge round trip is
// handled by the executor.
type DigestAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NTLMAuth holds NTLM credentials (stored only, not signed).
type NTLMAuth struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Domain      string `json:"domain,omitempty"`
	Workstation string `json:"workstation,omitempty"`
}

// AWSAuth holds AWS Signature V4 credentials.
type AWSAuth struct {
	AccessKey    string `json:"accessKey"`
	SecretKey    string `json:"secretKey"`
	SessionToken string `json:"sessionToken,omitempty"`
	Region       string `json:"region"`
	Service      string `json:"service"`
}

// CustomAuth carries an opaque user script; never executed by the core.
type CustomAuth struct {
	Script string `json:"script"`
}
