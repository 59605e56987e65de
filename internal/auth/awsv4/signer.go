// Package awsv4 signs HTTP requests with AWS Signature Version 4.
package awsv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Credentials holds the key material and scope for signing.
type Credentials struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	Service      string
}

const (
	algorithm  = "AWS4-HMAC-SHA256"
	timeFormat = "20060102T150405Z"
	dateFormat = "20060102"
)

// Sign adds X-Amz-Date, X-Amz-Content-Sha256 and the Authorization header to
// req. The body must be the exact payload that will be transmitted.
func Sign(req *http.Request, body []byte, creds Credentials, now time.Time) error {
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return fmt.Errorf("aws access key and secret key are required")
	}
	if creds.Region == "" {
		return fmt.Errorf("aws region is required")
	}
	if creds.Service == "" {
		return fmt.Errorf("aws service is required")
	}

	amzDate := now.UTC().Format(timeFormat)
	dateStamp := now.UTC().Format(dateFormat)

	req.Header.Set("X-Amz-Date", amzDate)
	if creds.SessionToken != "" {
		req.Header.Set("X-Amz-Security-Token", creds.SessionToken)
	}
	payload := sha256Hex(body)
	req.Header.Set("X-Amz-Content-Sha256", payload)

	headerNames := signedHeaderNames(req)
	scope := strings.Join([]string{dateStamp, creds.Region, creds.Service, "aws4_request"}, "/")

	toSign := strings.Join([]string{
		algorithm,
		amzDate,
		scope,
		sha256Hex([]byte(canonicalRequest(req, payload, headerNames))),
	}, "\n")

	key := signingKey(creds.SecretKey, dateStamp, creds.Region, creds.Service)
	signature := hex.EncodeToString(hmacSHA256(key, []byte(toSign)))

	req.Header.Set("Authorization", fmt.Sprintf(
		"%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, creds.AccessKey, scope, strings.Join(headerNames, ";"), signature,
	))
	return nil
}

func canonicalRequest(req *http.Request, payloadHash string, headerNames []string) string {
	path := req.URL.Path
	if path == "" {
		path = "/"
	}

	var headers strings.Builder
	for _, name := range headerNames {
		value := strings.Join(req.Header.Values(name), ",")
		if name == "host" {
			value = req.Host
			if value == "" {
				value = req.URL.Host
			}
		}
		headers.WriteString(name)
		headers.WriteByte(':')
		headers.WriteString(strings.TrimSpace(value))
		headers.WriteByte('\n')
	}

	return strings.Join([]string{
		req.Method,
		path,
		canonicalQuery(req),
		headers.String(),
		strings.Join(headerNames, ";"),
		payloadHash,
	}, "\n")
}

func canonicalQuery(req *http.Request) string {
	values := req.URL.Query()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		for _, v := range values[k] {
			pairs = append(pairs, uriEncode(k)+"="+uriEncode(v))
		}
	}
	return strings.Join(pairs, "&")
}

// uriEncode escapes per the SigV4 rules: unreserved characters stay, space
// becomes %20, everything else is percent-encoded uppercase.
func uriEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

// signedHeaderNames returns every request header, lowercased and sorted,
// with host always included.
func signedHeaderNames(req *http.Request) []string {
	seen := map[string]bool{"host": true}
	names := []string{"host"}
	for name := range req.Header {
		lower := strings.ToLower(name)
		if !seen[lower] {
			seen[lower] = true
			names = append(names, lower)
		}
	}
	sort.Strings(names)
	return names
}

func signingKey(secret, dateStamp, region, service string) []byte {
	k := hmacSHA256([]byte("AWS4"+secret), []byte(dateStamp))
	k = hmacSHA256(k, []byte(region))
	k = hmacSHA256(k, []byte(service))
	return hmacSHA256(k, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
