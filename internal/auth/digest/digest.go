// Package digest implements the client side of HTTP Digest authentication
// (RFC 7616). Supported algorithms are MD5 and SHA-256, including their
// -sess variants; the only supported qop is auth.
package digest

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Challenge carries the parameters of a WWW-Authenticate digest challenge.
type Challenge struct {
	Realm     string
	Nonce     string
	Opaque    string
	Algorithm string
	QOP       string
}

// ParseChallenge extracts the challenge from a WWW-Authenticate header value.
func ParseChallenge(header string) (*Challenge, error) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "Digest ") {
		return nil, fmt.Errorf("not a digest challenge: %q", header)
	}

	ch := &Challenge{Algorithm: "MD5"}
	for _, part := range splitQuoted(header[7:]) {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "realm":
			ch.Realm = value
		case "nonce":
			ch.Nonce = value
		case "opaque":
			ch.Opaque = value
		case "algorithm":
			ch.Algorithm = value
		case "qop":
			ch.QOP = value
		}
	}

	if ch.Realm == "" {
		return nil, fmt.Errorf("digest challenge missing realm")
	}
	if ch.Nonce == "" {
		return nil, fmt.Errorf("digest challenge missing nonce")
	}
	return ch, nil
}

// Authorize computes the Authorization header value answering the challenge.
// uri is the request path plus query.
func Authorize(username, password, method, uri string, ch *Challenge) string {
	return authorize(username, password, method, uri, ch, newCNonce())
}

func authorize(username, password, method, uri string, ch *Challenge, cnonce string) string {
	const nc = "00000001"

	ha1 := hashFor(ch.Algorithm, username+":"+ch.Realm+":"+password)
	if strings.HasSuffix(strings.ToUpper(ch.Algorithm), "-SESS") {
		ha1 = hashFor(ch.Algorithm, ha1+":"+ch.Nonce+":"+cnonce)
	}
	ha2 := hashFor(ch.Algorithm, method+":"+uri)

	qop := pickQOP(ch.QOP)
	var response string
	if qop == "" {
		response = hashFor(ch.Algorithm, ha1+":"+ch.Nonce+":"+ha2)
	} else {
		response = hashFor(ch.Algorithm, strings.Join([]string{ha1, ch.Nonce, nc, cnonce, qop, ha2}, ":"))
	}

	parts := []string{
		fmt.Sprintf(`username="%s"`, username),
		fmt.Sprintf(`realm="%s"`, ch.Realm),
		fmt.Sprintf(`nonce="%s"`, ch.Nonce),
		fmt.Sprintf(`uri="%s"`, uri),
		"algorithm=" + ch.Algorithm,
		fmt.Sprintf(`response="%s"`, response),
	}
	if qop != "" {
		parts = append(parts,
			"qop="+qop,
			"nc="+nc,
			fmt.Sprintf(`cnonce="%s"`, cnonce),
		)
	}
	if ch.Opaque != "" {
		parts = append(parts, fmt.Sprintf(`opaque="%s"`, ch.Opaque))
	}
	return "Digest " + strings.Join(parts, ", ")
}

// hashFor hashes data with the challenge algorithm, ignoring a -sess suffix.
func hashFor(algorithm, data string) string {
	switch strings.TrimSuffix(strings.ToUpper(algorithm), "-SESS") {
	case "SHA-256":
		sum := sha256.Sum256([]byte(data))
		return hex.EncodeToString(sum[:])
	default:
		sum := md5.Sum([]byte(data))
		return hex.EncodeToString(sum[:])
	}
}

// pickQOP selects auth from a comma-separated offer, or the first entry when
// auth is absent. Empty input means the legacy no-qop computation.
func pickQOP(offer string) string {
	if offer == "" {
		return ""
	}
	first := ""
	for _, q := range strings.Split(offer, ",") {
		q = strings.TrimSpace(q)
		if q == "auth" {
			return "auth"
		}
		if first == "" {
			first = q
		}
	}
	return first
}

func newCNonce() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(b)
}

// splitQuoted splits comma-separated parameters without breaking quoted
// values apart.
func splitQuoted(s string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && (i == 0 || s[i-1] != '\\'):
			inQuotes = !inQuotes
			current.WriteByte(c)
		case c == ',' && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
