package digest

import (
	"strings"
	"testing"
)

func TestParseChallenge(t *testing.T) {
	header := `Digest realm="testrealm@host.com", qop="auth,auth-int", nonce="dcd98b7102dd2f0e8b11d0f600bfb0c093", opaque="5ccc069c403ebaf9f0171e9517f40e41"`

	ch, err := ParseChallenge(header)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ch.Realm != "testrealm@host.com" {
		t.Errorf("realm = %q", ch.Realm)
	}
	if ch.Nonce != "dcd98b7102dd2f0e8b11d0f600bfb0c093" {
		t.Errorf("nonce = %q", ch.Nonce)
	}
	if ch.Opaque != "5ccc069c403ebaf9f0171e9517f40e41" {
		t.Errorf("opaque = %q", ch.Opaque)
	}
	if ch.QOP != "auth,auth-int" {
		t.Errorf("qop = %q", ch.QOP)
	}
	if ch.Algorithm != "MD5" {
		t.Errorf("default algorithm = %q", ch.Algorithm)
	}
}

func TestParseChallengeQuotedComma(t *testing.T) {
	ch, err := ParseChallenge(`Digest realm="a, b", nonce="n1"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ch.Realm != "a, b" {
		t.Errorf("realm = %q, comma inside quotes split", ch.Realm)
	}
}

func TestParseChallengeErrors(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"not digest", `Basic realm="x"`},
		{"empty", ""},
		{"missing realm", `Digest nonce="n1"`},
		{"missing nonce", `Digest realm="r1"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseChallenge(tt.header); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// The reference response from RFC 2617 section 3.5: user "Mufasa", password
// "Circle Of Life", GET /dir/index.html.
func TestAuthorizeRFCExample(t *testing.T) {
	ch := &Challenge{
		Realm:     "testrealm@host.com",
		Nonce:     "dcd98b7102dd2f0e8b11d0f600bfb0c093",
		Opaque:    "5ccc069c403ebaf9f0171e9517f40e41",
		Algorithm: "MD5",
		QOP:       "auth",
	}

	got := authorize("Mufasa", "Circle Of Life", "GET", "/dir/index.html", ch, "0a4f113b")
	if !strings.Contains(got, `response="6629fae49393a05397450978507c4ef1"`) {
		t.Errorf("response hash wrong in %q", got)
	}
	if !strings.Contains(got, `nc=00000001`) || !strings.Contains(got, `cnonce="0a4f113b"`) {
		t.Errorf("qop directives missing in %q", got)
	}
	if !strings.Contains(got, `opaque="5ccc069c403ebaf9f0171e9517f40e41"`) {
		t.Errorf("opaque not echoed in %q", got)
	}
}

func TestAuthorizeLegacyNoQOP(t *testing.T) {
	ch := &Challenge{Realm: "r1", Nonce: "n1", Algorithm: "MD5"}
	got := authorize("user", "pass", "GET", "/", ch, "cn")
	if strings.Contains(got, "qop=") || strings.Contains(got, "nc=") {
		t.Errorf("legacy response carries qop directives: %q", got)
	}
	if !strings.HasPrefix(got, "Digest ") {
		t.Errorf("header = %q", got)
	}
}

func TestAuthorizeSHA256(t *testing.T) {
	ch := &Challenge{Realm: "r1", Nonce: "n1", Algorithm: "SHA-256", QOP: "auth"}
	got := authorize("user", "pass", "GET", "/", ch, "cn")
	if !strings.Contains(got, "algorithm=SHA-256") {
		t.Errorf("algorithm not echoed: %q", got)
	}
	// SHA-256 responses are 64 hex chars.
	idx := strings.Index(got, `response="`)
	if idx < 0 {
		t.Fatalf("no response in %q", got)
	}
	rest := got[idx+len(`response="`):]
	end := strings.IndexByte(rest, '"')
	if end != 64 {
		t.Errorf("response length = %d, want 64", end)
	}
}

func TestPickQOP(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"auth", "auth"},
		{"auth,auth-int", "auth"},
		{"auth-int,auth", "auth"},
		{"auth-int", "auth-int"},
	}
	for _, tt := range tests {
		if got := pickQOP(tt.in); got != tt.want {
			t.Errorf("pickQOP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
