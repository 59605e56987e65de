package cookies

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/sadopc/restman/internal/persist"
)

func TestJarSetAndGetCookies(t *testing.T) {
	jar := New(nil)
	u, _ := url.Parse("https://example.com")

	jar.SetCookies(u, []*http.Cookie{
		{Name: "session", Value: "abc123"},
		{Name: "token", Value: "xyz789"},
	})

	cookies := jar.Cookies(u)
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}

	found := make(map[string]string)
	for _, c := range cookies {
		found[c.Name] = c.Value
	}
	if found["session"] != "abc123" {
		t.Errorf("session = %q", found["session"])
	}
	if found["token"] != "xyz789" {
		t.Errorf("token = %q", found["token"])
	}
}

func TestJarAll(t *testing.T) {
	jar := New(nil)

	u1, _ := url.Parse("https://example.com")
	u2, _ := url.Parse("https://other.com")

	jar.SetCookies(u1, []*http.Cookie{{Name: "a", Value: "1"}})
	jar.SetCookies(u2, []*http.Cookie{{Name: "b", Value: "2"}})

	all := jar.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 hosts, got %d", len(all))
	}
	if len(all["example.com"]) != 1 {
		t.Errorf("example.com cookies = %d, want 1", len(all["example.com"]))
	}
	if len(all["other.com"]) != 1 {
		t.Errorf("other.com cookies = %d, want 1", len(all["other.com"]))
	}
}

func TestJarClear(t *testing.T) {
	jar := New(nil)
	u, _ := url.Parse("https://example.com")

	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc"}})
	jar.Clear()

	if got := jar.Cookies(u); len(got) != 0 {
		t.Errorf("cookies after clear = %d", len(got))
	}
	if got := jar.All(); len(got) != 0 {
		t.Errorf("hosts after clear = %d", len(got))
	}
}

func TestJarRemove(t *testing.T) {
	jar := New(nil)
	u, _ := url.Parse("https://example.com")

	jar.SetCookies(u, []*http.Cookie{
		{Name: "keep", Value: "yes"},
		{Name: "drop", Value: "no"},
	})

	jar.Remove("example.com", "drop")

	cookies := jar.Cookies(u)
	if len(cookies) != 1 {
		t.Fatalf("cookies after remove = %d, want 1", len(cookies))
	}
	if cookies[0].Name != "keep" {
		t.Errorf("remaining cookie = %q", cookies[0].Name)
	}

	// Unknown host is a no-op.
	jar.Remove("nonexistent.com", "cookie")
}

func TestJarSaveAndLoad(t *testing.T) {
	port := persist.NewMemStore()

	jar1 := New(port)
	u1, _ := url.Parse("https://example.com")
	u2, _ := url.Parse("https://api.test.com")

	jar1.SetCookies(u1, []*http.Cookie{
		{Name: "session", Value: "abc123"},
		{Name: "theme", Value: "dark"},
	})
	jar1.SetCookies(u2, []*http.Cookie{
		{Name: "token", Value: "xyz789"},
	})

	if err := jar1.Save(); err != nil {
		t.Fatal(err)
	}

	jar2 := New(port)
	if err := jar2.Load(); err != nil {
		t.Fatal(err)
	}

	cookies := jar2.Cookies(u1)
	if len(cookies) != 2 {
		t.Fatalf("example.com cookies = %d, want 2", len(cookies))
	}
	if got := jar2.Cookies(u2); len(got) != 1 {
		t.Fatalf("api.test.com cookies = %d, want 1", len(got))
	}

	found := make(map[string]string)
	for _, c := range cookies {
		found[c.Name] = c.Value
	}
	if found["session"] != "abc123" {
		t.Errorf("session = %q", found["session"])
	}
}

func TestJarLoadEmptyStore(t *testing.T) {
	jar := New(persist.NewMemStore())
	if err := jar.Load(); err != nil {
		t.Errorf("loading an empty store should be a no-op, got %v", err)
	}
}
