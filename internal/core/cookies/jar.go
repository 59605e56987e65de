package cookies

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/sadopc/restman/internal/persist"
)

// jarDocID is the single document the whole jar is stored under.
const jarDocID = "jar"

// Jar wraps http.CookieJar with concurrent access, manual management, and
// persistence over the document store.
type Jar struct {
	mu    sync.RWMutex
	jar   http.CookieJar
	hosts map[string]*url.URL
	port  persist.Store
}

// New creates a cookie jar backed by the given store. A nil port gives a
// purely in-memory jar.
func New(port persist.Store) *Jar {
	inner, _ := cookiejar.New(nil)
	return &Jar{
		jar:   inner,
		hosts: make(map[string]*url.URL),
		port:  port,
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

// SetCookies implements http.CookieJar and remembers the host so the jar can
// be enumerated and persisted later.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.hosts[u.Host] = u
	j.jar.SetCookies(u, cookies)
}

// All returns every known cookie keyed by host.
func (j *Jar) All() map[string][]*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make(map[string][]*http.Cookie)
	for host, u := range j.hosts {
		if cookies := j.jar.Cookies(u); len(cookies) > 0 {
			out[host] = cookies
		}
	}
	return out
}

// Clear drops every cookie.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	inner, _ := cookiejar.New(nil)
	j.jar = inner
	j.hosts = make(map[string]*url.URL)
}

// Remove deletes one cookie by host and name. http.CookieJar has no delete
// operation, so the jar is rebuilt without the matching cookie.
func (j *Jar) Remove(host, name string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	u, ok := j.hosts[host]
	if !ok {
		return
	}

	var keep []*http.Cookie
	for _, c := range j.jar.Cookies(u) {
		if c.Name != name {
			keep = append(keep, c)
		}
	}

	inner, _ := cookiejar.New(nil)
	for h, storedURL := range j.hosts {
		if h == host {
			if len(keep) > 0 {
				inner.SetCookies(storedURL, keep)
			}
			continue
		}
		if existing := j.jar.Cookies(storedURL); len(existing) > 0 {
			inner.SetCookies(storedURL, existing)
		}
	}
	j.jar = inner

	if len(keep) == 0 {
		delete(j.hosts, host)
	}
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
}

type storedJar struct {
	Cookies map[string][]storedCookie `json:"cookies"`
}

// Save writes the jar to the document store.
func (j *Jar) Save() error {
	if j.port == nil {
		return nil
	}
	j.mu.RLock()
	doc := storedJar{Cookies: make(map[string][]storedCookie)}
	for host, u := range j.hosts {
		for _, c := range j.jar.Cookies(u) {
			doc.Cookies[host] = append(doc.Cookies[host], storedCookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HTTPOnly: c.HttpOnly,
			})
		}
	}
	j.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cookie jar: %w", err)
	}
	return j.port.Write(persist.NSCookies, jarDocID, data)
}

// Load restores the jar from the document store. A missing document is not
// an error.
func (j *Jar) Load() error {
	if j.port == nil {
		return nil
	}
	data, err := j.port.Read(persist.NSCookies, jarDocID)
	if errors.Is(err, persist.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var doc storedJar
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding cookie jar: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	for host, cookies := range doc.Cookies {
		u := &url.URL{Scheme: "https", Host: host}
		restored := make([]*http.Cookie, 0, len(cookies))
		for _, c := range cookies {
			restored = append(restored, &http.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HttpOnly: c.HTTPOnly,
			})
		}
		if len(restored) > 0 {
			j.hosts[host] = u
			j.jar.SetCookies(u, restored)
		}
	}
	return nil
}
