package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/sadopc/restman/internal/auth/awsv4"
	"github.com/sadopc/restman/internal/auth/digest"
	"github.com/sadopc/restman/internal/core/cookies"
	"github.com/sadopc/restman/internal/core/model"
)

// maxRedirects caps the redirect chain before the client gives up.
const maxRedirects = 10

// Client executes wire requests. A fresh transport is built per request so
// proxy and TLS settings can vary call to call; the cookie jar is shared.
type Client struct {
	jar *cookies.Jar
}

// NewClient creates an executor. jar may be nil to disable cookie handling.
func NewClient(jar *cookies.Jar) *Client {
	return &Client{jar: jar}
}

// Execute sends a variable-resolved request and normalizes the result. A
// returned error means the call never produced an HTTP response; HTTP error
// statuses are successful executions.
func (c *Client) Execute(ctx context.Context, req *model.Request) (*model.Response, error) {
	wire, err := Build(req)
	if err != nil {
		return nil, err
	}

	transport, err := buildTransport(req)
	if err != nil {
		return nil, err
	}

	redirects := 0
	httpClient := &http.Client{
		Timeout:   req.Timeout(),
		Transport: transport,
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if !req.FollowRedirects {
				return http.ErrUseLastResponse
			}
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			redirects = len(via)
			return nil
		},
	}
	if c.jar != nil {
		httpClient.Jar = c.jar
	}

	var timing timingCapture
	send := func(extraAuth string) (*http.Response, []byte, time.Duration, error) {
		httpReq, err := http.NewRequestWithContext(ctx, wire.Method, wire.URL.String(), bytes.NewReader(wire.Body))
		if err != nil {
			return nil, nil, 0, fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header = wire.Header.Clone()
		if extraAuth != "" {
			httpReq.Header.Set("Authorization", extraAuth)
		}

		if req.Auth.Enabled && req.Auth.Type == model.AuthAWSV4 && req.Auth.AWS != nil {
			creds := awsv4.Credentials{
				AccessKey:    req.Auth.AWS.AccessKey,
				SecretKey:    req.Auth.AWS.SecretKey,
				SessionToken: req.Auth.AWS.SessionToken,
				Region:       req.Auth.AWS.Region,
				Service:      req.Auth.AWS.Service,
			}
			if err := awsv4.Sign(httpReq, wire.Body, creds, time.Now()); err != nil {
				return nil, nil, 0, fmt.Errorf("signing request: %w", err)
			}
		}

		timing.reset()
		httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), timing.trace()))

		start := time.Now()
		resp, err := httpClient.Do(httpReq)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		transferStart := time.Now()
		body, err := io.ReadAll(resp.Body)
		timing.transfer = time.Since(transferStart)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("reading response: %w", err)
		}
		return resp, body, time.Since(start), nil
	}

	resp, body, elapsed, err := send("")
	if err != nil {
		return nil, err
	}

	// Digest is a challenge scheme: the first round trip earns a 401 with the
	// server nonce, the second carries the computed response.
	if resp.StatusCode == http.StatusUnauthorized &&
		req.Auth.Enabled && req.Auth.Type == model.AuthDigest && req.Auth.Digest != nil {
		header := resp.Header.Get("WWW-Authenticate")
		if ch, parseErr := digest.ParseChallenge(header); parseErr == nil {
			authValue := digest.Authorize(
				req.Auth.Digest.Username,
				req.Auth.Digest.Password,
				wire.Method,
				wire.URL.RequestURI(),
				ch,
			)
			if retryResp, retryBody, retryElapsed, retryErr := send(authValue); retryErr == nil {
				resp, body, elapsed = retryResp, retryBody, retryElapsed
			}
		}
	}

	return normalize(resp, body, elapsed, redirects, timing.detail(elapsed)), nil
}

func normalize(resp *http.Response, body []byte, elapsed time.Duration, redirects int, timing *model.TimingDetail) *model.Response {
	headers := make([]model.KVPair, 0, len(resp.Header))
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range resp.Header[name] {
			headers = append(headers, model.KVPair{Key: name, Value: value, Enabled: true})
		}
	}

	respCookies := make([]model.Cookie, 0, len(resp.Cookies()))
	for _, c := range resp.Cookies() {
		respCookies = append(respCookies, model.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}

	statusDesc := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))

	return &model.Response{
		StatusCode:        resp.StatusCode,
		StatusDescription: statusDesc,
		Headers:           headers,
		ContentType:       resp.Header.Get("Content-Type"),
		ContentLength:     int64(len(body)),
		Body:              string(body),
		ResponseTime:      elapsed,
		RedirectCount:     redirects,
		Cookies:           respCookies,
		Proto:             resp.Proto,
		Timing:            timing,
	}
}

// timingCapture records transport phase timestamps via httptrace.
type timingCapture struct {
	dnsStart, connStart, tlsStart time.Time
	gotConn, firstByte            time.Time
	dns, conn, tlsDur, transfer   time.Duration
}

func (t *timingCapture) reset() {
	*t = timingCapture{}
}

func (t *timingCapture) trace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		DNSStart:             func(httptrace.DNSStartInfo) { t.dnsStart = time.Now() },
		DNSDone:              func(httptrace.DNSDoneInfo) { t.dns = time.Since(t.dnsStart) },
		ConnectStart:         func(string, string) { t.connStart = time.Now() },
		ConnectDone:          func(string, string, error) { t.conn = time.Since(t.connStart) },
		TLSHandshakeStart:    func() { t.tlsStart = time.Now() },
		TLSHandshakeDone:     func(tls.ConnectionState, error) { t.tlsDur = time.Since(t.tlsStart) },
		GotConn:              func(httptrace.GotConnInfo) { t.gotConn = time.Now() },
		GotFirstResponseByte: func() { t.firstByte = time.Now() },
	}
}

func (t *timingCapture) detail(total time.Duration) *model.TimingDetail {
	var ttfb time.Duration
	if !t.gotConn.IsZero() && !t.firstByte.IsZero() {
		ttfb = t.firstByte.Sub(t.gotConn)
	}
	return &model.TimingDetail{
		DNSLookup:    t.dns,
		TCPConnect:   t.conn,
		TLSHandshake: t.tlsDur,
		TTFB:         ttfb,
		Transfer:     t.transfer,
		Total:        total,
	}
}

// buildTransport configures TLS verification and the per-request proxy.
func buildTransport(req *model.Request) (http.RoundTripper, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if !req.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	if !req.Proxy.Enabled || req.Proxy.Type == "" || req.Proxy.Type == model.ProxyNone {
		return transport, nil
	}
	if req.Proxy.Host == "" {
		return nil, fmt.Errorf("%w: proxy enabled without host", ErrInvalidRequest)
	}
	addr := req.Proxy.Host
	if req.Proxy.Port > 0 {
		addr = fmt.Sprintf("%s:%d", req.Proxy.Host, req.Proxy.Port)
	}

	switch req.Proxy.Type {
	case model.ProxyHTTP:
		proxyURL := &url.URL{Scheme: "http", Host: addr}
		if req.Proxy.UseAuth {
			proxyURL.User = url.UserPassword(req.Proxy.Username, req.Proxy.Password)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	case model.ProxySOCKS5:
		var auth *proxy.Auth
		if req.Proxy.UseAuth {
			auth = &proxy.Auth{User: req.Proxy.Username, Password: req.Proxy.Password}
		}
		dialer, err := proxy.SOCKS5("tcp", addr, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("creating socks5 dialer: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported proxy type %q", ErrInvalidRequest, req.Proxy.Type)
	}
	return transport, nil
}
