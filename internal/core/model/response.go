package model

import "time"

// Cookie is a simplified response cookie.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain,omitempty"`
	Path   string `json:"path,omitempty"`
}

// TimingDetail breaks the request round trip into transport phases.
type TimingDetail struct {
	DNSLookup    time.Duration `json:"dnsLookup"`
	TCPConnect   time.Duration `json:"tcpConnect"`
	TLSHandshake time.Duration `json:"tlsHandshake"`
	TTFB         time.Duration `json:"ttfb"`
	Transfer     time.Duration `json:"transfer"`
	Total        time.Duration `json:"total"`
}

// Response is the normalized result of an executed request. ErrorMessage is
// non-empty iff the call failed before an HTTP status was received.
type Response struct {
	StatusCode        int           `json:"statusCode"`
	StatusDescription string        `json:"statusDescription,omitempty"`
	Headers           []KVPair      `json:"headers,omitempty"` // duplicates preserved
	ContentType       string        `json:"contentType,omitempty"`
	ContentLength     int64         `json:"contentLength"`
	Body              string        `json:"body,omitempty"`
	ResponseTime      time.Duration `json:"responseTime"`
	RedirectCount     int           `json:"redirectCount,omitempty"`
	Cookies           []Cookie      `json:"cookies,omitempty"`
	ErrorMessage      string        `json:"errorMessage,omitempty"`
	Proto             string        `json:"proto,omitempty"`
	Timing            *TimingDetail `json:"timing,omitempty"`
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HistoryItem is an immutable snapshot of an executed request and its
// response. The embedded request never aliases a live collection object.
type HistoryItem struct {
	ID        string    `json:"id"`
	Request   *Request  `json:"request"`
	Response  *Response `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
