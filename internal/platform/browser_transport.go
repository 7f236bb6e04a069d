package platform

import (
	"fmt"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// BrowserTransport is an http.RoundTripper that sends requests with a
// browser TLS fingerprint. Video hosts throttle or reject clients whose
// handshake looks like Go's crypto/tls.
type BrowserTransport struct {
	client tls_client.HttpClient
}

// NewBrowserTransport creates a transport with the default browser profile
func NewBrowserTransport(timeout time.Duration) (*BrowserTransport, error) {
	seconds := int(timeout / time.Second)
	if seconds <= 0 {
		seconds = 30
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(seconds),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
	}

	c, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}
	return &BrowserTransport{client: c}, nil
}

// NewBrowserHTTPClient wraps a BrowserTransport in an *http.Client
func NewBrowserHTTPClient(timeout time.Duration) (*http.Client, error) {
	tr, err := NewBrowserTransport(timeout)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: tr, Timeout: timeout}, nil
}

// RoundTrip implements http.RoundTripper
func (t *BrowserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.client.Do(toFHTTPRequest(req))
	if err != nil {
		return nil, err
	}
	return fromFHTTPResponse(resp, req), nil
}

func toFHTTPRequest(req *http.Request) *fhttp.Request {
	fReq := &fhttp.Request{
		Method:        req.Method,
		URL:           req.URL,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        make(fhttp.Header, len(req.Header)),
		Body:          req.Body,
		ContentLength: req.ContentLength,
		Host:          req.Host,
	}
	for k, v := range req.Header {
		fReq.Header[k] = v
	}
	return fReq.WithContext(req.Context())
}

func fromFHTTPResponse(resp *fhttp.Response, req *http.Request) *http.Response {
	out := &http.Response{
		Status:           resp.Status,
		StatusCode:       resp.StatusCode,
		Proto:            resp.Proto,
		ProtoMajor:       resp.ProtoMajor,
		ProtoMinor:       resp.ProtoMinor,
		ContentLength:    resp.ContentLength,
		Body:             resp.Body,
		Header:           make(http.Header, len(resp.Header)),
		Uncompressed:     resp.Uncompressed,
		TransferEncoding: resp.TransferEncoding,
		Request:          req,
	}
	for k, v := range resp.Header {
		out.Header[k] = v
	}
	return out
}
