// Package lambda adapts API Gateway HTTP API (payload v2) events onto the
// same http.Handler the HTTP server runs, so both hosts share one router.
package lambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
)

// Proxy dispatches Lambda events to an http.Handler.
type Proxy struct {
	handler http.Handler
	logger  *zerolog.Logger
}

func NewProxy(handler http.Handler, logger *zerolog.Logger) *Proxy {
	return &Proxy{
		handler: handler,
		logger:  logger,
	}
}

// Handle converts the event into an *http.Request, serves it and converts
// the captured response back. Only a malformed event returns an error;
// every HTTP outcome, 5xx included, is a normal response.
func (p *Proxy) Handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	req, err := NewRequest(ctx, event)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("route_key", event.RouteKey).
			Msg("failed to convert lambda event")
		return events.APIGatewayV2HTTPResponse{}, err
	}

	w := newResponseWriter()
	p.handler.ServeHTTP(w, req)

	p.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", w.status).
		Msg("lambda request served")

	return w.toEvent(), nil
}

// NewRequest builds the *http.Request described by event.
func NewRequest(ctx context.Context, event events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	method := event.RequestContext.HTTP.Method
	if method == "" {
		return nil, fmt.Errorf("lambda event has no HTTP method")
	}

	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}
	if path == "" {
		path = "/"
	}

	target := path
	if event.RawQueryString != "" {
		target += "?" + event.RawQueryString
	}
	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", target, err)
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		body, err = base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	// Multi-value headers arrive comma-joined and are kept that way.
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	if len(event.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(event.Cookies, "; "))
	}

	req.Host = event.RequestContext.DomainName
	if req.Host == "" {
		req.Host = req.Header.Get("Host")
	}
	if req.Header.Get("X-Forwarded-Proto") == "" {
		req.Header.Set("X-Forwarded-Proto", "https")
	}
	if ip := event.RequestContext.HTTP.SourceIP; ip != "" {
		req.RemoteAddr = ip
	}
	req.ContentLength = int64(len(body))

	return req, nil
}

// responseWriter buffers a response in memory for conversion into an
// APIGatewayV2HTTPResponse.
type responseWriter struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: make(http.Header)}
}

func (w *responseWriter) Header() http.Header {
	return w.header
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

func (w *responseWriter) toEvent() events.APIGatewayV2HTTPResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    make(map[string]string, len(w.header)),
	}

	for k, v := range w.header {
		if http.CanonicalHeaderKey(k) == "Set-Cookie" {
			resp.Cookies = append(resp.Cookies, v...)
			continue
		}
		resp.Headers[k] = strings.Join(v, ",")
	}

	if isTextual(w.header.Get("Content-Type")) {
		resp.Body = w.body.String()
	} else if w.body.Len() > 0 {
		resp.Body = base64.StdEncoding.EncodeToString(w.body.Bytes())
		resp.IsBase64Encoded = true
	}

	return resp
}

func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/") ||
		strings.Contains(ct, "json") ||
		strings.Contains(ct, "xml") ||
		strings.Contains(ct, "javascript")
}
