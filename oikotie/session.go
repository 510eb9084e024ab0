package oikotie

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// BaseURL is the production endpoint of the listings provider.
const BaseURL = "https://asunnot.oikotie.fi"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:74.0) Gecko/20100101 Firefox/74.0"

// Session is a scoped, authenticated connection to the provider. It
// fetches the OTA credential triple exactly once at construction and
// attaches it to every subsequent request. All requests share one
// collector and one transport; they are issued sequentially.
//
// The header set is immutable after NewSession returns. Close releases
// the underlying connections and must be called on every exit path.
type Session struct {
	collector *colly.Collector
	transport *http.Transport
	baseURL   string
	headers   map[string]string
	log       *slog.Logger
}

// Option configures a Session before credentials are fetched.
type Option func(*Session)

// WithBaseURL points the session at a different provider root.
func WithBaseURL(u string) Option {
	return func(s *Session) { s.baseURL = u }
}

// WithHeaders merges caller headers into the session header set. They
// may override the default User-Agent but never the OTA credential
// fields, which are applied last.
func WithHeaders(h map[string]string) Option {
	return func(s *Session) {
		for k, v := range h {
			s.headers[k] = v
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

type otaResponse struct {
	User struct {
		CUID  string `json:"cuid"`
		Time  int64  `json:"time"`
		Token string `json:"token"`
	} `json:"user"`
}

// NewSession opens a session and fetches fresh credentials. There is no
// refresh logic: an expired token surfaces as a failed request later.
func NewSession(ctx context.Context, opts ...Option) (*Session, error) {
	transport := &http.Transport{}
	c := colly.NewCollector(colly.AllowURLRevisit(), colly.IgnoreRobotsTxt())
	c.WithTransport(transport)

	// One request at a time; the provider sees a single sequential client.
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1}); err != nil {
		return nil, fmt.Errorf("set limit rule: %w", err)
	}

	s := &Session{
		collector: c,
		transport: transport,
		baseURL:   BaseURL,
		headers:   map[string]string{"User-Agent": defaultUserAgent},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tokenURL := fmt.Sprintf("%s/user/get?format=json&rand=%d", s.baseURL, rand.Intn(9001))
	var ota otaResponse
	if err := s.getJSON(ctx, tokenURL, &ota); err != nil {
		s.transport.CloseIdleConnections()
		return nil, fmt.Errorf("%w: fetch credentials: %v", ErrAuth, err)
	}
	if ota.User.Token == "" {
		s.transport.CloseIdleConnections()
		return nil, fmt.Errorf("%w: provider returned empty token", ErrAuth)
	}

	// Credential fields are set last so caller headers cannot mask them.
	s.headers["OTA-cuid"] = ota.User.CUID
	s.headers["OTA-loaded"] = fmt.Sprintf("%d", ota.User.Time)
	s.headers["OTA-token"] = ota.User.Token

	s.log.Debug("session opened", "base_url", s.baseURL, "cuid", ota.User.CUID)
	return s, nil
}

// Close releases the session's idle connections. The credentials are
// short-lived server side; there is no invalidation call.
func (s *Session) Close() {
	s.transport.CloseIdleConnections()
	s.log.Debug("session closed")
}

// getJSON issues one GET through the shared collector and decodes the
// JSON body into out. A clone inherits the parent's limits but carries
// its own handlers, so concurrent iterators cannot cross wires.
func (s *Session) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := s.collector.Clone()

	var body []byte
	var reqErr error
	c.OnRequest(func(r *colly.Request) {
		for k, v := range s.headers {
			r.Headers.Set(k, v)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		reqErr = fmt.Errorf("status %d from %s: %v", r.StatusCode, r.Request.URL, err)
	})

	start := time.Now()
	if err := c.Visit(rawURL); err != nil {
		return fmt.Errorf("%w: visit %s: %v", ErrTransport, rawURL, err)
	}
	c.Wait()

	if reqErr != nil {
		return fmt.Errorf("%w: %v", ErrTransport, reqErr)
	}
	if body == nil {
		return fmt.Errorf("%w: no response body from %s", ErrTransport, rawURL)
	}
	s.log.Debug("request done", "url", rawURL, "bytes", len(body), "took", time.Since(start))

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrParse, rawURL, err)
	}
	return nil
}
