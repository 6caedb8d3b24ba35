// Package fetcher loads listing pages over HTTP and parses them
// into queryable documents.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
	"golang.org/x/time/rate"
)

const (
	defaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	defaultNavTimeout = 30 * time.Second
	defaultRPS        = 1.0
)

var (
	ErrSessionClosed = errors.New("session is closed")
	ErrBadStatus     = errors.New("unexpected status code")
)

var _ port.PageFetcher = (*HTTPFetcher)(nil)

type Opt func(*HTTPFetcher) error

func UserAgentOpt(ua string) Opt {
	return func(f *HTTPFetcher) error {
		if ua != "" {
			f.userAgent = ua
		}
		return nil
	}
}

func NavigationTimeoutOpt(d time.Duration) Opt {
	return func(f *HTTPFetcher) error {
		if d < 0 {
			return errors.New("navigation timeout is negative")
		}
		if d > 0 {
			f.navTimeout = d
		}
		return nil
	}
}

// RateOpt limits requests per second within a single session.
func RateOpt(rps float64) Opt {
	return func(f *HTTPFetcher) error {
		if rps < 0 {
			return errors.New("rate is negative")
		}
		if rps > 0 {
			f.rps = rps
		}
		return nil
	}
}

// An HTTPFetcher opens sessions with their own connection pool
// and request rate limit.
type HTTPFetcher struct {
	userAgent  string
	navTimeout time.Duration
	rps        float64
}

func New(opts ...Opt) (HTTPFetcher, error) {
	const op = "fetcher.New"

	f := HTTPFetcher{
		userAgent:  defaultUserAgent,
		navTimeout: defaultNavTimeout,
		rps:        defaultRPS,
	}
	for _, opt := range opts {
		if err := opt(&f); err != nil {
			return HTTPFetcher{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return f, nil
}

func (f HTTPFetcher) Open(ctx context.Context) (port.Session, error) {
	const op = "HTTPFetcher.Open"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &session{
		client:     &http.Client{Transport: transport},
		transport:  transport,
		limiter:    rate.NewLimiter(rate.Limit(f.rps), 1),
		userAgent:  f.userAgent,
		navTimeout: f.navTimeout,
	}, nil
}

type session struct {
	client     *http.Client
	transport  *http.Transport
	limiter    *rate.Limiter
	userAgent  string
	navTimeout time.Duration
	closed     atomic.Bool
}

// Navigate loads url and parses the body. A request that does not
// complete within the navigation timeout fails with
// [domain.ErrNavigationTimeout].
func (s *session) Navigate(
	ctx context.Context, url string,
) (*goquery.Document, error) {
	const op = "session.Navigate"
	log := slog.With("op", op, "url", url)

	if s.closed.Load() {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionClosed)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(navCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.classify(ctx, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrBadStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, s.classify(ctx, op, err)
	}
	doc.Url = resp.Request.URL

	log.Debug("page loaded")
	return doc, nil
}

// classify maps a timeout of the navigation itself to
// [domain.ErrNavigationTimeout] and leaves caller cancellation as is.
func (s *session) classify(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNavigationTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.transport.CloseIdleConnections()
	return nil
}
