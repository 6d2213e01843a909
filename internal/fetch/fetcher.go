// Package fetch implements the HTTP layer of the crawl: a colly-backed
// fetcher with timeout, status classification, and exponential-backoff
// retries, plus the per-phase rate-limiter lanes.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
)

// Config controls fetcher behavior for one run.
type Config struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	Retries        int
}

// Fetcher issues single GET requests through colly. A failed fetch is never
// fatal to the run: after exhausting retries it is counted in the run stats
// and reported to the caller as ok=false.
type Fetcher struct {
	cfg    Config
	policy RetryPolicy
	base   *colly.Collector
	stats  *catalog.Stats
	logger *zap.Logger
}

// New builds a Fetcher sharing one pooled transport across requests.
func New(cfg Config, stats *catalog.Stats, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	base := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	base.WithTransport(newHTTPTransport())
	return &Fetcher{
		cfg:    cfg,
		policy: DefaultRetryPolicy(cfg.Retries),
		base:   base,
		stats:  stats,
		logger: logger,
	}
}

// Fetch GETs rawURL and returns the body text on HTTP 200. 429 and 5xx
// responses, network errors, and timeouts are retried with exponential
// backoff; any other non-200 status gives up immediately. All give-ups are
// counted in HTTPErrors and reported as ok=false.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, bool) {
	for attempt := 0; ; attempt++ {
		status, body, err := f.do(ctx, rawURL)
		if err == nil && status == http.StatusOK {
			return string(body), true
		}
		if ctx.Err() != nil {
			f.stats.HTTPErrors.Add(1)
			return "", false
		}

		base, retryable := f.classify(status, err)
		if !retryable {
			f.logger.Warn("fetch failed, not retrying",
				zap.String("url", rawURL),
				zap.Int("status", status),
			)
			f.stats.HTTPErrors.Add(1)
			return "", false
		}
		if attempt >= f.policy.Retries {
			f.logger.Warn("fetch retries exhausted",
				zap.String("url", rawURL),
				zap.Int("status", status),
				zap.Int("attempts", attempt+1),
				zap.Error(err),
			)
			f.stats.HTTPErrors.Add(1)
			return "", false
		}

		delay := f.policy.NextDelay(attempt+1, base)
		f.logger.Info("retrying fetch",
			zap.String("url", rawURL),
			zap.Int("status", status),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
		)
		if pause(ctx, delay) != nil {
			f.stats.HTTPErrors.Add(1)
			return "", false
		}
	}
}

// classify maps a failed attempt to its backoff base and retryability.
func (f *Fetcher) classify(status int, err error) (time.Duration, bool) {
	switch {
	case status == http.StatusTooManyRequests:
		return f.policy.RateLimitBase, true
	case status >= 500 && status < 600:
		return f.policy.ServerErrorBase, true
	case status == 0 && err != nil:
		// Network failure or timeout, no response at all.
		return f.policy.ServerErrorBase, true
	default:
		return 0, false
	}
}

// do executes one attempt on a cloned collector.
func (f *Fetcher) do(ctx context.Context, rawURL string) (int, []byte, error) {
	collector := f.base.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	var (
		status   int
		body     []byte
		start    = time.Now()
		fetchErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		if f.cfg.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", f.cfg.AcceptLanguage)
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return 0, nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		f.logger.Debug("request finished",
			zap.String("url", rawURL),
			zap.Int("status", status),
			zap.Duration("took", time.Since(start)),
		)
		if fetchErr != nil {
			return status, nil, fmt.Errorf("fetch %s: %w", rawURL, fetchErr)
		}
		if err != nil {
			return status, nil, fmt.Errorf("fetch %s: %w", rawURL, err)
		}
		return status, body, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
