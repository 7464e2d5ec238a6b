// Package sources audits the source URLs recorded against regulatory
// documents. Regulators move and retire pages; a stale source URL means
// a citation the reader cannot verify.
package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// Status classifies one source-URL check.
type Status string

const (
	StatusOK      Status = "ok"
	StatusMoved   Status = "moved"
	StatusBroken  Status = "broken"
	StatusTimeout Status = "timeout"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of checking one document's source URL.
type Result struct {
	DocumentCode string        `json:"documentCode"`
	SourceURL    string        `json:"sourceUrl"`
	Status       Status        `json:"status"`
	HTTPStatus   int           `json:"httpStatus,omitempty"`
	Location     string        `json:"location,omitempty"`
	Error        string        `json:"error,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Report aggregates the results of one audit run.
type Report struct {
	Results []Result  `json:"results"`
	Checked int       `json:"checked"`
	Broken  int       `json:"broken"`
	RunAt   time.Time `json:"runAt"`
}

// Options tune a checker. Zero values take the defaults below.
type Options struct {
	Timeout     time.Duration
	Concurrency int
	MaxRetries  int

	// PerHostInterval spaces requests to the same host so regulator
	// sites are not hammered.
	PerHostInterval time.Duration

	// CacheTTL keeps recent results so repeated audits of a large
	// corpus stay cheap.
	CacheTTL  time.Duration
	CacheSize int

	UserAgent string
}

const (
	defaultTimeout         = 10 * time.Second
	defaultConcurrency     = 4
	defaultMaxRetries      = 2
	defaultPerHostInterval = 500 * time.Millisecond
	defaultCacheTTL        = 15 * time.Minute
	defaultCacheSize       = 256
	defaultUserAgent       = "restoreassist-sourcecheck/" + "0.1"
)

// Checker audits document source URLs with per-host rate limiting, a
// TTL result cache, and bounded concurrency. Safe for concurrent use.
type Checker struct {
	client  *http.Client
	opts    Options
	cache   *expirable.LRU[string, Result]
	log     zerolog.Logger
	mu      sync.Mutex
	lastHit map[string]time.Time
}

// NewChecker builds a checker. The HTTP client reports redirects rather
// than following them, so moved pages surface as StatusMoved.
func NewChecker(opts Options, log zerolog.Logger) *Checker {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.PerHostInterval <= 0 {
		opts.PerHostInterval = defaultPerHostInterval
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	return &Checker{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		opts:    opts,
		cache:   expirable.NewLRU[string, Result](opts.CacheSize, nil, opts.CacheTTL),
		log:     log,
		lastHit: make(map[string]time.Time),
	}
}

// CheckDocuments audits every document that carries a source URL.
// Documents without one are reported as skipped. Results come back in
// document-code order regardless of completion order.
func (c *Checker) CheckDocuments(ctx context.Context, documents []types.RegulatoryDocument) *Report {
	report := &Report{RunAt: time.Now()}

	results := make([]Result, len(documents))
	semaphore := make(chan struct{}, c.opts.Concurrency)
	var wg sync.WaitGroup

	for i, document := range documents {
		if document.SourceURL == "" {
			results[i] = Result{
				DocumentCode: document.DocumentCode,
				Status:       StatusSkipped,
			}
			continue
		}

		wg.Add(1)
		go func(i int, document types.RegulatoryDocument) {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				results[i] = Result{
					DocumentCode: document.DocumentCode,
					SourceURL:    document.SourceURL,
					Status:       StatusTimeout,
					Error:        ctx.Err().Error(),
				}
				return
			}
			results[i] = c.checkOne(ctx, document.DocumentCode, document.SourceURL)
		}(i, document)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].DocumentCode < results[j].DocumentCode
	})
	for _, result := range results {
		report.Results = append(report.Results, result)
		if result.Status != StatusSkipped {
			report.Checked++
		}
		if result.Status == StatusBroken || result.Status == StatusTimeout {
			report.Broken++
		}
	}
	return report
}

// CheckURL audits a single URL outside any document context.
func (c *Checker) CheckURL(ctx context.Context, rawURL string) Result {
	return c.checkOne(ctx, "", rawURL)
}

func (c *Checker) checkOne(ctx context.Context, documentCode, rawURL string) Result {
	if cached, ok := c.cache.Get(rawURL); ok {
		cached.DocumentCode = documentCode
		return cached
	}

	result := Result{DocumentCode: documentCode, SourceURL: rawURL}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		result.Status = StatusBroken
		result.Error = "unparseable URL"
		return result
	}

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 250 * time.Millisecond
			select {
			case <-ctx.Done():
				result.Status = StatusTimeout
				result.Error = ctx.Err().Error()
				return result
			case <-time.After(backoff):
			}
		}

		result = c.probe(ctx, documentCode, rawURL, parsed.Host)
		if result.Status != StatusTimeout && result.Status != StatusBroken {
			break
		}
		// Definitive 4xx answers are not retried.
		if result.HTTPStatus >= 400 && result.HTTPStatus < 500 {
			break
		}
	}

	c.cache.Add(rawURL, result)
	return result
}

func (c *Checker) probe(ctx context.Context, documentCode, rawURL, host string) Result {
	c.throttle(host)
	started := time.Now()
	result := Result{DocumentCode: documentCode, SourceURL: rawURL}

	request, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		result.Status = StatusBroken
		result.Error = fmt.Sprintf("building request: %v", err)
		return result
	}
	request.Header.Set("User-Agent", c.opts.UserAgent)

	response, err := c.client.Do(request)
	result.Elapsed = time.Since(started)
	if err != nil {
		if ctx.Err() != nil {
			result.Status = StatusTimeout
			result.Error = ctx.Err().Error()
			return result
		}
		result.Status = StatusTimeout
		result.Error = err.Error()
		return result
	}
	defer response.Body.Close()

	result.HTTPStatus = response.StatusCode
	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		result.Status = StatusOK
	case response.StatusCode >= 300 && response.StatusCode < 400:
		result.Status = StatusMoved
		result.Location = response.Header.Get("Location")
	default:
		result.Status = StatusBroken
	}

	if result.Status != StatusOK {
		c.log.Warn().Str("document", documentCode).Str("url", rawURL).
			Int("status", response.StatusCode).Msg("source URL check failed")
	}
	return result
}

// throttle blocks until the per-host interval since the last request to
// this host has elapsed.
func (c *Checker) throttle(host string) {
	for {
		c.mu.Lock()
		last, seen := c.lastHit[host]
		wait := time.Duration(0)
		if seen {
			if elapsed := time.Since(last); elapsed < c.opts.PerHostInterval {
				wait = c.opts.PerHostInterval - elapsed
			}
		}
		if wait == 0 {
			c.lastHit[host] = time.Now()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		time.Sleep(wait)
	}
}
