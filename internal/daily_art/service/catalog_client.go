package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/logging"
	"golang.org/x/time/rate"
)

const (
	DefaultCatalogTimeout = 30 * time.Second
	maxCatalogBody        = 4 << 20
)

// CatalogClientOptions tunes the catalog HTTP client.
type CatalogClientOptions struct {
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// CatalogClient handles communication with the art museum collection API
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewCatalogClient creates a new catalog client
func NewCatalogClient(baseURL string, opts CatalogClientOptions) *CatalogClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCatalogTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 50
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
	}
}

// Search returns the IDs of objects with images matching query.
func (c *CatalogClient) Search(ctx context.Context, query string) ([]int, error) {
	reqURL := c.baseURL + "/search?hasImages=true&q=" + encodeQuery(query)

	var result domain.SearchResult
	if err := c.getJSON(ctx, "catalog_search", reqURL, &result); err != nil {
		return nil, err
	}
	if result.ObjectIDs == nil {
		return []int{}, nil
	}
	return result.ObjectIDs, nil
}

// Object fetches full metadata for one object.
func (c *CatalogClient) Object(ctx context.Context, objectID int) (*domain.ArtworkRecord, error) {
	reqURL := c.baseURL + "/objects/" + strconv.Itoa(objectID)

	var record domain.ArtworkRecord
	if err := c.getJSON(ctx, "catalog_object", reqURL, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *CatalogClient) getJSON(ctx context.Context, op, reqURL string, out interface{}) error {
	logger := logging.NewLogger(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	start := time.Now()
	err := c.doGetJSON(ctx, op, reqURL, out)
	recordCatalogCall(time.Since(start), err)
	if err != nil {
		logger.LogError(op, err)
		return err
	}
	logger.LogInfof(op, "url=%s latency=%s", reqURL, time.Since(start))
	return nil
}

func (c *CatalogClient) doGetJSON(ctx context.Context, op, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBody))
	if err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", truncate(string(body), 200))}
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return &domain.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("wrong MIME type %q", resp.Header.Get("Content-Type"))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.DecodeError{Op: op, Err: err}
	}
	return nil
}

// encodeQuery percent-encodes a phrase for the q parameter, spaces as %20.
func encodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
