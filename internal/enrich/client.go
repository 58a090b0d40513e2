// internal/enrich/client.go - 外部内容补全：建条目前预填标题/图片/标签
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Longchamps99/list-app-sub001/internal/config"

	"golang.org/x/time/rate"
)

var ErrNotConfigured = errors.New("enrich service not configured")

type Candidate struct {
	Title    string   `json:"title"`
	ImageURL string   `json:"image_url"`
	Link     string   `json:"link"`
	Tags     []string `json:"tags"`
}

type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
}

func New(cfg config.EnrichConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), 1),
	}
}

// Lookup 查询候选元数据，出站调用受限速保护
func (c *Client) Lookup(ctx context.Context, query string) (*Candidate, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrich request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enrich service returned status %d", resp.StatusCode)
	}

	var candidate Candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidate); err != nil {
		return nil, fmt.Errorf("enrich response decode failed: %w", err)
	}

	return &candidate, nil
}
