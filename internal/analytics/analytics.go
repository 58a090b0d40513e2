// internal/analytics/analytics.go - 行为事件上报（尽力而为，绝不阻塞请求）
package analytics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Longchamps99/list-app-sub001/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Event struct {
	ID         string                 `json:"id"`
	UserID     uint                   `json:"user_id"`
	Name       string                 `json:"event"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	events   chan Event
	done     chan struct{}
}

func New(cfg config.AnalyticsConfig) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 5 * time.Second},
		events:   make(chan Event, cfg.BufferSize),
		done:     make(chan struct{}),
	}

	go c.worker()

	return c
}

// Capture 入队一个事件。队列满或未配置时直接丢弃，失败只记日志。
func (c *Client) Capture(userID uint, name string, properties map[string]interface{}) {
	if c == nil || c.endpoint == "" {
		return
	}

	event := Event{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Properties: properties,
		Timestamp:  time.Now(),
	}

	select {
	case c.events <- event:
	default:
		logrus.WithField("event", name).Debug("analytics buffer full, event dropped")
	}
}

func (c *Client) Close() {
	close(c.done)
}

func (c *Client) worker() {
	for {
		select {
		case event := <-c.events:
			c.send(event)
		case <-c.done:
			// 退出前清空队列
			for {
				select {
				case event := <-c.events:
					c.send(event)
				default:
					return
				}
			}
		}
	}
}

func (c *Client) send(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Warn("analytics marshal failed")
		return
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).Warn("analytics request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("event", event.Name).Warn("analytics capture failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		logrus.WithFields(logrus.Fields{
			"event":  event.Name,
			"status": resp.StatusCode,
		}).Warn("analytics capture rejected")
	}
}
