// internal/mail/mail.go - 第三方邮件投递 API 客户端
package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Longchamps99/list-app-sub001/internal/config"

	"github.com/sirupsen/logrus"
)

type Sender interface {
	Send(to, subject, html string) error
}

// New 未配置投递服务时退化为只写日志
func New(cfg config.MailConfig) Sender {
	if cfg.Endpoint == "" {
		logrus.Warn("邮件服务未配置，邮件将只写入日志")
		return &logSender{}
	}
	return &apiSender{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type apiSender struct {
	endpoint string
	apiKey   string
	from     string
	http     *http.Client
}

type sendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (s *apiSender) Send(to, subject, html string) error {
	body, err := json.Marshal(sendPayload{
		From:    s.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("mail delivery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail delivery rejected with status %d", resp.StatusCode)
	}

	return nil
}

type logSender struct{}

func (s *logSender) Send(to, subject, html string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("邮件未投递（服务未配置）")
	return nil
}
