// Package mni speaks the intercommunication web service of the judiciary
// system: namespaced XML envelopes out, loosely structured XML back.
package mni

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pge-tools/docketflow/internal/errs"
)

// Status codes the transport retries on. Everything else propagates.
var retryableStatus = map[int]bool{
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
	http.StatusTooManyRequests:     true,
}

const (
	maxRetries  = 5
	backoffBase = 1 * time.Second
)

// ClientConfig holds the endpoint and credentials for the remote service.
type ClientConfig struct {
	URL             string
	User            string
	Password        string
	QueryTimeout    time.Duration
	DownloadTimeout time.Duration
}

// Client is a resilient session against the docket service. It holds no
// mutable state beyond the underlying http.Client, so independent callers
// may share it.
type Client struct {
	httpClient *http.Client
	config     ClientConfig
	logger     *zap.Logger
	backoff    time.Duration
}

// NewClient constructs a client. Per-request timeouts come from the config;
// the http.Client itself carries none so the two request classes can differ.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 60 * time.Second
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 120 * time.Second
	}
	return &Client{
		httpClient: &http.Client{},
		config:     cfg,
		logger:     logger,
		backoff:    backoffBase,
	}
}

// QueryCase asks for the full docket of one case, movements and document
// records included.
func (c *Client) QueryCase(ctx context.Context, caseNumber string) (string, error) {
	body := queryEnvelope(c.config.User, c.config.Password, caseNumber)
	return c.send(ctx, body, c.config.QueryTimeout)
}

// FetchContents asks for the binary content of the given document ids in one
// bulk request. The service may silently return fewer content blocks than
// ids requested.
func (c *Client) FetchContents(ctx context.Context, caseNumber string, ids []string) (string, error) {
	body := contentEnvelope(c.config.User, c.config.Password, caseNumber, ids)
	return c.send(ctx, body, c.config.DownloadTimeout)
}

// send posts one envelope and returns the response body. Retries up to
// maxRetries times with exponential backoff, but only on the server-error
// and rate-limit statuses; timeouts and connection failures are reported to
// the caller, which decides whether to advance to the next case.
func (c *Client) send(ctx context.Context, body string, timeout time.Duration) (string, error) {
	backoff := c.backoff
	var lastStatus int

	for attempt := 0; attempt <= maxRetries; attempt++ {
		text, status, err := c.post(ctx, body, timeout)
		if err != nil {
			return "", err
		}
		if status == http.StatusOK {
			return text, nil
		}
		lastStatus = status
		if !retryableStatus[status] {
			return "", errs.HTTPStatus(status)
		}
		if attempt == maxRetries {
			break
		}
		c.logger.Warn("service returned retryable status",
			zap.Int("status", status),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return "", errs.Wrap(ctx.Err(), errs.ErrConnection.Code, "cancelled during backoff")
		}
	}
	return "", errs.HTTPStatus(lastStatus)
}

func (c *Client) post(ctx context.Context, body string, timeout time.Duration) (string, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.config.URL, strings.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, classifyTransportError(err)
	}
	return string(data), resp.StatusCode, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errs.Wrap(err, errs.ErrTimeout.Code, errs.ErrTimeout.Message)
	}
	return errs.Wrap(err, errs.ErrConnection.Code, errs.ErrConnection.Message)
}
