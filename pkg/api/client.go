package api

// INTAKE API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
	maxElapsed time.Duration
}

type OrderRequest struct {
	Reference       string    `json:"reference"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PageCount       int       `json:"page_count"`
	ProjectNotes    string    `json:"project_notes,omitempty"`
	AdditionalNotes string    `json:"additional_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:     logger,
		maxElapsed: time.Minute,
	}
}

// SubmitOrder posts the order, retrying transport errors and 5xx responses.
func (c *Client) SubmitOrder(ctx context.Context, req OrderRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.InitialInterval = 200 * time.Millisecond
	retryPolicy.MaxElapsedTime = c.maxElapsed

	return backoff.RetryNotify(
		func() error {
			err := c.postOrder(ctx, body)
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.Code < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			c.logger.Warn("Order submission failed, retrying...",
				zap.String("reference", req.Reference),
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
}

func (c *Client) postOrder(ctx context.Context, body []byte) error {
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/api/orders", c.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	return nil
}
