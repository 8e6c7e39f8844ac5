// Package backend is the HTTP client for the remote transaction store.
// The store owns persistence; this client only speaks its two endpoints.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AlvesGus/finbot/internal/common"
	"github.com/AlvesGus/finbot/internal/model"
)

const defaultTimeout = 5 * time.Second

// User-facing messages for backend soft failures; the bot surfaces these
// verbatim instead of the underlying transport error.
const (
	saveFailedMessage = "⚠️ Erro ao salvar a transação no servidor."
	listFailedMessage = "⚠️ Não consegui recuperar suas transações."
)

// Client talks to the transaction backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: backend base URL is required", common.ErrMissingConfig)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// CreateTransaction persists one transaction record.
func (c *Client) CreateTransaction(ctx context.Context, tx model.Transaction) error {
	jsonBody, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/add-transactions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.NewUserError(saveFailedMessage, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return common.NewUserError(saveFailedMessage,
			fmt.Errorf("%w: status %d: %s", common.ErrBackendUnavailable, resp.StatusCode, string(body)))
	}

	return nil
}

// ListTransactions fetches the stored transactions for one Telegram user,
// newest first as ordered by the backend.
func (c *Client) ListTransactions(ctx context.Context, telegramID string) ([]model.Transaction, error) {
	endpoint := fmt.Sprintf("%s/transactions?telegram_id=%s", c.baseURL, url.QueryEscape(telegramID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewUserError(listFailedMessage, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, common.NewUserError(listFailedMessage,
			fmt.Errorf("%w: status %d: %s", common.ErrBackendUnavailable, resp.StatusCode, string(body)))
	}

	var transactions []model.Transaction
	if err := json.Unmarshal(body, &transactions); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}

	return transactions, nil
}
