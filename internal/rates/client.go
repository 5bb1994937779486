package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rzkmi/payoutdesk/internal/logger"
	"go.uber.org/zap"
)

// Source provides the exchange rate valid at a given instant. It is read
// once per withdrawal, at creation, to freeze the currency snapshot.
type Source interface {
	RateAt(ctx context.Context, currencyCode string, at time.Time) (float64, error)
}

type rateResponse struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) RateAt(ctx context.Context, currencyCode string, at time.Time) (float64, error) {
	url := fmt.Sprintf("%s/api/rates/%s?at=%s", c.baseURL, currencyCode, at.UTC().Format(time.RFC3339))
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Log.Error("failed to close rates response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}

	if result.Rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %f for %s", result.Rate, currencyCode)
	}

	return result.Rate, nil
}
