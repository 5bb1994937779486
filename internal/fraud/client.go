package fraud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rzkmi/payoutdesk/internal/logger"
	"github.com/rzkmi/payoutdesk/internal/models"
	"go.uber.org/zap"
)

// Scorer is the external risk-scoring oracle. It is consulted exactly once,
// at creation time; the label it returns is immutable afterwards.
type Scorer interface {
	Score(ctx context.Context, intent ScoreRequest) (models.RiskScore, error)
}

type ScoreRequest struct {
	UserID        string  `json:"user_id"`
	UserLevel     string  `json:"user_level"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	AccountNumber string  `json:"account_number"`
}

type scoreResponse struct {
	Risk models.RiskScore `json:"risk"`
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

func (c *Client) Score(ctx context.Context, intent ScoreRequest) (models.RiskScore, error) {
	body, err := json.Marshal(intent)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/score", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Log.Error("failed to close fraud response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if !result.Risk.Valid() {
		return "", fmt.Errorf("unknown risk label: %q", result.Risk)
	}

	return result.Risk, nil
}
