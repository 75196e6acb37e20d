package compress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"campusfaq/internal/port"
)

const defaultBaseURL = "https://api.scaledownai.com/v1/compress"

// retryable HTTP statuses, matching the upstream service's transient codes.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// ScaleDownClient calls the ScaleDown text-compression API with bounded
// retries and a deterministic local fallback. Callers never see an upstream
// failure: the result either came from the service or from the fallback.
type ScaleDownClient struct {
	baseURL    string
	apiKey     string
	maxRetries int
	backoff    time.Duration
	client     *http.Client
	limiter    *rate.Limiter
	fallback   *LocalCompressor
}

// ScaleDownConfig configures a ScaleDownClient. Zero values get sensible
// defaults; an empty APIKeyEnv (or unset variable) routes every call to the
// local fallback.
type ScaleDownConfig struct {
	BaseURL    string
	APIKeyEnv  string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	RateLimit  float64 // requests per second to the upstream API
}

// NewScaleDownClient creates a compression client.
func NewScaleDownClient(cfg ScaleDownConfig) *ScaleDownClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 2.0
	}

	apiKey := ""
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}

	return &ScaleDownClient{
		baseURL:    cfg.BaseURL,
		apiKey:     apiKey,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		fallback:   NewLocalCompressor(),
	}
}

type compressRequest struct {
	Text        string  `json:"text"`
	Mode        string  `json:"mode"`
	TargetRatio float64 `json:"target_ratio"`
}

type compressResponse struct {
	CompressedText string `json:"compressed_text"`
	Result         string `json:"result"`
}

// Compress tries the upstream service, retrying transient failures with
// backoff, and falls back locally on exhaustion. The returned text is always
// non-empty and no longer than the input.
func (c *ScaleDownClient) Compress(text string) (port.CompressResult, error) {
	if strings.TrimSpace(text) == "" {
		return port.CompressResult{}, fmt.Errorf("cannot compress empty text")
	}

	if c.apiKey == "" {
		return c.fallback.Compress(text)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.backoff * time.Duration(attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.client.Timeout)
		err := c.limiter.Wait(ctx)
		if err != nil {
			cancel()
			lastErr = err
			continue
		}

		compressed, retryable, err := c.callService(ctx, text)
		cancel()
		if err == nil {
			if compressed == "" || len(compressed) > len(text) {
				// Service returned something unusable; the contract is
				// non-empty and no longer than the original.
				break
			}
			return port.CompressResult{
				Text:  compressed,
				Ratio: 1 - float64(len(compressed))/float64(len(text)),
			}, nil
		}

		lastErr = err
		if !retryable {
			break
		}
	}

	if lastErr != nil {
		log.Printf("compression service unavailable, using local fallback: %v", lastErr)
	}
	return c.fallback.Compress(text)
}

func (c *ScaleDownClient) callService(ctx context.Context, text string) (compressed string, retryable bool, err error) {
	body, err := json.Marshal(compressRequest{Text: text, Mode: "extractive", TargetRatio: 0.4})
	if err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", retryableStatus[resp.StatusCode],
			fmt.Errorf("compression service returned status %d", resp.StatusCode)
	}

	var parsed compressResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to parse compression response: %w", err)
	}

	if parsed.CompressedText != "" {
		return parsed.CompressedText, false, nil
	}
	return parsed.Result, false, nil
}
