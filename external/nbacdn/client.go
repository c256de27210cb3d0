// Package nbacdn fetches raw game payloads from the league's static CDN.
package nbacdn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/courtlog/nba-pbp/internal/platform/logging"
	"github.com/courtlog/nba-pbp/internal/platform/resilience"
	"github.com/courtlog/nba-pbp/internal/usecase"
)

const (
	defaultBaseURL = "https://cdn.nba.com/static/json"

	playByPlayPathFmt = "/liveData/playbyplay/playbyplay_%s.json"
	boxScorePathFmt   = "/liveData/boxscore/boxscore_%s.json"
	shotChartPathFmt  = "/liveData/shotchart/shotchart_%s.json"
	schedulePath      = "/staticData/scheduleLeagueV2.json"

	maxBodyBytes = 12 << 20
)

var errCDNTransient = crerr.New("nba cdn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client implements usecase.GameFetcher against the CDN feed endpoints.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) PlayByPlay(ctx context.Context, gameID string) (*usecase.CDNPlayByPlay, error) {
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}
	var payload usecase.CDNPlayByPlay
	if err := c.doJSON(ctx, fmt.Sprintf(playByPlayPathFmt, gameID), &payload); err != nil {
		return nil, fmt.Errorf("fetch play-by-play game_id=%s: %w", gameID, err)
	}
	return &payload, nil
}

func (c *Client) BoxScore(ctx context.Context, gameID string) (*usecase.CDNBoxScore, error) {
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}
	var payload usecase.CDNBoxScore
	if err := c.doJSON(ctx, fmt.Sprintf(boxScorePathFmt, gameID), &payload); err != nil {
		return nil, fmt.Errorf("fetch boxscore game_id=%s: %w", gameID, err)
	}
	return &payload, nil
}

func (c *Client) ShotChart(ctx context.Context, gameID string) (*usecase.CDNShotChart, error) {
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}
	var payload usecase.CDNShotChart
	if err := c.doJSON(ctx, fmt.Sprintf(shotChartPathFmt, gameID), &payload); err != nil {
		return nil, fmt.Errorf("fetch shot chart game_id=%s: %w", gameID, err)
	}
	return &payload, nil
}

func (c *Client) Schedule(ctx context.Context) (*usecase.CDNSchedule, error) {
	var payload usecase.CDNSchedule
	if err := c.doJSON(ctx, schedulePath, &payload); err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	return &payload, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nba cdn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: game data feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode feed payload: %v", usecase.ErrMalformedPayload, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errCDNTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errCDNTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errCDNTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "nba cdn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errCDNTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
