// Package garmin pulls daily health snapshots and activities from the
// Garmin Connect API and imports them with per-item deduplication.
package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

// Client is the surface the sync layer consumes. Every accessor covers one
// provider endpoint; failures of a single accessor degrade the snapshot
// instead of failing the day.
type Client interface {
	Connect(ctx context.Context, email, password string) error

	Stats(ctx context.Context, day time.Time) (map[string]any, error)
	SleepData(ctx context.Context, day time.Time) (map[string]any, error)
	HRVData(ctx context.Context, day time.Time) (map[string]any, error)
	StressData(ctx context.Context, day time.Time) (map[string]any, error)
	BodyBattery(ctx context.Context, start, end time.Time) ([]map[string]any, error)
	TrainingReadiness(ctx context.Context, day time.Time) (map[string]any, error)
	TrainingStatus(ctx context.Context, day time.Time) (map[string]any, error)
	MaxMetrics(ctx context.Context, day time.Time) (map[string]any, error)
	RespirationData(ctx context.Context, day time.Time) (map[string]any, error)
	SpO2Data(ctx context.Context, day time.Time) (map[string]any, error)

	ActivitiesByDate(ctx context.Context, start, end time.Time) ([]map[string]any, error)
}

type httpClient struct {
	log        *logger.Logger
	baseURL    string
	authURL    string
	httpc      *http.Client
	maxRetries int

	token       string
	displayName string
}

func NewHTTPClient(log *logger.Logger) Client {
	baseURL := os.Getenv("GARMIN_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://connectapi.garmin.com"
	}
	authURL := os.Getenv("GARMIN_AUTH_URL")
	if authURL == "" {
		authURL = "https://sso.garmin.com/api/login"
	}

	timeoutSec := 60
	if v := os.Getenv("GARMIN_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("GARMIN_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &httpClient{
		log:        log.With("client", "GarminClient"),
		baseURL:    baseURL,
		authURL:    authURL,
		httpc:      &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}
}

type garminHTTPError struct {
	StatusCode int
	Body       string
}

func (e *garminHTTPError) Error() string {
	return fmt.Sprintf("garmin http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var httpErr *garminHTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	return false
}

func jitterSleep(base time.Duration) time.Duration {
	// +/- 20%
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}

func (c *httpClient) doOnce(ctx context.Context, method, rawURL string, body any) ([]byte, *http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, &buf)
	if err != nil {
		return nil, nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, resp, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, resp, &garminHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, resp, nil
}

func (c *httpClient) do(ctx context.Context, method, rawURL string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, resp, err := c.doOnce(ctx, method, rawURL, body)
		if err == nil {
			if out == nil || len(raw) == 0 {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("garmin decode error: %w", uErr)
			}
			return nil
		}

		if !isRetryableErr(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := backoff
		if resp != nil {
			ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
			if ra != "" {
				if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
					sleepFor = time.Duration(secs) * time.Second
				}
			}
		}
		if sleepFor > 10*time.Second {
			sleepFor = 10 * time.Second
		}
		sleepFor = jitterSleep(sleepFor)

		c.log.Warn("Garmin request retrying",
			"url", rawURL,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

// Connect exchanges credentials for a bearer token and resolves the profile
// display name, which the wellness endpoints key on.
func (c *httpClient) Connect(ctx context.Context, email, password string) error {
	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"username": email, "password": password}
	if err := c.do(ctx, http.MethodPost, c.authURL, body, &loginResp); err != nil {
		return fmt.Errorf("garmin login failed: %w", err)
	}
	if loginResp.AccessToken == "" {
		return fmt.Errorf("garmin login returned no access token")
	}
	c.token = loginResp.AccessToken

	var profile struct {
		DisplayName string `json:"displayName"`
	}
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/userprofile-service/socialProfile", nil, &profile); err != nil {
		return fmt.Errorf("garmin profile lookup failed: %w", err)
	}
	if profile.DisplayName == "" {
		return fmt.Errorf("garmin profile has no display name")
	}
	c.displayName = profile.DisplayName

	c.log.Info("Garmin client connected", "display_name", c.displayName)
	return nil
}

func dateStr(day time.Time) string { return day.Format("2006-01-02") }

func (c *httpClient) getMap(ctx context.Context, path string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, c.baseURL+path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpClient) getList(ctx context.Context, path string) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, c.baseURL+path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpClient) Stats(ctx context.Context, day time.Time) (map[string]any, error) {
	return c.getMap(ctx, fmt.Sprintf("/usersummary-service/usersummary/daily/%s?calendarDate=%s",
		url.PathEscape(c.displayName), dateStr(day)))
}

func (c *httpClient) SleepData(ctx context.Context, day time.Time) (map[string]any, error) {
	return c.getMap(ctx, fmt.Sprintf("/wellness-service/wellness/dailySleepData/%s?date=%s",
		url.PathEscape(c.displayName), dateStr(day)))
}

func (c *httpClient) HRVData(ctx context.Context, day time.Time) (map[string]any, error) {
	return c.getMap(ctx, "/hrv-service/hrv/"+dateStr(day))
}

func (c *httpClient) StressData(ctx context.Context, day time.Time) (map[string]any, error) {
	return c.getMap(ctx, "/wellness-service/wellness/dailyStress/"+dateStr(day))
}

func (c *httpClient) BodyBattery(ctx context.Context, start, end time.Time) ([]map[string]any, error) {
	return c.getList(ctx, fmt.Sprintf("/wellness-service/wellness/bodyBattery/reports/daily?startDate=%s&endDate=%s",
		dateStr(start), dateStr(end)))
}

func (c *httpClient) TrainingReadiness(ctx context.Context, day time.Time) (map[string]any, error) {
	// This endpoint answers with a one-element list.
	rows, err := c.getList(ctx, "/metrics-service/metrics/trainingreadiness/"+dateStr(day))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (c *httpClient) TrainingStatus(ctx context.Context, day time.Time) (map[string]any, error) {
	return c.getMap(ctx, "/metrics-service/metrics/trainingstatus/aggregated/"+dateStr(day))
}

func (c *httpClient) MaxMetrics(ctx context.Context, day time.Time) (map[string]any, error) {
	return c.getMap(ctx, fmt.Sprintf("/metrics-service/metrics/maxmet/daily/%s/%s", dateStr(day), dateStr(day)))
}

func (c *httpClient) RespirationData(ctx context.Context, day time.Time) (map[string]any, error) {
	return c.getMap(ctx, "/wellness-service/wellness/daily/respiration/"+dateStr(day))
}

func (c *httpClient) SpO2Data(ctx context.Context, day time.Time) (map[string]any, error) {
	return c.getMap(ctx, "/wellness-service/wellness/daily/spo2/"+dateStr(day))
}

func (c *httpClient) ActivitiesByDate(ctx context.Context, start, end time.Time) ([]map[string]any, error) {
	return c.getList(ctx, fmt.Sprintf(
		"/activitylist-service/activities/search/activities?startDate=%s&endDate=%s&start=0&limit=200",
		dateStr(start), dateStr(end)))
}
