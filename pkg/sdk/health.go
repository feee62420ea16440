package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Health returns the service health report. A degraded service responds 503
// but still carries a report; that is returned without error, so callers
// inspect Status.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return HealthReport{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("GET /health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return HealthReport{}, apiError(resp)
	}

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("decode health response: %w", err)
	}
	return report, nil
}
