package show

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"cinema-wallet/config"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gateway implements ports.ShowGateway against the cinema-show service's
// REST API. Both calls are PATCHes on reservation sub-resources and are
// idempotent on the show side, so saga retries are safe.
type Gateway struct {
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewGateway creates a Gateway from config.
func NewGateway(cfg config.ShowConfig, log zerolog.Logger) *Gateway {
	return &Gateway{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// NewGatewayWithClient creates a Gateway with a custom HTTP client.
func NewGatewayWithClient(baseURL string, client HTTPClient, log zerolog.Logger) *Gateway {
	return &Gateway{baseURL: baseURL, httpClient: client, log: log}
}

// ConfirmReservation marks a seat reservation as paid on the show side.
func (g *Gateway) ConfirmReservation(ctx context.Context, showID, reservationID string) error {
	url := fmt.Sprintf("%s/cinema-show/%s/confirm-reservation/%s", g.baseURL, showID, reservationID)
	return g.patch(ctx, url)
}

// CancelReservation releases a seat reservation on the show side.
func (g *Gateway) CancelReservation(ctx context.Context, showID, reservationID string) error {
	url := fmt.Sprintf("%s/cinema-show/%s/cancel-reservation/%s", g.baseURL, showID, reservationID)
	return g.patch(ctx, url)
}

func (g *Gateway) patch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return fmt.Errorf("build show request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call show service: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("show service returned %d for %s", resp.StatusCode, url)
	}

	g.log.Debug().Str("url", url).Int("status", resp.StatusCode).Msg("show service call succeeded")
	return nil
}
