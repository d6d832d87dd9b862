package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinema-wallet/config"
	"cinema-wallet/internal/adapter/bus"
	httpHandler "cinema-wallet/internal/adapter/http/handler"
	redisStorage "cinema-wallet/internal/adapter/storage/redis"
	"cinema-wallet/internal/core/domain"
	"cinema-wallet/internal/service"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservationFixture(id string) domain.Reservation {
	return domain.Reservation{
		ReservationID: id,
		ShowID:        "show-1",
		WalletID:      "w1",
		Amount:        decimal.NewFromInt(100),
	}
}

// testApp runs the real HTTP stack (router, middleware, handlers, services)
// on in-memory storage, with rate limiting backed by miniredis.
type testApp struct {
	server *httptest.Server
	repo   *inMemoryReservationRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zerolog.Nop()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ps := bus.NewGoChannel(config.BusConfig{Buffer: 64}, log)
	t.Cleanup(func() { ps.Close() })

	store := newInMemoryEventStore()
	walletSvc := service.NewWalletService(store, bus.NewWalletPublisher(ps), log)

	repo := newInMemoryReservationRepo()
	projection := service.NewReservationProjection(repo, redisStorage.NewReservationCache(rdb), log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		ReservationSvc: projection,
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		Logger:         log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testApp{server: server, repo: repo}
}

func (app *testApp) do(t *testing.T, method, path string, body any) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, app.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "missing data envelope: %v", body)
	return d
}

func TestAPI_WalletLifecycle(t *testing.T) {
	app := newTestApp(t)

	// Create.
	resp, body := app.do(t, http.MethodPost, "/api/v1/wallets", map[string]any{
		"wallet_id":      "w1",
		"initial_amount": "100",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "wallet-created", data(t, body)["event_type"])
	assert.NotEmpty(t, body["request_id"])

	// Creating again conflicts.
	resp, body = app.do(t, http.MethodPost, "/api/v1/wallets", map[string]any{"wallet_id": "w1"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "WALLET_ALREADY_EXISTS", body["error_code"])

	// Deposit.
	resp, body = app.do(t, http.MethodPost, "/api/v1/wallets/w1/deposit", map[string]any{
		"command_id": "d1",
		"amount":     "50",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "funds-deposited", data(t, body)["event_type"])

	// Duplicate deposit command.
	resp, body = app.do(t, http.MethodPost, "/api/v1/wallets/w1/deposit", map[string]any{
		"command_id": "d1",
		"amount":     "50",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATED_COMMAND", body["error_code"])

	// Charge.
	resp, body = app.do(t, http.MethodPost, "/api/v1/wallets/w1/charge", map[string]any{
		"command_id": "c1",
		"expense_id": "e1",
		"amount":     "30",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "wallet-charged", data(t, body)["event_type"])

	// Charge beyond the balance: accepted, outcome is the rejection event.
	resp, body = app.do(t, http.MethodPost, "/api/v1/wallets/w1/charge", map[string]any{
		"command_id": "c2",
		"expense_id": "e2",
		"amount":     "100000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "wallet-charge-rejected", data(t, body)["event_type"])

	// Refund the first charge.
	resp, body = app.do(t, http.MethodPost, "/api/v1/wallets/w1/refund", map[string]any{
		"command_id": "r1",
		"expense_id": "e1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "wallet-refunded", data(t, body)["event_type"])
	assert.Equal(t, "30", data(t, body)["amount"])

	// Final state: 100 + 50 - 30 + 30 = 150, no open expenses.
	resp, body = app.do(t, http.MethodGet, "/api/v1/wallets/w1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "150", data(t, body)["balance"])
	assert.Empty(t, data(t, body)["expenses"])
}

func TestAPI_Validation(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/v1/wallets", map[string]any{
		"wallet_id": "bad id with spaces",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "REQ_001", body["error_code"])

	resp, body = app.do(t, http.MethodPost, "/api/v1/wallets", map[string]any{
		"wallet_id":      "w1",
		"initial_amount": "-5",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "REQ_001", body["error_code"])

	resp, _ = app.do(t, http.MethodPost, "/api/v1/wallets/w1/deposit", map[string]any{
		"amount": "10",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "command_id is required")
}

func TestAPI_UnknownWallet(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/api/v1/wallets/missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "WALLET_NOT_EXISTS", body["error_code"])

	resp, body = app.do(t, http.MethodPost, "/api/v1/wallets/missing/charge", map[string]any{
		"command_id": "c1",
		"expense_id": "e1",
		"amount":     "10",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "WALLET_NOT_EXISTS", body["error_code"])
}

func TestAPI_ReservationLookup(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/api/v1/reservations/r1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "RES_001", body["error_code"])

	// Fold a record directly into the read model; the endpoint serves it.
	require.NoError(t, app.repo.Upsert(context.Background(), reservationFixture("r1")))

	resp, body = app.do(t, http.MethodGet, "/api/v1/reservations/r1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "show-1", data(t, body)["show_id"])
	assert.Equal(t, "100", data(t, body)["amount"])
}

func TestAPI_RateLimit(t *testing.T) {
	app := newTestApp(t)

	// wallet_create allows 20 per minute per client.
	var lastStatus int
	for i := 0; i < 25; i++ {
		resp, _ := app.do(t, http.MethodPost, "/api/v1/wallets", map[string]any{
			"wallet_id": fmt.Sprintf("w%d", i),
		})
		lastStatus = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, lastStatus)
}

func TestAPI_Health(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}
