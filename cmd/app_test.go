package cmd_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parceltrack/cmd"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/clock"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var startedAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func memoryConfig() cmd.Config {
	return cmd.Config{
		HTTPPort:        "0",
		StorageDriver:   cmd.StorageMemory,
		AlertSink:       cmd.AlertSinkLog,
		AlertQueueSize:  16,
		StatsCacheTTL:   time.Minute,
		JWTSecret:       "app-test-secret",
		OverdueSchedule: "@every 1h",
		WeekStartDay:    int(time.Monday),
		Timezone:        "UTC",
		LogLevel:        "info",
		AppEnv:          "test",
		PricingBaseCost: 150,
	}
}

// testApp is a running application on the in-memory driver.
type testApp struct {
	root  *cmd.CompositionRoot
	e     *echo.Echo
	clock *clock.Fixed
	token string
}

func newTestApp(cfg cmd.Config, logger *zap.Logger) (*testApp, error) {
	clk := clock.NewFixed(startedAt)
	root, err := cmd.NewCompositionRoot(cfg, logger, clk)
	if err != nil {
		return nil, err
	}
	if err := root.Start(); err != nil {
		return nil, err
	}
	e, err := root.Router()
	if err != nil {
		return nil, err
	}

	app := &testApp{root: root, e: e, clock: clk}
	if err := app.signIn(kernel.NewUUID()); err != nil {
		return nil, err
	}
	return app, nil
}

func startApp(t *testing.T, cfg cmd.Config, logger *zap.Logger) *testApp {
	t.Helper()
	app, err := newTestApp(cfg, logger)
	require.NoError(t, err)
	return app
}

func (a *testApp) signIn(owner kernel.UUID) error {
	token, err := a.root.Identities().Issue(owner, true, false, 24*time.Hour)
	if err != nil {
		return err
	}
	a.token = token
	return nil
}

func (a *testApp) call(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+a.token)

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func newDeliveryBody(total string) string {
	return `{
		"customer":{"name":"Jo Doe"},
		"pickupAddress":{"street":"1 Road","city":"Town","coordinates":{"lat":52.52,"lng":13.405}},
		"deliveryAddress":{"street":"2 Road","city":"Town","coordinates":{"lat":52.50,"lng":13.45}},
		"package":{"type":"medium","weight":7},
		"schedule":{"pickupDate":"2026-03-11T09:00:00Z","deliveryDate":"2026-03-12T17:00:00Z"},
		"pricing":{"totalCost":` + total + `}
	}`
}

type overviewBody struct {
	Total      int             `json:"total"`
	Completed  int             `json:"completed"`
	InProgress int             `json:"inProgress"`
	Revenue    decimal.Decimal `json:"revenue"`
}

func TestApplication_MemoryLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.RedisAddr = mr.Addr()

	core, logs := observer.New(zapcore.InfoLevel)
	app := startApp(t, cfg, zap.New(core))

	rec := app.call(http.MethodPost, "/api/v1/deliveries", newDeliveryBody("280"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		DeliveryID string `json:"deliveryId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	base := "/api/v1/deliveries/" + created.DeliveryID

	rec = app.call(http.MethodGet, "/api/v1/stats/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var before overviewBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	assert.Equal(t, 1, before.Total)
	assert.Zero(t, before.Completed)
	assert.NotEmpty(t, mr.Keys(), "overview is cached")

	app.clock.Advance(time.Hour)
	require.Equal(t, http.StatusOK, app.call(http.MethodPost, base+"/transitions", `{"status":"Picked Up"}`).Code)
	app.clock.Advance(time.Hour)
	require.Equal(t, http.StatusOK, app.call(http.MethodPost, base+"/transitions", `{"status":"Delivered"}`).Code)
	require.Equal(t, http.StatusOK, app.call(http.MethodPost, base+"/proof", `{"signature":"J. Doe"}`).Code)

	rec = app.call(http.MethodGet, "/api/v1/stats/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var after overviewBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, 1, after.Total)
	assert.Equal(t, 1, after.Completed)
	assert.True(t, after.Revenue.Equal(decimal.NewFromInt(280)), after.Revenue.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.root.Close(ctx))

	for _, title := range []string{"Delivery scheduled", "Delivery status updated", "Delivery completed", "Revenue earned"} {
		assert.Positive(t, logs.FilterMessage(title).Len(), title)
	}
}

func TestApplication_OverdueJob(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := startApp(t, memoryConfig(), zap.New(core))

	require.Equal(t, http.StatusCreated, app.call(http.MethodPost, "/api/v1/deliveries", newDeliveryBody("90")).Code)

	app.clock.Advance(72 * time.Hour)
	handler := app.root.CreateRemindOverdueDeliveriesCommandHandler()
	cmdOverdue, err := newOverdueCommand()
	require.NoError(t, err)
	n, err := handler.Handle(context.Background(), cmdOverdue)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.root.Close(ctx))

	assert.Equal(t, 1, logs.FilterMessage("Delivery overdue").Len())
}

func TestNewCompositionRoot_Rejects(t *testing.T) {
	t.Run("postgres alerts without postgres storage", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.AlertSink = cmd.AlertSinkPostgres

		_, err := cmd.NewCompositionRoot(cfg, zap.NewNop(), clock.NewFixed(startedAt))
		require.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.JWTSecret = ""

		_, err := cmd.NewCompositionRoot(cfg, zap.NewNop(), clock.NewFixed(startedAt))
		require.Error(t, err)
	})
}

func newOverdueCommand() (commands.RemindOverdueDeliveriesCommand, error) {
	return commands.NewRemindOverdueDeliveriesCommand(0)
}
