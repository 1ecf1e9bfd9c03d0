package http

import (
	"net/http"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oapi-codegen/runtime"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateDelivery     commands.CreateDeliveryCommandHandler
	TransitionDelivery commands.TransitionDeliveryCommandHandler
	UpdateTracking     commands.UpdateTrackingCommandHandler
	AttachProof        commands.AttachDeliveryProofCommandHandler
	ArchiveDelivery    commands.ArchiveDeliveryCommandHandler

	GetDelivery       queries.GetDeliveryQueryHandler
	ListDeliveries    queries.ListDeliveriesQueryHandler
	StatsOverview     queries.StatsOverviewQueryHandler
	DeliveryAnalytics queries.DeliveryAnalyticsQueryHandler
}

// Server translates HTTP requests into commands and queries.
// Every /api/v1 route acts on behalf of the authenticated owner.
type Server struct {
	handlers Handlers
	clock    clock.Clock
}

// NewServer creates a server dispatching to handlers.
func NewServer(handlers Handlers, clk clock.Clock) *Server {
	return &Server{handlers: handlers, clock: clk}
}

// NewRouter builds the echo instance with contract validation, bearer auth and docs.
func NewRouter(s *Server, identities ports.IdentityProvider, logger *zap.Logger) (*echo.Echo, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	if err := registerSwagger(doc); err != nil {
		return nil, err
	}
	validate, err := ContractValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Use(middleware.Recover())
	e.Validator = NewBodyValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", BearerAuth(identities), validate)
	api.POST("/deliveries", s.CreateDelivery)
	api.GET("/deliveries", s.ListDeliveries)
	api.GET("/deliveries/:deliveryId", s.GetDelivery)
	api.DELETE("/deliveries/:deliveryId", s.ArchiveDelivery)
	api.POST("/deliveries/:deliveryId/transitions", s.TransitionDelivery)
	api.PUT("/deliveries/:deliveryId/tracking", s.UpdateTracking)
	api.POST("/deliveries/:deliveryId/proof", s.AttachDeliveryProof)
	api.GET("/stats/overview", s.StatsOverview)
	api.GET("/stats/analytics", s.DeliveryAnalytics)

	return e, nil
}

// CreateDelivery handles POST /api/v1/deliveries.
func (s *Server) CreateDelivery(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var body CreateDeliveryRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}

	cmd, err := body.toCommand(principalIDs{ownerID: principal.OwnerID, actorID: principal.OwnerID.String()})
	if err != nil {
		return err
	}

	d, err := s.handlers.CreateDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, deliveryView(d, s.clock.Now()))
}

// ListDeliveries handles GET /api/v1/deliveries.
func (s *Server) ListDeliveries(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var (
		statusName  *string
		from, to    *time.Time
		page, limit *int
	)
	params := c.QueryParams()
	for name, dest := range map[string]any{
		"status": &statusName,
		"from":   &from,
		"to":     &to,
		"page":   &page,
		"limit":  &limit,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, params, dest); err != nil {
			return &contractError{details: []string{name}, cause: err}
		}
	}

	var status *delivery.Status
	if statusName != nil {
		st := delivery.StatusFromString(*statusName)
		status = &st
	}

	q, err := queries.NewListDeliveriesQuery(principal.OwnerID, status, from, to, valueOrZero(page), valueOrZero(limit))
	if err != nil {
		return err
	}

	res, err := s.handlers.ListDeliveries.Handle(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deliveryPage(res, s.clock.Now()))
}

// GetDelivery handles GET /api/v1/deliveries/{deliveryId}.
func (s *Server) GetDelivery(c echo.Context) error {
	principal, id, err := target(c)
	if err != nil {
		return err
	}

	q, err := queries.NewGetDeliveryQuery(principal.OwnerID, id)
	if err != nil {
		return err
	}

	d, err := s.handlers.GetDelivery.Handle(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deliveryView(d, s.clock.Now()))
}

// ArchiveDelivery handles DELETE /api/v1/deliveries/{deliveryId}.
func (s *Server) ArchiveDelivery(c echo.Context) error {
	principal, id, err := target(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewArchiveDeliveryCommand(principal.OwnerID, id)
	if err != nil {
		return err
	}

	if err := s.handlers.ArchiveDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TransitionDelivery handles POST /api/v1/deliveries/{deliveryId}/transitions.
func (s *Server) TransitionDelivery(c echo.Context) error {
	principal, id, err := target(c)
	if err != nil {
		return err
	}

	var body TransitionRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewTransitionDeliveryCommand(
		principal.OwnerID, id, delivery.StatusFromString(body.Status),
		body.Location, body.Notes, principal.OwnerID.String(),
	)
	if err != nil {
		return err
	}

	d, err := s.handlers.TransitionDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deliveryView(d, s.clock.Now()))
}

// UpdateTracking handles PUT /api/v1/deliveries/{deliveryId}/tracking.
func (s *Server) UpdateTracking(c echo.Context) error {
	principal, id, err := target(c)
	if err != nil {
		return err
	}

	var body TrackingRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}

	loc, err := body.location()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateTrackingCommand(principal.OwnerID, id, loc, body.EstimatedArrival)
	if err != nil {
		return err
	}

	d, err := s.handlers.UpdateTracking.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deliveryView(d, s.clock.Now()))
}

// AttachDeliveryProof handles POST /api/v1/deliveries/{deliveryId}/proof.
func (s *Server) AttachDeliveryProof(c echo.Context) error {
	principal, id, err := target(c)
	if err != nil {
		return err
	}

	var body ProofRequest
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewAttachDeliveryProofCommand(principal.OwnerID, id, body.Signature, body.Photo, body.Notes)
	if err != nil {
		return err
	}

	d, err := s.handlers.AttachProof.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deliveryView(d, s.clock.Now()))
}

// StatsOverview handles GET /api/v1/stats/overview.
func (s *Server) StatsOverview(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	q, err := queries.NewStatsOverviewQuery(principal.OwnerID)
	if err != nil {
		return err
	}

	res, err := s.handlers.StatsOverview.Handle(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// DeliveryAnalytics handles GET /api/v1/stats/analytics.
func (s *Server) DeliveryAnalytics(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	q, err := queries.NewDeliveryAnalyticsQuery(principal.OwnerID)
	if err != nil {
		return err
	}

	res, err := s.handlers.DeliveryAnalytics.Handle(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func target(c echo.Context) (ports.Principal, kernel.DeliveryID, error) {
	principal, err := principalFrom(c)
	if err != nil {
		return ports.Principal{}, "", err
	}
	id, err := kernel.ParseDeliveryID(c.Param("deliveryId"))
	if err != nil {
		return ports.Principal{}, "", err
	}
	return principal, id, nil
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
