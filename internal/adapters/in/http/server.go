// Package http exposes the fulfillment commands and queries over HTTP with
// echo. Handlers translate requests into validated commands and map domain
// errors to status codes; they hold no business rules.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/scan"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OperatorHeader identifies the operator performing scans, up-sell
// decisions and status overrides.
const OperatorHeader = "X-Operator-ID"

// Handler is satisfied by every command and query handler.
type Handler[Req, Res any] interface {
	Handle(ctx context.Context, req Req) (Res, error)
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder        Handler[commands.CreateOrderCommand, commands.CreateOrderResult]
	AdvanceOrderStatus Handler[commands.AdvanceOrderStatusCommand, *order.Order]
	CancelOrder        Handler[commands.CancelOrderCommand, *order.Order]
	ReturnOrder        Handler[commands.ReturnOrderCommand, *order.Order]
	OverrideStatus     Handler[commands.OverrideStatusCommand, *order.Order]
	ResolveUpsell      Handler[commands.ResolveUpsellCommand, commands.ResolveUpsellResult]
	RemoveItem         Handler[commands.RemoveItemCommand, *order.Order]
	EvaluateRelease    Handler[commands.EvaluateReleaseCommand, services.ReleaseOutcome]
	ManualRelease      Handler[commands.ManualReleaseCommand, *order.Order]
	MatchBarcode       Handler[commands.MatchBarcodeCommand, scan.Match]
	IssueCarrierLabel  Handler[commands.IssueCarrierLabelCommand, *order.Order]
	UploadLabel        Handler[commands.UploadLabelCommand, *order.Order]
	MarkLabelViewed    Handler[commands.MarkLabelViewedCommand, *order.Order]
	MarkShipped        Handler[commands.MarkShippedCommand, *order.Order]

	GetOrder          Handler[queries.GetOrderQuery, queries.GetOrderQueryResponse]
	TryFinalize       Handler[queries.TryFinalizeQuery, services.Readiness]
	GetLogisticsQueue Handler[queries.GetLogisticsQueueQuery, []queries.GetLogisticsQueueQueryResponse]
	PreCheckBarcode   Handler[queries.PreCheckBarcodeQuery, queries.PreCheckBarcodeQueryResponse]
	GetUpsellReport   Handler[queries.GetUpsellReportQuery, []queries.GetUpsellReportQueryResponse]
}

// Server serves the fulfillment API.
type Server struct {
	h       Handlers
	events  ports.EventSubscriber
	logger  *slog.Logger
	metrics *Metrics
}

func NewServer(h Handlers, events ports.EventSubscriber, metrics *Metrics, logger *slog.Logger) *Server {
	return &Server{
		h:       h,
		events:  events,
		logger:  logger.With("component", "http"),
		metrics: metrics,
	}
}

// NewEcho builds an echo instance with middleware and every route registered.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Request and error logging goes through slog.
	e.Logger.SetLevel(log.OFF)
	e.HTTPErrorHandler = s.handleError

	s.useMiddleware(e)
	s.Register(e)
	return e
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.gatherer, promhttp.HandlerOpts{})))

	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/:id", s.GetOrder)
	v1.POST("/orders/:id/status", s.AdvanceOrderStatus)
	v1.POST("/orders/:id/cancel", s.CancelOrder)
	v1.POST("/orders/:id/return", s.ReturnOrder)
	v1.POST("/orders/:id/override", s.OverrideStatus)
	v1.DELETE("/orders/:id/items/:itemId", s.RemoveItem)

	v1.POST("/items/:id/upsell", s.ResolveUpsell)
	v1.POST("/orders/:id/release/evaluate", s.EvaluateRelease)
	v1.POST("/orders/:id/release", s.ManualRelease)

	v1.POST("/scans", s.MatchBarcode)
	v1.POST("/items/:id/precheck", s.PreCheckBarcode)

	v1.GET("/orders/:id/finalize", s.TryFinalize)
	v1.POST("/orders/:id/labels/issue", s.IssueCarrierLabel)
	v1.POST("/orders/:id/labels", s.UploadLabel)
	v1.POST("/orders/:id/labels/:labelId/viewed", s.MarkLabelViewed)
	v1.POST("/orders/:id/ship", s.MarkShipped)

	v1.GET("/logistics/queue", s.GetLogisticsQueue)
	v1.GET("/reports/upsell", s.GetUpsellReport)
	v1.GET("/events", s.StreamEvents)
}
