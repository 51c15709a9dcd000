package cmd

import (
	"log/slog"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot builds command and query handlers on one unit of work
// factory and the outbound adapters.
type CompositionRoot struct {
	gormDB        *gorm.DB
	uowFactory    ports.UnitOfWorkFactory
	labelProvider ports.LabelProvider
	publisher     ports.EventPublisher
	logger        *slog.Logger
}

func NewCompositionRoot(
	gormDB *gorm.DB,
	labelProvider ports.LabelProvider,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		labelProvider: labelProvider,
		publisher:     publisher,
		logger:        logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	return commands.NewAdvanceOrderStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateReturnOrderCommandHandler() commands.ReturnOrderCommandHandler {
	return commands.NewReturnOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateOverrideStatusCommandHandler() commands.OverrideStatusCommandHandler {
	return commands.NewOverrideStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateResolveUpsellCommandHandler() commands.ResolveUpsellCommandHandler {
	var f commands.UpsellUoWFactory = FuncUpsellUoWFactory(func() commands.UpsellUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResolveUpsellCommandHandler(f)
}

func (c *CompositionRoot) CreateRemoveItemCommandHandler() commands.RemoveItemCommandHandler {
	return commands.NewRemoveItemCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateEvaluateReleaseCommandHandler() commands.EvaluateReleaseCommandHandler {
	return commands.NewEvaluateReleaseCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateManualReleaseCommandHandler() commands.ManualReleaseCommandHandler {
	return commands.NewManualReleaseCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateMatchBarcodeCommandHandler() commands.MatchBarcodeCommandHandler {
	var f commands.ScanUoWFactory = FuncScanUoWFactory(func() commands.ScanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMatchBarcodeCommandHandler(f)
}

func (c *CompositionRoot) CreateIssueCarrierLabelCommandHandler() commands.IssueCarrierLabelCommandHandler {
	return commands.NewIssueCarrierLabelCommandHandler(c.orderUoWFactory(), c.labelProvider)
}

func (c *CompositionRoot) CreateUploadLabelCommandHandler() commands.UploadLabelCommandHandler {
	return commands.NewUploadLabelCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateMarkLabelViewedCommandHandler() commands.MarkLabelViewedCommandHandler {
	return commands.NewMarkLabelViewedCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateMarkShippedCommandHandler() commands.MarkShippedCommandHandler {
	return commands.NewMarkShippedCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, c.publisher, c.logger.With("component", "outbox_relay"))
}

// orderReader reads aggregates outside any transaction.
func (c *CompositionRoot) orderReader() queries.OrderReader {
	return c.uowFactory.Create().OrderRepository()
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateTryFinalizeQueryHandler() queries.TryFinalizeQueryHandler {
	return queries.NewTryFinalizeQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateGetLogisticsQueueQueryHandler() queries.GetLogisticsQueueQueryHandler {
	return queries.NewGetLogisticsQueueQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreatePreCheckBarcodeQueryHandler() queries.PreCheckBarcodeQueryHandler {
	return queries.NewPreCheckBarcodeQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUpsellReportQueryHandler() queries.GetUpsellReportQueryHandler {
	return queries.NewGetUpsellReportQueryHandler(c.gormDB)
}

// HTTPHandlers wires every use case exposed by the HTTP adapter.
func (c *CompositionRoot) HTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		AdvanceOrderStatus: c.CreateAdvanceOrderStatusCommandHandler(),
		CancelOrder:        c.CreateCancelOrderCommandHandler(),
		ReturnOrder:        c.CreateReturnOrderCommandHandler(),
		OverrideStatus:     c.CreateOverrideStatusCommandHandler(),
		ResolveUpsell:      c.CreateResolveUpsellCommandHandler(),
		RemoveItem:         c.CreateRemoveItemCommandHandler(),
		EvaluateRelease:    c.CreateEvaluateReleaseCommandHandler(),
		ManualRelease:      c.CreateManualReleaseCommandHandler(),
		MatchBarcode:       c.CreateMatchBarcodeCommandHandler(),
		IssueCarrierLabel:  c.CreateIssueCarrierLabelCommandHandler(),
		UploadLabel:        c.CreateUploadLabelCommandHandler(),
		MarkLabelViewed:    c.CreateMarkLabelViewedCommandHandler(),
		MarkShipped:        c.CreateMarkShippedCommandHandler(),

		GetOrder:          c.CreateGetOrderQueryHandler(),
		TryFinalize:       c.CreateTryFinalizeQueryHandler(),
		GetLogisticsQueue: c.CreateGetLogisticsQueueQueryHandler(),
		PreCheckBarcode:   c.CreatePreCheckBarcodeQueryHandler(),
		GetUpsellReport:   c.CreateGetUpsellReportQueryHandler(),
	}
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUpsellUoWFactory func() commands.UpsellUoW

func (f FuncUpsellUoWFactory) Create() commands.UpsellUoW {
	return f()
}

type FuncScanUoWFactory func() commands.ScanUoW

func (f FuncScanUoWFactory) Create() commands.ScanUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
