package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ReadModelQueriesTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *ReadModelQueriesTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres.Migrate(db))
	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *ReadModelQueriesTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ReadModelQueriesTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_labels, scan_ledger, upsell_metrics, outbox_messages",
	).Error
	suite.Require().NoError(err)
}

func (suite *ReadModelQueriesTestSuite) TestLogisticsQueue_UrgentThenOldest() {
	ctx := context.Background()
	base := time.Now().Add(-3 * time.Hour).UTC()

	oldRegular := suite.store(false, base, true, "1", "2")
	newUrgent := suite.store(true, base.Add(2*time.Hour), true, "3")
	oldUrgent := suite.store(true, base.Add(time.Hour), true, "4")
	suite.store(true, base, false, "5")

	suite.scan(oldRegular, 0)

	query, err := queries.NewGetLogisticsQueueQuery(10)
	suite.Require().NoError(err)

	queue, err := queries.NewGetLogisticsQueueQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(queue, 3, "orders outside logistics are not queued")
	suite.Equal(oldUrgent.ID(), queue[0].OrderID)
	suite.Equal(newUrgent.ID(), queue[1].OrderID)
	suite.Equal(oldRegular.ID(), queue[2].OrderID)
	suite.Equal(2, queue[2].ItemCount)
	suite.Equal(1, queue[2].Unscanned)
	suite.Equal(order.ManualLabel.String(), queue[2].ShippingMode)
}

func (suite *ReadModelQueriesTestSuite) TestLogisticsQueue_Limit() {
	for range 3 {
		suite.store(false, time.Now(), true, "1")
	}

	query, err := queries.NewGetLogisticsQueueQuery(2)
	suite.Require().NoError(err)
	queue, err := queries.NewGetLogisticsQueueQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Len(queue, 2)

	_, err = queries.NewGetLogisticsQueueQuery(0)
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *ReadModelQueriesTestSuite) TestPreCheckBarcode() {
	ctx := context.Background()
	o := suite.store(false, time.Now(), true, "400123", "400124")
	suite.scan(o, 1)
	handler := queries.NewPreCheckBarcodeQueryHandler(suite.db)

	query, err := queries.NewPreCheckBarcodeQuery(o.Items()[0].ID(), " 400123 ")
	suite.Require().NoError(err)
	resp, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(resp.Matches)
	suite.False(resp.AlreadyScanned)

	query, err = queries.NewPreCheckBarcodeQuery(o.Items()[0].ID(), "400124")
	suite.Require().NoError(err)
	resp, err = handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.False(resp.Matches)

	query, err = queries.NewPreCheckBarcodeQuery(o.Items()[1].ID(), "400124")
	suite.Require().NoError(err)
	resp, err = handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(resp.AlreadyScanned)

	query, err = queries.NewPreCheckBarcodeQuery(kernel.NewUUID(), "400124")
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	var scanned int64
	suite.Require().NoError(suite.db.Table("order_items").Where("scanned_at IS NOT NULL").Count(&scanned).Error)
	suite.Equal(int64(1), scanned, "pre-check never claims a unit")
}

func (suite *ReadModelQueriesTestSuite) TestUpsellReport_GroupsByDecision() {
	ctx := context.Background()
	now := time.Now().UTC()
	o := suite.store(false, now, false, "1")

	suite.metric(o, upsell.Keep, "0", now.Add(-time.Minute))
	suite.metric(o, upsell.Upgrade, "15.00", now.Add(-time.Minute))
	suite.metric(o, upsell.Upgrade, "4.50", now.Add(-time.Minute))
	suite.metric(o, upsell.FreeUpgrade, "0", now.Add(-time.Minute))
	suite.metric(o, upsell.Upgrade, "99.00", now.Add(-48*time.Hour))

	query, err := queries.NewGetUpsellReportQuery(now.Add(-time.Hour), now.Add(time.Hour))
	suite.Require().NoError(err)

	report, err := queries.NewGetUpsellReportQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(report, 3)
	suite.Equal(queries.GetUpsellReportQueryResponse{Decision: "keep", Count: 1, TotalDelta: "0.00"}, report[0])
	suite.Equal(queries.GetUpsellReportQueryResponse{Decision: "upgrade", Count: 2, TotalDelta: "19.50"}, report[1])
	suite.Equal(queries.GetUpsellReportQueryResponse{Decision: "free_upgrade", Count: 1, TotalDelta: "0.00"}, report[2])
}

func (suite *ReadModelQueriesTestSuite) TestUpsellReport_InvalidPeriod() {
	now := time.Now()

	_, err := queries.NewGetUpsellReportQuery(now, now.Add(-time.Hour))
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)

	_, err = queries.NewGetUpsellReportQuery(time.Time{}, now)
	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)
}

func (suite *ReadModelQueriesTestSuite) store(urgent bool, createdAt time.Time, logistics bool, codes ...string) *order.Order {
	items := make([]*order.Item, 0, len(codes))
	for _, code := range codes {
		ref, err := kernel.NewProductRef("p-"+code, "Product "+code, "", "")
		suite.Require().NoError(err)
		price, err := kernel.MoneyFromString("5.00")
		suite.Require().NoError(err)
		bc, err := kernel.NewBarcode(code)
		suite.Require().NoError(err)
		i, err := order.NewItem(kernel.NewUUID(), ref, price, bc, false)
		suite.Require().NoError(err)
		items = append(items, i)
	}

	o, err := order.NewOrder(kernel.NewUUID(), "SHOP-"+kernel.NewUUID().String(), urgent, order.ManualLabel, createdAt, items)
	suite.Require().NoError(err)
	if logistics {
		now := time.Now()
		suite.Require().NoError(o.StartProduction(now))
		suite.Require().NoError(o.MarkReadyForLogistics(now))
		suite.Require().NoError(o.StartLogistics(now))
	}

	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(context.Background(), o))
	return o
}

func (suite *ReadModelQueriesTestSuite) scan(o *order.Order, idx int) {
	item := o.Items()[idx]
	suite.Require().NoError(o.MarkItemScanned(item.ID(), item.ExpectedBarcode().String(), time.Now()))
	suite.Require().NoError(suite.factory.Create().OrderRepository().UpdateItem(context.Background(), o, item.ID()))
}

func (suite *ReadModelQueriesTestSuite) metric(o *order.Order, decision upsell.Decision, delta string, at time.Time) {
	from := o.Items()[0].Product()
	to := from
	if decision.ChangesProduct() {
		var err error
		to, err = kernel.NewProductRef(from.ProductID()+"-pro", from.ProductName()+" Pro", "", "")
		suite.Require().NoError(err)
	}
	var payment *upsell.Payment
	if decision == upsell.Upgrade {
		payment = &upsell.Payment{CapturedAt: at, Method: "card"}
	}
	m, err := upsell.NewMetric(kernel.NewUUID(), o.ID(), o.ExternalRef(), o.Items()[0].ID(), "op-1",
		from, to, decision, decimal.RequireFromString(delta), payment, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().UpsellMetricRepository().Append(context.Background(), m))
}

func TestReadModelQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(ReadModelQueriesTestSuite))
}
