package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/upsellrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/scan"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the unit of work and every repository
// against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_labels, scan_ledger, upsell_metrics, outbox_messages",
	).Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx), "commit without begin")
	suite.Require().Error(uow.Rollback(ctx), "rollback without begin")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx), "deferred rollback after commit")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_StoresOrderAndEvents() {
	ctx := context.Background()
	o := suite.newOrder(false, time.Now(), "4001", "4002")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(o.StartProduction(time.Now()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Empty(o.DomainEvents(), "events are cleared once stored")

	messages, err := suite.factory.Create().OutboxRepository().FetchUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(messages, 2)
	suite.Equal(string(order.EventOrderCreated), messages[0].EventType)
	suite.Equal(string(order.EventStatusChanged), messages[1].EventType)
	suite.Equal(o.ID(), messages[1].OrderID)

	var payload map[string]any
	suite.Require().NoError(json.Unmarshal(messages[1].Payload, &payload))
	suite.Equal(o.ID().String(), payload["orderId"])
	suite.Equal(string(order.EventStatusChanged), payload["type"])
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndEvents() {
	ctx := context.Background()
	o := suite.newOrder(false, time.Now(), "4001", "4002")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().Error(err)
	suite.assertCount("outbox_messages", 0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransaction_WritesImmediately() {
	ctx := context.Background()
	o := suite.newOrder(false, time.Now(), "4001", "4002")

	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.ID(), loaded.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLockCandidates_RankingFacts() {
	ctx := context.Background()
	older := time.Now().Add(-time.Hour).UTC()

	single := suite.newOrder(true, older, "777")
	mixed := suite.newOrder(false, time.Now().UTC(), "777", "777", "888")
	pending := suite.newOrder(false, older, "777")
	suite.toLogistics(single)
	suite.toLogistics(mixed)
	suite.addAll(single, mixed, pending)

	code, err := kernel.NewBarcode("777")
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	candidates, err := uow.ScanLedgerRepository().LockCandidates(ctx, code)
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 3, "pending orders are not in the logistics queue")

	byOrder := make(map[kernel.UUID][]scan.Candidate)
	for _, c := range candidates {
		byOrder[c.OrderID] = append(byOrder[c.OrderID], c)
	}
	suite.Require().Len(byOrder[single.ID()], 1)
	suite.True(byOrder[single.ID()][0].Urgent)
	suite.Equal(1, byOrder[single.ID()][0].Remaining)
	suite.Equal(1, byOrder[single.ID()][0].DistinctLines)
	suite.WithinDuration(older, byOrder[single.ID()][0].OrderCreatedAt, time.Second)

	suite.Require().Len(byOrder[mixed.ID()], 2)
	suite.Equal(3, byOrder[mixed.ID()][0].Remaining)
	suite.Equal(2, byOrder[mixed.ID()][0].DistinctLines)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLockCandidates_SkipsScannedItems() {
	ctx := context.Background()
	o := suite.newOrder(false, time.Now(), "777", "777")
	suite.toLogistics(o)
	suite.addAll(o)

	first := o.Items()[0]
	suite.Require().NoError(o.MarkItemScanned(first.ID(), "777", time.Now()))
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().UpdateItem(ctx, o, first.ID()))
	suite.Require().NoError(uow.Commit(ctx))

	code, err := kernel.NewBarcode("777")
	suite.Require().NoError(err)
	candidates, err := suite.factory.Create().ScanLedgerRepository().LockCandidates(ctx, code)
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)
	suite.Equal(o.Items()[1].ID(), candidates[0].ItemID)
	suite.Equal(1, candidates[0].Remaining)

	var scans int64
	suite.Require().NoError(suite.db.Table("outbox_messages").
		Where("event_type = ?", string(order.EventItemScanned)).Count(&scans).Error)
	suite.Equal(int64(1), scans)
}

type scanUoWFactory struct{ factory ports.UnitOfWorkFactory }

func (f scanUoWFactory) Create() commands.ScanUoW { return f.factory.Create() }

type scanOutcome struct {
	match scan.Match
	err   error
}

// scanConcurrently starts every scan of code at the same moment and returns
// their outcomes.
func (suite *UnitOfWorkIntegrationTestSuite) scanConcurrently(code string, operators ...string) []scanOutcome {
	handler := commands.NewMatchBarcodeCommandHandler(scanUoWFactory{factory: suite.factory})
	outcomes := make([]scanOutcome, len(operators))
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i, op := range operators {
		cmd, err := commands.NewMatchBarcodeCommand(code, op)
		suite.Require().NoError(err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			match, handleErr := handler.Handle(context.Background(), cmd)
			outcomes[i] = scanOutcome{match: match, err: handleErr}
		}()
	}
	close(start)
	wg.Wait()
	return outcomes
}

func (suite *UnitOfWorkIntegrationTestSuite) ledgerRowsPerItem() map[kernel.UUID]int {
	var rows []struct {
		ItemID uuid.UUID
		N      int
	}
	suite.Require().NoError(suite.db.Raw(
		"SELECT item_id, count(*) AS n FROM scan_ledger GROUP BY item_id",
	).Scan(&rows).Error)

	out := make(map[kernel.UUID]int, len(rows))
	for _, r := range rows {
		id, err := kernel.UUIDFromBytes(r.ItemID[:])
		suite.Require().NoError(err)
		out[id] = r.N
	}
	return out
}

func (suite *UnitOfWorkIntegrationTestSuite) TestMatchBarcode_ConcurrentScansClaimOneUnit() {
	o := suite.newOrder(false, time.Now(), "5150")
	suite.toLogistics(o)
	suite.addAll(o)

	outcomes := suite.scanConcurrently("5150", "op-1", "op-2")

	var matched, notFound int
	for _, out := range outcomes {
		switch {
		case out.err == nil:
			matched++
			suite.Equal(o.Items()[0].ID(), out.match.ItemID)
		case errors.Is(out.err, errs.ErrObjectNotFound):
			notFound++
		default:
			suite.Failf("unexpected scan error", "%v", out.err)
		}
	}
	suite.Equal(1, matched)
	suite.Equal(1, notFound)
	suite.Equal(map[kernel.UUID]int{o.Items()[0].ID(): 1}, suite.ledgerRowsPerItem())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestMatchBarcode_ConcurrentScansClaimDistinctUnits() {
	urgent := suite.newOrder(true, time.Now(), "6160")
	regular := suite.newOrder(false, time.Now().Add(-time.Hour), "6160")
	suite.toLogistics(urgent)
	suite.toLogistics(regular)
	suite.addAll(urgent, regular)

	outcomes := suite.scanConcurrently("6160", "op-1", "op-2")

	claimed := make(map[kernel.UUID]int)
	for _, out := range outcomes {
		suite.Require().NoError(out.err)
		claimed[out.match.ItemID]++
	}
	want := map[kernel.UUID]int{urgent.Items()[0].ID(): 1, regular.Items()[0].ID(): 1}
	suite.Equal(want, claimed)
	suite.Equal(want, suite.ledgerRowsPerItem())

	for _, o := range []*order.Order{urgent, regular} {
		stored, err := suite.factory.Create().OrderRepository().Get(context.Background(), o.ID())
		suite.Require().NoError(err)
		suite.True(stored.IsFullyScanned())
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestScanLedger_AppendAndList() {
	ctx := context.Background()
	o := suite.newOrder(false, time.Now(), "777")
	suite.addAll(o)
	code, err := kernel.NewBarcode("777")
	suite.Require().NoError(err)

	repo := suite.factory.Create().ScanLedgerRepository()
	for i := range 2 {
		entry, entryErr := scan.NewLedgerEntry(kernel.NewUUID(), o.ID(), o.Items()[0].ID(), code, "op-1",
			time.Now().Add(time.Duration(i)*time.Second))
		suite.Require().NoError(entryErr)
		suite.Require().NoError(repo.Append(ctx, entry))
	}

	entries, err := repo.ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.True(entries[0].ScannedAt().Before(entries[1].ScannedAt()))
	suite.Equal("op-1", entries[0].OperatorID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUpsellMetrics_AppendOnly() {
	ctx := context.Background()
	o := suite.newOrder(false, time.Now(), "4001", "4002")
	suite.addAll(o)

	from := o.Items()[0].Product()
	to, err := kernel.NewProductRef("desk-pro", "Desk Pro", "walnut", "Walnut")
	suite.Require().NoError(err)
	captured := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	keepMetric, err := upsell.NewMetric(kernel.NewUUID(), o.ID(), o.ExternalRef(), o.Items()[1].ID(), "op-2",
		o.Items()[1].Product(), o.Items()[1].Product(), upsell.Keep, decimal.Zero, nil, captured.Add(time.Minute))
	suite.Require().NoError(err)
	metric, err := upsell.NewMetric(kernel.NewUUID(), o.ID(), o.ExternalRef(), o.Items()[0].ID(), "op-2",
		from, to, upsell.Upgrade, decimal.RequireFromString("19.90"),
		&upsell.Payment{CapturedAt: captured, Method: "pix"}, captured)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.UpsellMetricRepository().Append(ctx, metric))
	suite.Require().NoError(uow.UpsellMetricRepository().Append(ctx, keepMetric))
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := upsellrepo.NewGormUpsellMetricRepository(suite.db).ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(stored, 2)
	suite.Equal(upsell.Upgrade, stored[0].Decision())
	suite.Equal("Walnut", stored[0].To().VariantName())
	suite.True(decimal.RequireFromString("19.90").Equal(stored[0].Delta()))
	suite.Require().NotNil(stored[0].Payment())
	suite.True(captured.Equal(stored[0].Payment().CapturedAt))
	suite.Equal("pix", stored[0].Payment().Method)
	suite.Equal(upsell.Keep, stored[1].Decision())
	suite.Nil(stored[1].Payment())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOutbox_FetchSkipsLockedAndMarks() {
	ctx := context.Background()
	suite.addAll(suite.newOrder(false, time.Now(), "1"), suite.newOrder(false, time.Now(), "2"))

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	defer func() { _ = first.Rollback(ctx) }()
	locked, err := first.OutboxRepository().FetchUnpublished(ctx, 1)
	suite.Require().NoError(err)
	suite.Require().Len(locked, 1)

	second := suite.factory.Create()
	suite.Require().NoError(second.Begin(ctx))
	others, err := second.OutboxRepository().FetchUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(others, 1)
	suite.NotEqual(locked[0].ID, others[0].ID)
	suite.Require().NoError(second.OutboxRepository().MarkPublished(ctx, []kernel.UUID{others[0].ID}, time.Now()))
	suite.Require().NoError(second.Commit(ctx))

	suite.Require().NoError(first.Rollback(ctx))
	remaining, err := suite.factory.Create().OutboxRepository().FetchUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(remaining, 1)
	suite.Equal(locked[0].ID, remaining[0].ID)
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(urgent bool, createdAt time.Time, codes ...string) *order.Order {
	items := make([]*order.Item, 0, len(codes))
	for _, code := range codes {
		ref, err := kernel.NewProductRef("p-"+code, "Product "+code, "", "")
		suite.Require().NoError(err)
		price, err := kernel.MoneyFromString("10.00")
		suite.Require().NoError(err)
		bc, err := kernel.NewBarcode(code)
		suite.Require().NoError(err)
		item, err := order.NewItem(kernel.NewUUID(), ref, price, bc, false)
		suite.Require().NoError(err)
		items = append(items, item)
	}

	o, err := order.NewOrder(kernel.NewUUID(), "SHOP-"+kernel.NewUUID().String(), urgent, order.ManualLabel, createdAt, items)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) toLogistics(o *order.Order) {
	now := time.Now()
	suite.Require().NoError(o.StartProduction(now))
	suite.Require().NoError(o.MarkReadyForLogistics(now))
	suite.Require().NoError(o.StartLogistics(now))
}

// addAll stores orders in one committed unit of work together with their
// pending events.
func (suite *UnitOfWorkIntegrationTestSuite) addAll(orders ...*order.Order) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	for _, o := range orders {
		suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	}
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) assertCount(table string, expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Table(table).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
