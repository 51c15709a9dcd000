package queries

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrGetUpsellReportQueryIsNotConstructed = errors.New(
	"GetUpsellReportQuery must be created via NewGetUpsellReportQuery constructor",
)

// GetUpsellReportQuery aggregates recorded up-sell decisions in [from, to).
type GetUpsellReportQuery struct {
	from  time.Time
	to    time.Time
	guard guard.ConstructorGuard
}

func NewGetUpsellReportQuery(from, to time.Time) (GetUpsellReportQuery, error) {
	if from.IsZero() || to.IsZero() {
		return GetUpsellReportQuery{}, errs.NewValueIsRequiredError("period")
	}
	if !from.Before(to) {
		return GetUpsellReportQuery{}, errs.NewValueIsOutOfRangeError("from", from, time.Time{}, to)
	}
	return GetUpsellReportQuery{from: from.UTC(), to: to.UTC(), guard: guard.NewConstructorGuard()}, nil
}

func (q GetUpsellReportQuery) Validate() error {
	return q.guard.Validate(ErrGetUpsellReportQueryIsNotConstructed)
}

func (q GetUpsellReportQuery) From() time.Time { return q.from }
func (q GetUpsellReportQuery) To() time.Time   { return q.to }

type GetUpsellReportQueryResponse struct {
	Decision   string
	Count      int
	TotalDelta string
}

type GetUpsellReportQueryHandler struct {
	db *gorm.DB
}

func NewGetUpsellReportQueryHandler(db *gorm.DB) GetUpsellReportQueryHandler {
	return GetUpsellReportQueryHandler{db: db}
}

// Handle returns one row per decision that occurred in the period, ordered
// keep, upgrade, free upgrade.
func (h GetUpsellReportQueryHandler) Handle(
	ctx context.Context,
	query GetUpsellReportQuery,
) ([]GetUpsellReportQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []struct {
		Decision   int
		Count      int
		TotalDelta decimal.Decimal
	}
	err := h.db.WithContext(ctx).Raw(`
		SELECT decision, count(*) AS count, coalesce(sum(delta), 0) AS total_delta
		FROM upsell_metrics
		WHERE recorded_at >= ? AND recorded_at < ?
		GROUP BY decision
		ORDER BY decision
	`, query.From(), query.To()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	report := make([]GetUpsellReportQueryResponse, 0, len(rows))
	for _, row := range rows {
		report = append(report, GetUpsellReportQueryResponse{
			Decision:   upsell.Decision(row.Decision).String(),
			Count:      row.Count,
			TotalDelta: row.TotalDelta.StringFixed(2),
		})
	}

	return report, nil
}
