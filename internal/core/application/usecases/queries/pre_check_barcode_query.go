package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrPreCheckBarcodeQueryIsNotConstructed = errors.New(
	"PreCheckBarcodeQuery must be created via NewPreCheckBarcodeQuery constructor",
)

// PreCheckBarcodeQuery lets a scanning client check a code against a specific
// item before submitting the scan. It never claims or changes anything; the
// authoritative match is MatchBarcode.
type PreCheckBarcodeQuery struct {
	itemID kernel.UUID
	code   string
	guard  guard.ConstructorGuard
}

func NewPreCheckBarcodeQuery(itemID kernel.UUID, code string) (PreCheckBarcodeQuery, error) {
	var errCode error
	if strings.TrimSpace(code) == "" {
		errCode = errs.NewValueIsRequiredError("barcode")
	}
	if err := errors.Join(itemID.Validate(), errCode); err != nil {
		return PreCheckBarcodeQuery{}, err
	}
	return PreCheckBarcodeQuery{itemID: itemID, code: code, guard: guard.NewConstructorGuard()}, nil
}

func (q PreCheckBarcodeQuery) Validate() error {
	return q.guard.Validate(ErrPreCheckBarcodeQueryIsNotConstructed)
}

func (q PreCheckBarcodeQuery) ItemID() kernel.UUID { return q.itemID }
func (q PreCheckBarcodeQuery) Code() string        { return q.code }

type PreCheckBarcodeQueryResponse struct {
	ItemID         kernel.UUID
	Matches        bool
	AlreadyScanned bool
}

type PreCheckBarcodeQueryHandler struct {
	db *gorm.DB
}

func NewPreCheckBarcodeQueryHandler(db *gorm.DB) PreCheckBarcodeQueryHandler {
	return PreCheckBarcodeQueryHandler{db: db}
}

func (h PreCheckBarcodeQueryHandler) Handle(ctx context.Context, query PreCheckBarcodeQuery) (PreCheckBarcodeQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return PreCheckBarcodeQueryResponse{}, err
	}

	var row struct {
		ExpectedBarcode string
		ScannedAt       *time.Time
	}
	result := h.db.WithContext(ctx).Raw(
		"SELECT expected_barcode, scanned_at FROM order_items WHERE id = ?",
		query.ItemID().Bytes(),
	).Scan(&row)
	if result.Error != nil {
		return PreCheckBarcodeQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return PreCheckBarcodeQueryResponse{}, errs.NewObjectNotFoundError("item", query.ItemID().String())
	}

	expected, err := kernel.NewBarcode(row.ExpectedBarcode)
	if err != nil {
		return PreCheckBarcodeQueryResponse{}, err
	}

	return PreCheckBarcodeQueryResponse{
		ItemID:         query.ItemID(),
		Matches:        expected.Matches(query.Code()),
		AlreadyScanned: row.ScannedAt != nil,
	}, nil
}
