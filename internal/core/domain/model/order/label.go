package order

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrLabelIsNotConstructed = errors.New("Label must be created via NewLabel or RestoreLabel")

// LabelSource tells where a shipping label artifact came from.
type LabelSource int

const (
	UnknownLabelSource LabelSource = iota
	// CarrierLabel was issued by the carrier provider.
	CarrierLabel
	// UploadedLabel was uploaded by an operator ahead of shipping.
	UploadedLabel
)

func (s LabelSource) Validate() error {
	if s != CarrierLabel && s != UploadedLabel {
		return errs.NewValueIsInvalidError("labelSource")
	}
	return nil
}

func (s LabelSource) String() string {
	switch s {
	case CarrierLabel:
		return "carrier"
	case UploadedLabel:
		return "uploaded"
	default:
		return "unknown"
	}
}

// Label is a shipping label artifact attached to an order. Reference points
// at the artifact in file storage or at the carrier.
type Label struct {
	id            kernel.UUID
	reference     string
	source        LabelSource
	viewedAt      *time.Time
	createdAt     time.Time
	isConstructed bool
}

func NewLabel(id kernel.UUID, reference string, source LabelSource, createdAt time.Time) (*Label, error) {
	var errRef error
	if strings.TrimSpace(reference) == "" {
		errRef = errs.NewValueIsRequiredError("labelReference")
	}
	if err := errors.Join(id.Validate(), source.Validate(), errRef); err != nil {
		return nil, err
	}
	return &Label{
		id:            id,
		reference:     strings.TrimSpace(reference),
		source:        source,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

func RestoreLabel(id kernel.UUID, reference string, source LabelSource, createdAt time.Time, viewedAt *time.Time) (*Label, error) {
	l, err := NewLabel(id, reference, source, createdAt)
	if err != nil {
		return nil, err
	}
	l.viewedAt = viewedAt
	return l, nil
}

func (l *Label) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLabelIsNotConstructed
	}
	return nil
}

func (l *Label) ID() kernel.UUID      { return l.id }
func (l *Label) Reference() string    { return l.reference }
func (l *Label) Source() LabelSource  { return l.source }
func (l *Label) CreatedAt() time.Time { return l.createdAt }
func (l *Label) Viewed() bool         { return l.viewedAt != nil }

func (l *Label) ViewedAt() *time.Time {
	if l.viewedAt == nil {
		return nil
	}
	at := *l.viewedAt
	return &at
}

// markViewed keeps the first viewing time.
func (l *Label) markViewed(at time.Time) bool {
	if l.viewedAt != nil {
		return false
	}
	at = at.UTC()
	l.viewedAt = &at
	return true
}
