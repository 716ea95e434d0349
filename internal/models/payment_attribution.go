package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Attribution types for PaymentAttribution.
const (
	AttributionTypeManual    = "manual"
	AttributionTypeAutomatic = "automatic"
)

// PaymentAttribution records that a payment is funded, in whole or in
// part, by a specific income event.
//
// Attributions are immutable: reversing one deletes the record, the
// amount is never mutated. This keeps the funding history append-only
// and makes the sum invariants easy to reason about.
type PaymentAttribution struct {
	DefaultModel
	PaymentID       uuid.UUID
	Payment         Payment `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	IncomeEventID   uuid.UUID
	IncomeEvent     IncomeEvent `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AttributionType string
}

func (a *PaymentAttribution) BeforeSave(_ *gorm.DB) error {
	if a.AttributionType == "" {
		a.AttributionType = AttributionTypeAutomatic
	}

	switch a.AttributionType {
	case AttributionTypeManual, AttributionTypeAutomatic:
	default:
		return fmt.Errorf("%w: %s", ErrAttributionTypeInvalid, a.AttributionType)
	}

	if !a.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	return nil
}
