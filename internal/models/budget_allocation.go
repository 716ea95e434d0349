package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetAllocation is the portion of one income event assigned to one
// budget category. Allocations are derived records: they are only ever
// written by the allocation engine, which replaces all allocations of
// an income event atomically. Re-allocation therefore hard-deletes the
// previous rows instead of soft-deleting them, the unique index would
// otherwise block the replacement.
type BudgetAllocation struct {
	DefaultModel
	IncomeEventID    uuid.UUID      `gorm:"uniqueIndex:allocation_event_category"`
	IncomeEvent      IncomeEvent    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BudgetCategoryID uuid.UUID      `gorm:"uniqueIndex:allocation_event_category"`
	BudgetCategory   BudgetCategory `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Amount           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Percentage       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (a *BudgetAllocation) BeforeSave(_ *gorm.DB) error {
	if a.Amount.IsNegative() {
		return ErrAmountNotPositive
	}

	return nil
}
