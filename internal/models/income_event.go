package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statuses for IncomeEvent.
const (
	IncomeEventStatusScheduled = "scheduled"
	IncomeEventStatusReceived  = "received"
	IncomeEventStatusCancelled = "cancelled"
)

// IncomeEvent is a dated, amount-bearing record of expected or
// received income, e.g. a paycheck.
//
// The amount is what is expected, the received amount what actually
// arrived. Payment attributions only ever draw from the received
// amount, never from the expectation.
type IncomeEvent struct {
	DefaultModel
	FamilyID       uuid.UUID
	Family         Family `json:"-"`
	Name           string
	ScheduledDate  time.Time
	Amount         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ReceivedAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Status         string
}

func (i *IncomeEvent) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*IncomeEvent)
	return i.checkIntegrity(tx, *toSave)
}

func (i *IncomeEvent) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("FamilyID") {
		toSave := tx.Statement.Dest.(IncomeEvent)
		return i.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (i *IncomeEvent) checkIntegrity(tx *gorm.DB, toSave IncomeEvent) error {
	return tx.First(&Family{}, toSave.FamilyID).Error
}

func (i *IncomeEvent) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)

	if i.Status == "" {
		i.Status = IncomeEventStatusScheduled
	}

	switch i.Status {
	case IncomeEventStatusScheduled, IncomeEventStatusReceived, IncomeEventStatusCancelled:
	default:
		return fmt.Errorf("%w: %s", ErrIncomeStatusInvalid, i.Status)
	}

	if !i.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if i.ReceivedAmount.IsNegative() {
		return ErrReceivedAmountNegative
	}

	if i.ScheduledDate.IsZero() {
		i.ScheduledDate = time.Now().In(time.UTC)
	} else {
		i.ScheduledDate = i.ScheduledDate.In(time.UTC)
	}

	return nil
}

// AfterFind enforces UTC for the scheduled date.
func (i *IncomeEvent) AfterFind(tx *gorm.DB) error {
	err := i.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	i.ScheduledDate = i.ScheduledDate.In(time.UTC)
	return nil
}

// AttributedAmount returns the sum of all payment attributions funded
// by this income event.
func (i IncomeEvent) AttributedAmount(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.Model(&PaymentAttribution{}).
		Where("income_event_id = ?", i.ID).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

// RemainingBalance returns the part of the received amount that is not
// yet attributed to any payment.
func (i IncomeEvent) RemainingBalance(db *gorm.DB) (decimal.Decimal, error) {
	attributed, err := i.AttributedAmount(db)
	if err != nil {
		return decimal.Zero, err
	}

	return i.ReceivedAmount.Sub(attributed), nil
}

// AllocatedAmount returns the sum of all budget allocations for this
// income event.
func (i IncomeEvent) AllocatedAmount(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.Model(&BudgetAllocation{}).
		Where("income_event_id = ?", i.ID).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}
