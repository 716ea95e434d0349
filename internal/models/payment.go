package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statuses for Payment.
const (
	PaymentStatusScheduled = "scheduled"
	PaymentStatusPaid      = "paid"
	PaymentStatusOverdue   = "overdue"
)

// Payment is a scheduled obligation, e.g. a bill. Attributions link it
// to the income events that fund it, the optional transaction link
// records the bank transaction it was settled with.
type Payment struct {
	DefaultModel
	FamilyID           uuid.UUID
	Family             Family `json:"-"`
	Payee              string
	Amount             decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	DueDate            time.Time
	Status             string
	SpendingCategoryID *uuid.UUID
	SpendingCategory   SpendingCategory `json:"-"`
	TransactionID      *uuid.UUID
	Transaction        Transaction `json:"-"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Payment)
	return p.checkIntegrity(tx, *toSave)
}

func (p *Payment) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("FamilyID") {
		toSave := tx.Statement.Dest.(Payment)
		return p.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (p *Payment) checkIntegrity(tx *gorm.DB, toSave Payment) error {
	return tx.First(&Family{}, toSave.FamilyID).Error
}

func (p *Payment) BeforeSave(_ *gorm.DB) error {
	p.Payee = strings.TrimSpace(p.Payee)

	if p.Status == "" {
		p.Status = PaymentStatusScheduled
	}

	switch p.Status {
	case PaymentStatusScheduled, PaymentStatusPaid, PaymentStatusOverdue:
	default:
		return fmt.Errorf("%w: %s", ErrPaymentStatusInvalid, p.Status)
	}

	if !p.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	// Ensure that optional references are nil and not pointers to the
	// nil UUID when they are unset
	if p.SpendingCategoryID != nil && *p.SpendingCategoryID == uuid.Nil {
		p.SpendingCategoryID = nil
	}

	if p.TransactionID != nil && *p.TransactionID == uuid.Nil {
		p.TransactionID = nil
	}

	if p.DueDate.IsZero() {
		p.DueDate = time.Now().In(time.UTC)
	} else {
		p.DueDate = p.DueDate.In(time.UTC)
	}

	return nil
}

// AfterFind enforces UTC for the due date.
func (p *Payment) AfterFind(tx *gorm.DB) error {
	err := p.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	p.DueDate = p.DueDate.In(time.UTC)
	return nil
}

// AttributedAmount returns the sum of all attributions for this payment.
func (p Payment) AttributedAmount(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.Model(&PaymentAttribution{}).
		Where("payment_id = ?", p.ID).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

// RemainingAmount returns the part of the payment amount that is not
// yet attributed to any income event.
func (p Payment) RemainingAmount(db *gorm.DB) (decimal.Decimal, error) {
	attributed, err := p.AttributedAmount(db)
	if err != nil {
		return decimal.Zero, err
	}

	return p.Amount.Sub(attributed), nil
}
