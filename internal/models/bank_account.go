package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankAccount represents a connected bank account. Transactions are
// imported into it by bank sync, its balance is never stored but
// always computed from the initial balance and the transactions.
type BankAccount struct {
	DefaultModel
	FamilyID       uuid.UUID
	Family         Family `json:"-"`
	Name           string
	Institution    string
	InitialBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Archived       bool
}

func (a *BankAccount) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BankAccount)
	return a.checkIntegrity(tx, *toSave)
}

func (a *BankAccount) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("FamilyID") {
		toSave := tx.Statement.Dest.(BankAccount)
		return a.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (a *BankAccount) checkIntegrity(tx *gorm.DB, toSave BankAccount) error {
	return tx.First(&Family{}, toSave.FamilyID).Error
}

func (a *BankAccount) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Institution = strings.TrimSpace(a.Institution)

	return nil
}

// Balance returns the account balance at the end of the given instant.
// A zero time returns the current balance.
func (a BankAccount) Balance(db *gorm.DB, until time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	q := db.Model(&Transaction{}).
		Where("bank_account_id = ?", a.ID).
		Select("SUM(amount)")

	if !until.IsZero() {
		q = q.Where("date <= ?", until.In(time.UTC))
	}

	err := q.Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return a.InitialBalance.Add(sum.Decimal), nil
}
