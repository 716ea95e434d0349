package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction represents a bank-fed transaction. The amount is signed,
// negative amounts are debits.
//
// Transactions are created by bank sync and only ever mutated by the
// categorization operations.
type Transaction struct {
	DefaultModel
	FamilyID           uuid.UUID
	Family             Family `json:"-"`
	BankAccountID      uuid.UUID
	BankAccount        BankAccount `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Date               time.Time       // Time of day is currently only used for sorting
	Amount             decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	MerchantName       string
	Description        string
	SpendingCategoryID *uuid.UUID
	SpendingCategory   SpendingCategory `json:"-"`
	UserCategorized    bool
	CategoryConfidence float64 // 0..1, how confident the categorization is. 1 for user-driven assignments.
	Pending            bool
	ImportHash         string // The SHA256 hash of a unique combination of values to use in duplicate detection when importing transactions
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Transaction)
	return t.checkIntegrity(tx, *toSave)
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("FamilyID") || tx.Statement.Changed("BankAccountID") {
		toSave := tx.Statement.Dest.(Transaction)
		return t.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (t *Transaction) checkIntegrity(tx *gorm.DB, toSave Transaction) error {
	err := tx.First(&Family{}, toSave.FamilyID).Error
	if err != nil {
		return err
	}

	return tx.First(&BankAccount{}, toSave.BankAccountID).Error
}

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.MerchantName = strings.TrimSpace(t.MerchantName)
	t.Description = strings.TrimSpace(t.Description)
	t.ImportHash = strings.TrimSpace(t.ImportHash)

	if t.CategoryConfidence < 0 || t.CategoryConfidence > 1 {
		return ErrConfidenceRange
	}

	// Ensure that the category reference is nil and not a pointer to
	// the nil UUID when it is unset
	if t.SpendingCategoryID != nil && *t.SpendingCategoryID == uuid.Nil {
		t.SpendingCategoryID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}

// AfterFind enforces UTC for the transaction date.
func (t *Transaction) AfterFind(tx *gorm.DB) error {
	err := t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return nil
}
