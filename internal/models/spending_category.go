package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SpendingCategory is a category that payments and transactions are
// classified into. Categories form a tree via the parent reference and
// can optionally roll up into a budget category.
type SpendingCategory struct {
	DefaultModel
	FamilyID         uuid.UUID `gorm:"uniqueIndex:spending_category_family_name"`
	Family           Family    `json:"-"`
	BudgetCategoryID *uuid.UUID
	BudgetCategory   BudgetCategory `json:"-"`
	Name             string         `gorm:"uniqueIndex:spending_category_family_name"`
	Color            string
	Icon             string
	MonthlyTarget    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ParentCategoryID *uuid.UUID
	ParentCategory   *SpendingCategory `json:"-"`
	Archived         bool
}

func (c *SpendingCategory) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*SpendingCategory)
	return c.checkIntegrity(tx, *toSave)
}

func (c *SpendingCategory) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("FamilyID") || tx.Statement.Changed("ParentCategoryID") || tx.Statement.Changed("BudgetCategoryID") {
		toSave := tx.Statement.Dest.(SpendingCategory)

		if toSave.FamilyID == uuid.Nil {
			toSave.FamilyID = c.FamilyID
		}

		if toSave.ParentCategoryID != nil && *toSave.ParentCategoryID == c.ID {
			return ErrParentCategoryInvalid
		}

		return c.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (c *SpendingCategory) checkIntegrity(tx *gorm.DB, toSave SpendingCategory) error {
	err := tx.First(&Family{}, toSave.FamilyID).Error
	if err != nil {
		return err
	}

	// The parent has to be a spending category of the same family
	if toSave.ParentCategoryID != nil && *toSave.ParentCategoryID != uuid.Nil {
		var parent SpendingCategory
		err = tx.First(&parent, *toSave.ParentCategoryID).Error
		if err != nil {
			return err
		}

		if parent.FamilyID != toSave.FamilyID {
			return ErrParentCategoryInvalid
		}
	}

	if toSave.BudgetCategoryID != nil && *toSave.BudgetCategoryID != uuid.Nil {
		var budgetCategory BudgetCategory
		err = tx.First(&budgetCategory, *toSave.BudgetCategoryID).Error
		if err != nil {
			return err
		}

		if budgetCategory.FamilyID != toSave.FamilyID {
			return ErrParentCategoryInvalid
		}
	}

	return nil
}

func (c *SpendingCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Color = strings.TrimSpace(c.Color)
	c.Icon = strings.TrimSpace(c.Icon)

	if c.MonthlyTarget.IsNegative() {
		return ErrAmountNotPositive
	}

	// Ensure that optional references are nil and not pointers to the
	// nil UUID when they are unset
	if c.ParentCategoryID != nil && *c.ParentCategoryID == uuid.Nil {
		c.ParentCategoryID = nil
	}

	if c.BudgetCategoryID != nil && *c.BudgetCategoryID == uuid.Nil {
		c.BudgetCategoryID = nil
	}

	return nil
}

// BeforeDelete blocks the deletion while child categories, payments or
// transactions still reference the category.
func (c *SpendingCategory) BeforeDelete(tx *gorm.DB) error {
	var count int64

	err := tx.Model(&SpendingCategory{}).Where("parent_category_id = ?", c.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrSpendingCategoryInUse
	}

	err = tx.Model(&Payment{}).Where("spending_category_id = ?", c.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrSpendingCategoryInUse
	}

	err = tx.Model(&Transaction{}).Where("spending_category_id = ?", c.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrSpendingCategoryInUse
	}

	return nil
}
