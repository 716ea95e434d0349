package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var percentageLimit = decimal.NewFromInt(100)

// BudgetCategory is a budget envelope. Each income event is split
// across the active categories of its family according to their
// target percentages.
type BudgetCategory struct {
	DefaultModel
	FamilyID         uuid.UUID `gorm:"uniqueIndex:budget_category_family_name"`
	Family           Family    `json:"-"`
	Name             string    `gorm:"uniqueIndex:budget_category_family_name"`
	TargetPercentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Color            string
	SortOrder        uint
	Archived         bool
}

func (c *BudgetCategory) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BudgetCategory)
	err := c.checkIntegrity(tx, *toSave)
	if err != nil {
		return err
	}

	if toSave.Archived {
		return nil
	}

	return checkTargetSum(tx, toSave.FamilyID, c.ID, toSave.TargetPercentage)
}

func (c *BudgetCategory) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(BudgetCategory)
	if !ok {
		return nil
	}

	if tx.Statement.Changed("FamilyID") {
		err := c.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("TargetPercentage", "Archived") {
		archived := c.Archived
		if tx.Statement.Changed("Archived") {
			archived = toSave.Archived
		}

		// Archived categories do not count towards the target sum
		if archived {
			return nil
		}

		target := c.TargetPercentage
		if tx.Statement.Changed("TargetPercentage") {
			target = toSave.TargetPercentage
		}

		return checkTargetSum(tx, c.FamilyID, c.ID, target)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (c *BudgetCategory) checkIntegrity(tx *gorm.DB, toSave BudgetCategory) error {
	return tx.First(&Family{}, toSave.FamilyID).Error
}

func (c *BudgetCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Color = strings.TrimSpace(c.Color)

	if c.TargetPercentage.IsNegative() || c.TargetPercentage.GreaterThan(percentageLimit) {
		return ErrPercentageRange
	}

	return nil
}

// checkTargetSum verifies that the target percentages of all active
// budget categories of the family do not exceed 100 when the category
// being saved has the given target percentage.
func checkTargetSum(tx *gorm.DB, familyID, selfID uuid.UUID, target decimal.Decimal) error {
	if target.IsNegative() || target.GreaterThan(percentageLimit) {
		return ErrPercentageRange
	}

	var sum decimal.NullDecimal
	err := tx.Model(&BudgetCategory{}).
		Where("family_id = ? AND archived = ? AND id != ?", familyID, false, selfID).
		Select("SUM(target_percentage)").
		Row().
		Scan(&sum)
	if err != nil {
		return err
	}

	if sum.Decimal.Add(target).GreaterThan(percentageLimit) {
		return ErrOverallocation
	}

	return nil
}

// ActiveBudgetCategories returns all active budget categories of a
// family, ordered by sort order with the ID as tie break to keep the
// order deterministic.
func ActiveBudgetCategories(db *gorm.DB, familyID uuid.UUID) ([]BudgetCategory, error) {
	var categories []BudgetCategory

	err := db.
		Where(&BudgetCategory{FamilyID: familyID}).
		Where("archived = ?", false).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}
