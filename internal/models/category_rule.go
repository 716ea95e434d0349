package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRule maps merchant names to a spending category with a glob
// pattern. Rules are evaluated in ascending priority order when
// suggesting categories for uncategorized transactions.
type CategoryRule struct {
	DefaultModel
	FamilyID           uuid.UUID
	Family             Family `json:"-"`
	Priority           uint
	Match              string // Glob pattern matched against the merchant name, e.g. "Rewe*"
	SpendingCategoryID uuid.UUID
	SpendingCategory   SpendingCategory `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (r *CategoryRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*CategoryRule)
	return r.checkIntegrity(tx, *toSave)
}

func (r *CategoryRule) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("FamilyID") || tx.Statement.Changed("SpendingCategoryID") {
		toSave := tx.Statement.Dest.(CategoryRule)

		if toSave.FamilyID == uuid.Nil {
			toSave.FamilyID = r.FamilyID
		}

		if toSave.SpendingCategoryID == uuid.Nil {
			toSave.SpendingCategoryID = r.SpendingCategoryID
		}

		return r.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (r *CategoryRule) checkIntegrity(tx *gorm.DB, toSave CategoryRule) error {
	err := tx.First(&Family{}, toSave.FamilyID).Error
	if err != nil {
		return err
	}

	var category SpendingCategory
	err = tx.First(&category, toSave.SpendingCategoryID).Error
	if err != nil {
		return err
	}

	if category.FamilyID != toSave.FamilyID {
		return ErrParentCategoryInvalid
	}

	return nil
}

func (r *CategoryRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	return nil
}
