package models_test

import (
	"github.com/hearthledger/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestSpendingCategoryNameUnique() {
	family := suite.createTestFamily(models.Family{})

	_ = suite.createTestSpendingCategory(models.SpendingCategory{
		FamilyID: family.ID,
		Name:     "Groceries",
	})

	category := models.SpendingCategory{
		FamilyID: family.ID,
		Name:     "Groceries",
	}

	err := models.DB.Create(&category).Error
	assert.ErrorIs(suite.T(), err, models.ErrSpendingCategoryNameNotUnique)
}

func (suite *TestSuiteStandard) TestSpendingCategoryMonthlyTargetNegative() {
	family := suite.createTestFamily(models.Family{})

	category := models.SpendingCategory{
		FamilyID:      family.ID,
		Name:          "Negative",
		MonthlyTarget: decimal.NewFromFloat(-1),
	}

	err := models.DB.Create(&category).Error
	assert.ErrorIs(suite.T(), err, models.ErrAmountNotPositive)
}

// The parent category has to belong to the same family.
func (suite *TestSuiteStandard) TestSpendingCategoryParentFamily() {
	family := suite.createTestFamily(models.Family{})
	other := suite.createTestFamily(models.Family{})

	parent := suite.createTestSpendingCategory(models.SpendingCategory{
		FamilyID: other.ID,
		Name:     "Other family",
	})

	category := models.SpendingCategory{
		FamilyID:         family.ID,
		Name:             "Child",
		ParentCategoryID: &parent.ID,
	}

	err := models.DB.Create(&category).Error
	assert.ErrorIs(suite.T(), err, models.ErrParentCategoryInvalid)
}

func (suite *TestSuiteStandard) TestSpendingCategoryDeleteBlocked() {
	family := suite.createTestFamily(models.Family{})
	account := suite.createTestBankAccount(models.BankAccount{FamilyID: family.ID})

	category := suite.createTestSpendingCategory(models.SpendingCategory{
		FamilyID: family.ID,
		Name:     "In use",
	})

	_ = suite.createTestTransaction(models.Transaction{
		FamilyID:           family.ID,
		BankAccountID:      account.ID,
		Amount:             decimal.NewFromFloat(-12.34),
		SpendingCategoryID: &category.ID,
	})

	err := models.DB.Delete(&category).Error
	assert.ErrorIs(suite.T(), err, models.ErrSpendingCategoryInUse)
}

func (suite *TestSuiteStandard) TestSpendingCategoryDeleteBlockedByChild() {
	family := suite.createTestFamily(models.Family{})

	parent := suite.createTestSpendingCategory(models.SpendingCategory{
		FamilyID: family.ID,
		Name:     "Parent",
	})

	_ = suite.createTestSpendingCategory(models.SpendingCategory{
		FamilyID:         family.ID,
		Name:             "Child",
		ParentCategoryID: &parent.ID,
	})

	err := models.DB.Delete(&parent).Error
	assert.ErrorIs(suite.T(), err, models.ErrSpendingCategoryInUse)
}

func (suite *TestSuiteStandard) TestSpendingCategoryDeleteUnused() {
	family := suite.createTestFamily(models.Family{})

	category := suite.createTestSpendingCategory(models.SpendingCategory{
		FamilyID: family.ID,
		Name:     "Unused",
	})

	err := models.DB.Delete(&category).Error
	assert.Nil(suite.T(), err)
}
