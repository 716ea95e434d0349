package models_test

import (
	"github.com/hearthledger/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestBudgetCategoryPercentageRange() {
	family := suite.createTestFamily(models.Family{})

	category := models.BudgetCategory{
		FamilyID:         family.ID,
		Name:             "Too much",
		TargetPercentage: decimal.NewFromFloat(100.01),
	}

	err := models.DB.Create(&category).Error
	assert.ErrorIs(suite.T(), err, models.ErrPercentageRange)

	category.TargetPercentage = decimal.NewFromFloat(-1)
	err = models.DB.Create(&category).Error
	assert.ErrorIs(suite.T(), err, models.ErrPercentageRange)
}

func (suite *TestSuiteStandard) TestBudgetCategoryOverallocation() {
	family := suite.createTestFamily(models.Family{})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:         family.ID,
		Name:             "Rent",
		TargetPercentage: decimal.NewFromFloat(60),
	})

	category := models.BudgetCategory{
		FamilyID:         family.ID,
		Name:             "Groceries",
		TargetPercentage: decimal.NewFromFloat(50),
	}

	err := models.DB.Create(&category).Error
	assert.ErrorIs(suite.T(), err, models.ErrOverallocation)
}

// Archived categories do not count towards the 100% limit.
func (suite *TestSuiteStandard) TestBudgetCategoryOverallocationArchived() {
	family := suite.createTestFamily(models.Family{})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:         family.ID,
		Name:             "Old rent",
		TargetPercentage: decimal.NewFromFloat(60),
		Archived:         true,
	})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:         family.ID,
		Name:             "Groceries",
		TargetPercentage: decimal.NewFromFloat(50),
	})
}

// The limit applies per family, other families are not affected.
func (suite *TestSuiteStandard) TestBudgetCategoryOverallocationOtherFamily() {
	first := suite.createTestFamily(models.Family{})
	second := suite.createTestFamily(models.Family{})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:         first.ID,
		Name:             "Rent",
		TargetPercentage: decimal.NewFromFloat(60),
	})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:         second.ID,
		Name:             "Rent",
		TargetPercentage: decimal.NewFromFloat(60),
	})
}

func (suite *TestSuiteStandard) TestBudgetCategoryNameUnique() {
	family := suite.createTestFamily(models.Family{})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID: family.ID,
		Name:     "Rent",
	})

	category := models.BudgetCategory{
		FamilyID: family.ID,
		Name:     "Rent",
	}

	err := models.DB.Create(&category).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetCategoryNameNotUnique)
}

func (suite *TestSuiteStandard) TestActiveBudgetCategoriesOrder() {
	family := suite.createTestFamily(models.Family{})

	second := suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:         family.ID,
		Name:             "Savings",
		TargetPercentage: decimal.NewFromFloat(20),
		SortOrder:        2,
	})

	first := suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:         family.ID,
		Name:             "Rent",
		TargetPercentage: decimal.NewFromFloat(50),
		SortOrder:        1,
	})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:  family.ID,
		Name:      "Archived",
		SortOrder: 0,
		Archived:  true,
	})

	categories, err := models.ActiveBudgetCategories(models.DB, family.ID)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), categories, 2)
	assert.Equal(suite.T(), first.ID, categories[0].ID)
	assert.Equal(suite.T(), second.ID, categories[1].ID)
}
