package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hearthledger/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

// TestResourceNotFoundMessages verifies that the "record not found"
// error is translated into a message naming the resource.
func (suite *TestSuiteStandard) TestResourceNotFoundMessages() {
	tests := []struct {
		message string
		err     error
	}{
		{"there is no family matching your query", models.DB.First(&models.Family{}, uuid.New()).Error},
		{"there is no bank account matching your query", models.DB.First(&models.BankAccount{}, uuid.New()).Error},
		{"there is no income event matching your query", models.DB.First(&models.IncomeEvent{}, uuid.New()).Error},
		{"there is no budget category matching your query", models.DB.First(&models.BudgetCategory{}, uuid.New()).Error},
		{"there is no budget allocation matching your query", models.DB.First(&models.BudgetAllocation{}, uuid.New()).Error},
		{"there is no payment matching your query", models.DB.First(&models.Payment{}, uuid.New()).Error},
		{"there is no payment attribution matching your query", models.DB.First(&models.PaymentAttribution{}, uuid.New()).Error},
		{"there is no transaction matching your query", models.DB.First(&models.Transaction{}, uuid.New()).Error},
		{"there is no spending category matching your query", models.DB.First(&models.SpendingCategory{}, uuid.New()).Error},
		{"there is no category rule matching your query", models.DB.First(&models.CategoryRule{}, uuid.New()).Error},
	}

	for _, tt := range tests {
		suite.T().Run(tt.message, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, models.ErrResourceNotFound)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

// TestGeneralErrorOnClosedDB verifies that database errors that users
// cannot do anything about are replaced with a general error.
func (suite *TestSuiteStandard) TestGeneralErrorOnClosedDB() {
	suite.CloseDB()

	err := models.DB.First(&models.Family{}, uuid.New()).Error
	assert.ErrorIs(suite.T(), err, models.ErrGeneral)
}
