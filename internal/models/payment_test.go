package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hearthledger/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestPaymentValidation() {
	family := suite.createTestFamily(models.Family{})

	tests := []struct {
		name    string
		payment models.Payment
		err     error
	}{
		{
			"amount must be positive",
			models.Payment{FamilyID: family.ID, Payee: "No amount"},
			models.ErrAmountNotPositive,
		},
		{
			"status must be valid",
			models.Payment{FamilyID: family.ID, Payee: "Bad status", Amount: decimal.NewFromFloat(10), Status: "done"},
			models.ErrPaymentStatusInvalid,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.payment).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestPaymentDefaults() {
	family := suite.createTestFamily(models.Family{})

	nilID := uuid.Nil
	payment := suite.createTestPayment(models.Payment{
		FamilyID:           family.ID,
		Amount:             decimal.NewFromFloat(84.17),
		SpendingCategoryID: &nilID,
		TransactionID:      &nilID,
	})

	assert.Equal(suite.T(), models.PaymentStatusScheduled, payment.Status)
	assert.False(suite.T(), payment.DueDate.IsZero())
	assert.Equal(suite.T(), time.UTC, payment.DueDate.Location())

	// Pointers to the nil UUID are normalized to nil
	assert.Nil(suite.T(), payment.SpendingCategoryID)
	assert.Nil(suite.T(), payment.TransactionID)
}

func (suite *TestSuiteStandard) TestPaymentAmounts() {
	family := suite.createTestFamily(models.Family{})
	event := suite.createTestIncomeEvent(models.IncomeEvent{
		FamilyID:       family.ID,
		Amount:         decimal.NewFromFloat(500),
		ReceivedAmount: decimal.NewFromFloat(500),
	})

	payment := suite.createTestPayment(models.Payment{
		FamilyID: family.ID,
		Amount:   decimal.NewFromFloat(200),
	})

	attributed, err := payment.AttributedAmount(models.DB)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), attributed.IsZero(), "attributed is %s", attributed)

	_ = suite.createTestPaymentAttribution(models.PaymentAttribution{
		PaymentID:     payment.ID,
		IncomeEventID: event.ID,
		Amount:        decimal.NewFromFloat(120),
	})

	remaining, err := payment.RemainingAmount(models.DB)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), remaining.Equal(decimal.NewFromFloat(80)), "remaining is %s", remaining)
}

func (suite *TestSuiteStandard) TestPaymentAttributionValidation() {
	family := suite.createTestFamily(models.Family{})
	event := suite.createTestIncomeEvent(models.IncomeEvent{
		FamilyID:       family.ID,
		Amount:         decimal.NewFromFloat(500),
		ReceivedAmount: decimal.NewFromFloat(500),
	})
	payment := suite.createTestPayment(models.Payment{
		FamilyID: family.ID,
		Amount:   decimal.NewFromFloat(200),
	})

	attribution := models.PaymentAttribution{
		PaymentID:       payment.ID,
		IncomeEventID:   event.ID,
		Amount:          decimal.NewFromFloat(10),
		AttributionType: "guessed",
	}

	err := models.DB.Create(&attribution).Error
	assert.ErrorIs(suite.T(), err, models.ErrAttributionTypeInvalid)

	attribution.AttributionType = models.AttributionTypeManual
	attribution.Amount = decimal.Zero
	err = models.DB.Create(&attribution).Error
	assert.ErrorIs(suite.T(), err, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestPaymentAttributionDefaultType() {
	family := suite.createTestFamily(models.Family{})
	event := suite.createTestIncomeEvent(models.IncomeEvent{
		FamilyID:       family.ID,
		Amount:         decimal.NewFromFloat(500),
		ReceivedAmount: decimal.NewFromFloat(500),
	})
	payment := suite.createTestPayment(models.Payment{
		FamilyID: family.ID,
		Amount:   decimal.NewFromFloat(200),
	})

	attribution := suite.createTestPaymentAttribution(models.PaymentAttribution{
		PaymentID:     payment.ID,
		IncomeEventID: event.ID,
		Amount:        decimal.NewFromFloat(10),
	})

	assert.Equal(suite.T(), models.AttributionTypeAutomatic, attribution.AttributionType)
}
