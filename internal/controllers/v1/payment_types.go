package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hearthledger/backend/internal/engine"
	"github.com/hearthledger/backend/internal/models"
	hl_uuid "github.com/hearthledger/backend/internal/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentEditable represents all user configurable parameters
type PaymentEditable struct {
	FamilyID           uuid.UUID       `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`            // ID of the family the payment belongs to
	Payee              string          `json:"payee" example:"Stadtwerke" default:""`                              // Who the payment goes to
	Amount             decimal.Decimal `json:"amount" example:"84.17"`                                             // Amount of the payment
	DueDate            time.Time       `json:"dueDate" example:"2026-09-01T00:00:00Z"`                             // Date the payment is due
	Status             string          `json:"status" example:"scheduled" default:"scheduled" enums:"scheduled,paid,overdue"` // Status of the payment
	SpendingCategoryID *uuid.UUID      `json:"spendingCategoryId" example:"2c7ab97f-a68c-4cf1-a7c8-3b8c41c516ee"`  // ID of the spending category
	TransactionID      *uuid.UUID      `json:"transactionId" example:"6f02e3e2-0d2b-4e35-aefe-bbd2cc54a5e7"`       // ID of the bank transaction the payment was settled with
}

func (editable PaymentEditable) model() models.Payment {
	return models.Payment{
		FamilyID:           editable.FamilyID,
		Payee:              editable.Payee,
		Amount:             editable.Amount,
		DueDate:            editable.DueDate,
		Status:             editable.Status,
		SpendingCategoryID: editable.SpendingCategoryID,
		TransactionID:      editable.TransactionID,
	}
}

type PaymentLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/payments/1e777d24-3f5f-4c5d-8d4c-fbd8371ab7e9"`                  // The payment itself
	Attributions string `json:"attributions" example:"https://example.com/api/v1/payments/1e777d24-3f5f-4c5d-8d4c-fbd8371ab7e9/attributions"` // The attributions funding the payment
	MarkPaid     string `json:"markPaid" example:"https://example.com/api/v1/payments/1e777d24-3f5f-4c5d-8d4c-fbd8371ab7e9/mark-paid"`    // Mark the payment as paid
	Revert       string `json:"revert" example:"https://example.com/api/v1/payments/1e777d24-3f5f-4c5d-8d4c-fbd8371ab7e9/revert"`        // Revert a paid payment to scheduled
}

type Payment struct {
	models.DefaultModel
	PaymentEditable
	Links PaymentLinks `json:"links"`

	// These fields are computed
	AttributedAmount decimal.Decimal `json:"attributedAmount" example:"84.17"` // Sum of the attributions funding the payment
	RemainingAmount  decimal.Decimal `json:"remainingAmount" example:"0"`      // Payment amount not yet funded by attributions
}

func newPayment(c *gin.Context, db *gorm.DB, model models.Payment) (Payment, error) {
	url := c.GetString(string(models.DBContextURL))

	payment := Payment{
		DefaultModel: model.DefaultModel,
		PaymentEditable: PaymentEditable{
			FamilyID:           model.FamilyID,
			Payee:              model.Payee,
			Amount:             model.Amount,
			DueDate:            model.DueDate,
			Status:             model.Status,
			SpendingCategoryID: model.SpendingCategoryID,
			TransactionID:      model.TransactionID,
		},
		Links: PaymentLinks{
			Self:         fmt.Sprintf("%s/v1/payments/%s", url, model.ID),
			Attributions: fmt.Sprintf("%s/v1/payments/%s/attributions", url, model.ID),
			MarkPaid:     fmt.Sprintf("%s/v1/payments/%s/mark-paid", url, model.ID),
			Revert:       fmt.Sprintf("%s/v1/payments/%s/revert", url, model.ID),
		},
	}

	attributed, err := model.AttributedAmount(db)
	if err != nil {
		return Payment{}, err
	}
	payment.AttributedAmount = attributed
	payment.RemainingAmount = model.Amount.Sub(attributed)

	return payment, nil
}

type PaymentListResponse struct {
	Data       []Payment   `json:"data"`                                                          // List of payments
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PaymentCreateResponse struct {
	Data  []PaymentResponse `json:"data"`                                                          // List of the created payments or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (p *PaymentCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	p.Data = append(p.Data, PaymentResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PaymentResponse struct {
	Data  *Payment `json:"data"`                                                          // Data for the payment
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// AutoAttributeRequest is the request body for running automatic
// attribution.
type AutoAttributeRequest struct {
	FamilyID  uuid.UUID    `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"` // ID of the family to attribute payments for
	PaymentID hl_uuid.UUID `json:"paymentId" example:"1e777d24-3f5f-4c5d-8d4c-fbd8371ab7e9"` // Optional: only attribute this payment
}

type AutoAttributeData struct {
	AttributedPayments int `json:"attributedPayments" example:"3"` // Number of payments that received at least one new attribution
}

type AutoAttributeResponse struct {
	Data  *AutoAttributeData `json:"data"`                                        // The attribution result
	Error *string            `json:"error" example:"no income events with available balance"` // The error, if any occurred
}

// AttributionListResponse wraps the funding state of a payment.
type AttributionListResponse struct {
	Data  *engine.AttributionResult `json:"data"`                                                          // Attributions and summary for the payment
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PaymentQueryFilter struct {
	FamilyID           hl_uuid.UUID `form:"family"`                     // By ID of the family
	Payee              string       `form:"payee" filterField:"false"`  // By payee
	Status             string       `form:"status"`                     // By status
	SpendingCategoryID hl_uuid.UUID `form:"spendingCategory"`           // By ID of the spending category
	FromDate           time.Time    `form:"fromDate" filterField:"false" time_format:"2006-01-02"` // Payments due on or after this date
	UntilDate          time.Time    `form:"untilDate" filterField:"false" time_format:"2006-01-02"` // Payments due on or before this date
	Offset             uint         `form:"offset" filterField:"false"` // The offset of the first payment returned. Defaults to 0.
	Limit              int          `form:"limit" filterField:"false"`  // Maximum number of payments to return. Defaults to 50.
}

func (f PaymentQueryFilter) model() (models.Payment, error) {
	var spendingCategoryID *uuid.UUID
	if f.SpendingCategoryID.UUID != uuid.Nil {
		spendingCategoryID = &f.SpendingCategoryID.UUID
	}

	return models.Payment{
		FamilyID:           f.FamilyID.UUID,
		Status:             f.Status,
		SpendingCategoryID: spendingCategoryID,
	}, nil
}
