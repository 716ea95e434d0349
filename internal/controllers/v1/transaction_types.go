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
)

// TransactionEditable represents all user configurable parameters
type TransactionEditable struct {
	FamilyID           uuid.UUID       `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`      // ID of the family the transaction belongs to
	BankAccountID      uuid.UUID       `json:"bankAccountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the bank account the transaction was booked on
	Date               time.Time       `json:"date" example:"2026-08-12T09:11:14Z"`                          // Date of the transaction
	Amount             decimal.Decimal `json:"amount" example:"-84.17"`                                      // Amount, negative for debits
	MerchantName       string          `json:"merchantName" example:"Stadtwerke" default:""`                 // Name of the merchant
	Description        string          `json:"description" example:"Electricity August" default:""`          // Free text description
	SpendingCategoryID *uuid.UUID      `json:"spendingCategoryId" example:"2c7ab97f-a68c-4cf1-a7c8-3b8c41c516ee"` // ID of the spending category
	Pending            bool            `json:"pending" example:"false" default:"false"`                      // Is the transaction still pending at the bank?
	ImportHash         string          `json:"importHash" example:"5d2b37e8" default:""`                     // Duplicate detection hash from bank sync
}

func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		FamilyID:           editable.FamilyID,
		BankAccountID:      editable.BankAccountID,
		Date:               editable.Date,
		Amount:             editable.Amount,
		MerchantName:       editable.MerchantName,
		Description:        editable.Description,
		SpendingCategoryID: editable.SpendingCategoryID,
		Pending:            editable.Pending,
		ImportHash:         editable.ImportHash,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d07595ea-a9d1-40f3-a2af-0185b7e0b0ed"` // The transaction itself
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`

	// These fields are only ever written by the categorization engine
	UserCategorized    bool    `json:"userCategorized" example:"true"`     // Was the category assigned by a user?
	CategoryConfidence float64 `json:"categoryConfidence" example:"0.92"`  // Confidence of the categorization, 0..1
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			FamilyID:           model.FamilyID,
			BankAccountID:      model.BankAccountID,
			Date:               model.Date,
			Amount:             model.Amount,
			MerchantName:       model.MerchantName,
			Description:        model.Description,
			SpendingCategoryID: model.SpendingCategoryID,
			Pending:            model.Pending,
			ImportHash:         model.ImportHash,
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
		UserCategorized:    model.UserCategorized,
		CategoryConfidence: model.CategoryConfidence,
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Data  []TransactionResponse `json:"data"`                                                          // List of the created transactions or their respective error
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// MatchRequest is the request body for proposing transaction to
// payment matches.
type MatchRequest struct {
	FamilyID       uuid.UUID   `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"` // ID of the family to match for
	From           time.Time   `json:"from" example:"2026-08-01T00:00:00Z"`                     // Earliest transaction date, optional
	To             time.Time   `json:"to" example:"2026-08-31T00:00:00Z"`                       // Latest transaction date, optional
	BankAccountIDs []uuid.UUID `json:"bankAccountIds"`                                          // Accounts to consider, empty for all
}

type MatchListResponse struct {
	Data  []engine.Match `json:"data"`                                                          // Proposed matches, best first
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// BatchCategorizeRequest is the request body for categorizing a batch
// of transactions.
type BatchCategorizeRequest struct {
	FamilyID           uuid.UUID   `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`           // ID of the family the transactions belong to
	TransactionIDs     []uuid.UUID `json:"transactionIds"`                                                    // IDs of the transactions to categorize, at most 100
	SpendingCategoryID uuid.UUID   `json:"spendingCategoryId" example:"2c7ab97f-a68c-4cf1-a7c8-3b8c41c516ee"` // ID of the spending category to assign
	UserCategorized    bool        `json:"userCategorized" example:"true" default:"false"`                    // Was the assignment made by a user?
}

type BatchCategorizeResponse struct {
	Data  *engine.BatchCategorizeResult `json:"data"`                                       // Per-transaction results and summary
	Error *string                       `json:"error" example:"batch exceeds 100 transactions"` // The error, if any occurred
}

type UncategorizedListResponse struct {
	Data  []engine.UncategorizedTransaction `json:"data"`                                                          // Uncategorized transactions with suggestions
	Error *string                           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type UncategorizedQueryFilter struct {
	FamilyID  hl_uuid.UUID `form:"family"`    // By ID of the family
	Threshold float64      `form:"threshold"` // Confidence below which a transaction counts as uncategorized. Defaults to 0.
	Offset    int          `form:"offset"`    // The offset of the first transaction returned. Defaults to 0.
	Limit     int          `form:"limit"`     // Maximum number of transactions to return. Defaults to 50.
}

type TransactionQueryFilter struct {
	FamilyID           hl_uuid.UUID `form:"family"`                      // By ID of the family
	BankAccountID      hl_uuid.UUID `form:"account"`                     // By ID of the bank account
	SpendingCategoryID hl_uuid.UUID `form:"spendingCategory"`            // By ID of the spending category
	MerchantName       string       `form:"merchant" filterField:"false"` // By merchant name
	Pending            bool         `form:"pending"`                     // Is the transaction pending?
	FromDate           time.Time    `form:"fromDate" filterField:"false" time_format:"2006-01-02"` // Transactions on or after this date
	UntilDate          time.Time    `form:"untilDate" filterField:"false" time_format:"2006-01-02"` // Transactions on or before this date
	Offset             uint         `form:"offset" filterField:"false"`  // The offset of the first transaction returned. Defaults to 0.
	Limit              int          `form:"limit" filterField:"false"`   // Maximum number of transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() (models.Transaction, error) {
	var spendingCategoryID *uuid.UUID
	if f.SpendingCategoryID.UUID != uuid.Nil {
		spendingCategoryID = &f.SpendingCategoryID.UUID
	}

	return models.Transaction{
		FamilyID:           f.FamilyID.UUID,
		BankAccountID:      f.BankAccountID.UUID,
		SpendingCategoryID: spendingCategoryID,
		Pending:            f.Pending,
	}, nil
}
