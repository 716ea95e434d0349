package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hearthledger/backend/internal/models"
	hl_uuid "github.com/hearthledger/backend/internal/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankAccountEditable represents all user configurable parameters
type BankAccountEditable struct {
	FamilyID       uuid.UUID       `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`   // ID of the family the account belongs to
	Name           string          `json:"name" example:"Joint checking" default:""`                  // Name of the account
	Institution    string          `json:"institution" example:"Sparkasse" default:""`                // The bank the account is held at
	InitialBalance decimal.Decimal `json:"initialBalance" example:"173.12" default:"0"`               // Balance of the account before the first transaction
	Archived       bool            `json:"archived" example:"true" default:"false"`                   // Is the account archived?
}

func (editable BankAccountEditable) model() models.BankAccount {
	return models.BankAccount{
		FamilyID:       editable.FamilyID,
		Name:           editable.Name,
		Institution:    editable.Institution,
		InitialBalance: editable.InitialBalance,
		Archived:       editable.Archived,
	}
}

type BankAccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/bank-accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                 // The account itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Transactions for the account
}

type BankAccount struct {
	models.DefaultModel
	BankAccountEditable
	Links BankAccountLinks `json:"links"`

	// These fields are computed
	Balance decimal.Decimal `json:"balance" example:"2735.17"` // Balance of the account including all transactions
}

func newBankAccount(c *gin.Context, db *gorm.DB, model models.BankAccount) (BankAccount, error) {
	url := c.GetString(string(models.DBContextURL))

	account := BankAccount{
		DefaultModel: model.DefaultModel,
		BankAccountEditable: BankAccountEditable{
			FamilyID:       model.FamilyID,
			Name:           model.Name,
			Institution:    model.Institution,
			InitialBalance: model.InitialBalance,
			Archived:       model.Archived,
		},
		Links: BankAccountLinks{
			Self:         fmt.Sprintf("%s/v1/bank-accounts/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
		},
	}

	balance, err := model.Balance(db, time.Time{})
	if err != nil {
		return BankAccount{}, err
	}
	account.Balance = balance

	return account, nil
}

type BankAccountListResponse struct {
	Data       []BankAccount `json:"data"`                                                          // List of bank accounts
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type BankAccountCreateResponse struct {
	Data  []BankAccountResponse `json:"data"`                                                          // List of the created bank accounts or their respective error
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (a *BankAccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, BankAccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BankAccountResponse struct {
	Data  *BankAccount `json:"data"`                                                          // Data for the bank account
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BankAccountQueryFilter struct {
	FamilyID    hl_uuid.UUID `form:"family"`                     // By ID of the family
	Name        string       `form:"name" filterField:"false"`   // By name
	Institution string       `form:"institution"`                // By institution
	Archived    bool         `form:"archived"`                   // Is the account archived?
	Offset      uint         `form:"offset" filterField:"false"` // The offset of the first account returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`  // Maximum number of accounts to return. Defaults to 50.
}

func (f BankAccountQueryFilter) model() (models.BankAccount, error) {
	return models.BankAccount{
		FamilyID:    f.FamilyID.UUID,
		Institution: f.Institution,
		Archived:    f.Archived,
	}, nil
}
