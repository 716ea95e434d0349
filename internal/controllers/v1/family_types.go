package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/backend/internal/models"
)

// FamilyEditable represents all user configurable parameters
type FamilyEditable struct {
	Name     string `json:"name" example:"Miller household" default:""`         // Name of the family
	Note     string `json:"note" example:"Joint finances since 2023" default:""` // Notes about the family
	Currency string `json:"currency" example:"€" default:""`                    // The currency for the family
}

func (editable FamilyEditable) model() models.Family {
	return models.Family{
		Name:     editable.Name,
		Note:     editable.Note,
		Currency: editable.Currency,
	}
}

type FamilyLinks struct {
	Self               string `json:"self" example:"https://example.com/api/v1/families/a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`                          // The family itself
	BankAccounts       string `json:"bankAccounts" example:"https://example.com/api/v1/bank-accounts?family=a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`     // Bank accounts of the family
	IncomeEvents       string `json:"incomeEvents" example:"https://example.com/api/v1/income-events?family=a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`     // Income events of the family
	BudgetCategories   string `json:"budgetCategories" example:"https://example.com/api/v1/budget-categories?family=a52a2807-1a7e-43e0-b7e9-1b4546ab971c"` // Budget categories of the family
	Payments           string `json:"payments" example:"https://example.com/api/v1/payments?family=a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`              // Payments of the family
	Transactions       string `json:"transactions" example:"https://example.com/api/v1/transactions?family=a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`      // Transactions of the family
	SpendingCategories string `json:"spendingCategories" example:"https://example.com/api/v1/spending-categories?family=a52a2807-1a7e-43e0-b7e9-1b4546ab971c"` // Spending categories of the family
	Months             string `json:"months" example:"https://example.com/api/v1/months?family=a52a2807-1a7e-43e0-b7e9-1b4546ab971c&month=2026-08"`    // Monthly reports for the family
}

type Family struct {
	models.DefaultModel
	FamilyEditable
	Links FamilyLinks `json:"links"`
}

func newFamily(c *gin.Context, model models.Family) Family {
	url := c.GetString(string(models.DBContextURL))

	return Family{
		DefaultModel: model.DefaultModel,
		FamilyEditable: FamilyEditable{
			Name:     model.Name,
			Note:     model.Note,
			Currency: model.Currency,
		},
		Links: FamilyLinks{
			Self:               fmt.Sprintf("%s/v1/families/%s", url, model.ID),
			BankAccounts:       fmt.Sprintf("%s/v1/bank-accounts?family=%s", url, model.ID),
			IncomeEvents:       fmt.Sprintf("%s/v1/income-events?family=%s", url, model.ID),
			BudgetCategories:   fmt.Sprintf("%s/v1/budget-categories?family=%s", url, model.ID),
			Payments:           fmt.Sprintf("%s/v1/payments?family=%s", url, model.ID),
			Transactions:       fmt.Sprintf("%s/v1/transactions?family=%s", url, model.ID),
			SpendingCategories: fmt.Sprintf("%s/v1/spending-categories?family=%s", url, model.ID),
			Months:             fmt.Sprintf("%s/v1/months?family=%s&month=2026-08", url, model.ID),
		},
	}
}

type FamilyListResponse struct {
	Data       []Family    `json:"data"`                                                          // List of Families
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type FamilyCreateResponse struct {
	Data  []FamilyResponse `json:"data"`                                                          // List of the created Families or their respective error
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (f *FamilyCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	f.Data = append(f.Data, FamilyResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type FamilyResponse struct {
	Data  *Family `json:"data"`                                                          // Data for the Family
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type FamilyQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // By name
	Note     string `form:"note" filterField:"false"`   // By note
	Currency string `form:"currency"`                   // By currency
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Family returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Families to return. Defaults to 50.
}

func (f FamilyQueryFilter) model() (models.Family, error) {
	return models.Family{
		Currency: f.Currency,
	}, nil
}
