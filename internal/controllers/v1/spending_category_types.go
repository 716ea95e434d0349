package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hearthledger/backend/internal/models"
	hl_uuid "github.com/hearthledger/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// SpendingCategoryEditable represents all user configurable parameters
type SpendingCategoryEditable struct {
	FamilyID         uuid.UUID       `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`           // ID of the family the category belongs to
	BudgetCategoryID *uuid.UUID      `json:"budgetCategoryId" example:"d1b0c59d-c6e2-47b4-9b42-2e2a91f5ed51"`   // Optional budget category the spending rolls up into
	Name             string          `json:"name" example:"Groceries" default:""`                               // Name of the category, unique per family
	Color            string          `json:"color" example:"#fbbf24" default:""`                                // Display color
	Icon             string          `json:"icon" example:"cart" default:""`                                    // Display icon
	MonthlyTarget    decimal.Decimal `json:"monthlyTarget" example:"400" default:"0"`                           // Informational monthly spending target
	ParentCategoryID *uuid.UUID      `json:"parentCategoryId" example:"2c7ab97f-a68c-4cf1-a7c8-3b8c41c516ee"`   // Optional parent category
	Archived         bool            `json:"archived" example:"true" default:"false"`                           // Is the category archived?
}

func (editable SpendingCategoryEditable) model() models.SpendingCategory {
	return models.SpendingCategory{
		FamilyID:         editable.FamilyID,
		BudgetCategoryID: editable.BudgetCategoryID,
		Name:             editable.Name,
		Color:            editable.Color,
		Icon:             editable.Icon,
		MonthlyTarget:    editable.MonthlyTarget,
		ParentCategoryID: editable.ParentCategoryID,
		Archived:         editable.Archived,
	}
}

type SpendingCategoryLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/spending-categories/2c7ab97f-a68c-4cf1-a7c8-3b8c41c516ee"`              // The category itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?spendingCategory=2c7ab97f-a68c-4cf1-a7c8-3b8c41c516ee"` // Transactions in the category
	Payments     string `json:"payments" example:"https://example.com/api/v1/payments?spendingCategory=2c7ab97f-a68c-4cf1-a7c8-3b8c41c516ee"`    // Payments in the category
}

type SpendingCategory struct {
	models.DefaultModel
	SpendingCategoryEditable
	Links SpendingCategoryLinks `json:"links"`
}

func newSpendingCategory(c *gin.Context, model models.SpendingCategory) SpendingCategory {
	url := c.GetString(string(models.DBContextURL))

	return SpendingCategory{
		DefaultModel: model.DefaultModel,
		SpendingCategoryEditable: SpendingCategoryEditable{
			FamilyID:         model.FamilyID,
			BudgetCategoryID: model.BudgetCategoryID,
			Name:             model.Name,
			Color:            model.Color,
			Icon:             model.Icon,
			MonthlyTarget:    model.MonthlyTarget,
			ParentCategoryID: model.ParentCategoryID,
			Archived:         model.Archived,
		},
		Links: SpendingCategoryLinks{
			Self:         fmt.Sprintf("%s/v1/spending-categories/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?spendingCategory=%s", url, model.ID),
			Payments:     fmt.Sprintf("%s/v1/payments?spendingCategory=%s", url, model.ID),
		},
	}
}

type SpendingCategoryListResponse struct {
	Data       []SpendingCategory `json:"data"`                                                          // List of spending categories
	Error      *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination        `json:"pagination"`                                                    // Pagination information
}

type SpendingCategoryCreateResponse struct {
	Data  []SpendingCategoryResponse `json:"data"`                                                          // List of the created spending categories or their respective error
	Error *string                    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (s *SpendingCategoryCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, SpendingCategoryResponse{Error: &e})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type SpendingCategoryResponse struct {
	Data  *SpendingCategory `json:"data"`                                                          // Data for the spending category
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type SpendingCategoryQueryFilter struct {
	FamilyID         hl_uuid.UUID `form:"family"`                     // By ID of the family
	BudgetCategoryID hl_uuid.UUID `form:"budgetCategory"`             // By ID of the budget category
	ParentCategoryID hl_uuid.UUID `form:"parent"`                     // By ID of the parent category
	Name             string       `form:"name" filterField:"false"`   // By name
	Archived         bool         `form:"archived"`                   // Is the category archived?
	Offset           uint         `form:"offset" filterField:"false"` // The offset of the first category returned. Defaults to 0.
	Limit            int          `form:"limit" filterField:"false"`  // Maximum number of categories to return. Defaults to 50.
}

func (f SpendingCategoryQueryFilter) model() (models.SpendingCategory, error) {
	var budgetCategoryID, parentCategoryID *uuid.UUID
	if f.BudgetCategoryID.UUID != uuid.Nil {
		budgetCategoryID = &f.BudgetCategoryID.UUID
	}

	if f.ParentCategoryID.UUID != uuid.Nil {
		parentCategoryID = &f.ParentCategoryID.UUID
	}

	return models.SpendingCategory{
		FamilyID:         f.FamilyID.UUID,
		BudgetCategoryID: budgetCategoryID,
		ParentCategoryID: parentCategoryID,
		Archived:         f.Archived,
	}, nil
}
