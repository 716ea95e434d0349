package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hearthledger/backend/internal/engine"
	"github.com/hearthledger/backend/internal/models"
	hl_uuid "github.com/hearthledger/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// BudgetCategoryEditable represents all user configurable parameters
type BudgetCategoryEditable struct {
	FamilyID         uuid.UUID       `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"` // ID of the family the category belongs to
	Name             string          `json:"name" example:"Rent" default:""`                          // Name of the category, unique per family
	TargetPercentage decimal.Decimal `json:"targetPercentage" example:"50" default:"0"`               // Percentage of income allocated to the category
	Color            string          `json:"color" example:"#34d399" default:""`                      // Display color
	SortOrder        uint            `json:"sortOrder" example:"1" default:"0"`                       // Position of the category in the allocation order
	Archived         bool            `json:"archived" example:"true" default:"false"`                 // Is the category archived?
}

func (editable BudgetCategoryEditable) model() models.BudgetCategory {
	return models.BudgetCategory{
		FamilyID:         editable.FamilyID,
		Name:             editable.Name,
		TargetPercentage: editable.TargetPercentage,
		Color:            editable.Color,
		SortOrder:        editable.SortOrder,
		Archived:         editable.Archived,
	}
}

type BudgetCategoryLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/budget-categories/d1b0c59d-c6e2-47b4-9b42-2e2a91f5ed51"` // The category itself
}

type BudgetCategory struct {
	models.DefaultModel
	BudgetCategoryEditable
	Links BudgetCategoryLinks `json:"links"`
}

func newBudgetCategory(c *gin.Context, model models.BudgetCategory) BudgetCategory {
	url := c.GetString(string(models.DBContextURL))

	return BudgetCategory{
		DefaultModel: model.DefaultModel,
		BudgetCategoryEditable: BudgetCategoryEditable{
			FamilyID:         model.FamilyID,
			Name:             model.Name,
			TargetPercentage: model.TargetPercentage,
			Color:            model.Color,
			SortOrder:        model.SortOrder,
			Archived:         model.Archived,
		},
		Links: BudgetCategoryLinks{
			Self: fmt.Sprintf("%s/v1/budget-categories/%s", url, model.ID),
		},
	}
}

type BudgetCategoryListResponse struct {
	Data       []BudgetCategory `json:"data"`                                                          // List of budget categories
	Error      *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination      `json:"pagination"`                                                    // Pagination information
}

type BudgetCategoryCreateResponse struct {
	Data  []BudgetCategoryResponse `json:"data"`                                                          // List of the created budget categories or their respective error
	Error *string                  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (b *BudgetCategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetCategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetCategoryResponse struct {
	Data  *BudgetCategory `json:"data"`                                                          // Data for the budget category
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// BudgetTemplate is the request body for applying an allocation
// template to a family.
type BudgetTemplate struct {
	FamilyID   uuid.UUID              `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"` // ID of the family the template is applied to
	Categories []engine.TemplateEntry `json:"categories"`                                              // The categories of the template, in allocation order
}

type BudgetTemplateResponse struct {
	Data  []BudgetCategory `json:"data"`                                                   // The categories created or updated by the template
	Error *string          `json:"error" example:"percentages must sum to 100 or less"`    // The error, if any occurred
}

type BudgetCategoryQueryFilter struct {
	FamilyID hl_uuid.UUID `form:"family"`                     // By ID of the family
	Name     string       `form:"name" filterField:"false"`   // By name
	Archived bool         `form:"archived"`                   // Is the category archived?
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first category returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of categories to return. Defaults to 50.
}

func (f BudgetCategoryQueryFilter) model() (models.BudgetCategory, error) {
	return models.BudgetCategory{
		FamilyID: f.FamilyID.UUID,
		Archived: f.Archived,
	}, nil
}
