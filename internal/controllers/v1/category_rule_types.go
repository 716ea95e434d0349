package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hearthledger/backend/internal/models"
	hl_uuid "github.com/hearthledger/backend/internal/uuid"
)

// CategoryRuleEditable represents all user configurable parameters
type CategoryRuleEditable struct {
	FamilyID           uuid.UUID `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`           // ID of the family the rule belongs to
	Priority           uint      `json:"priority" example:"1" default:"0"`                                  // Rules are evaluated in ascending priority order
	Match              string    `json:"match" example:"Rewe*" default:""`                                  // Glob pattern matched against the merchant name, case-insensitive
	SpendingCategoryID uuid.UUID `json:"spendingCategoryId" example:"2c7ab97f-a68c-4cf1-a7c8-3b8c41c516ee"` // ID of the spending category to suggest
}

func (editable CategoryRuleEditable) model() models.CategoryRule {
	return models.CategoryRule{
		FamilyID:           editable.FamilyID,
		Priority:           editable.Priority,
		Match:              editable.Match,
		SpendingCategoryID: editable.SpendingCategoryID,
	}
}

type CategoryRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/category-rules/f24aa4fa-4a08-465a-8913-a8e447d6ba45"` // The rule itself
}

type CategoryRule struct {
	models.DefaultModel
	CategoryRuleEditable
	Links CategoryRuleLinks `json:"links"`
}

func newCategoryRule(c *gin.Context, model models.CategoryRule) CategoryRule {
	url := c.GetString(string(models.DBContextURL))

	return CategoryRule{
		DefaultModel: model.DefaultModel,
		CategoryRuleEditable: CategoryRuleEditable{
			FamilyID:           model.FamilyID,
			Priority:           model.Priority,
			Match:              model.Match,
			SpendingCategoryID: model.SpendingCategoryID,
		},
		Links: CategoryRuleLinks{
			Self: fmt.Sprintf("%s/v1/category-rules/%s", url, model.ID),
		},
	}
}

type CategoryRuleListResponse struct {
	Data       []CategoryRule `json:"data"`                                                          // List of category rules
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type CategoryRuleCreateResponse struct {
	Data  []CategoryRuleResponse `json:"data"`                                                          // List of the created category rules or their respective error
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *CategoryRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, CategoryRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryRuleResponse struct {
	Data  *CategoryRule `json:"data"`                                                          // Data for the category rule
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryRuleQueryFilter struct {
	FamilyID           hl_uuid.UUID `form:"family"`                     // By ID of the family
	SpendingCategoryID hl_uuid.UUID `form:"spendingCategory"`           // By ID of the spending category
	Offset             uint         `form:"offset" filterField:"false"` // The offset of the first rule returned. Defaults to 0.
	Limit              int          `form:"limit" filterField:"false"`  // Maximum number of rules to return. Defaults to 50.
}

func (f CategoryRuleQueryFilter) model() (models.CategoryRule, error) {
	return models.CategoryRule{
		FamilyID:           f.FamilyID.UUID,
		SpendingCategoryID: f.SpendingCategoryID.UUID,
	}, nil
}
