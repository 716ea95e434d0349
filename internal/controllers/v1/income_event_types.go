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

// IncomeEventEditable represents all user configurable parameters
type IncomeEventEditable struct {
	FamilyID       uuid.UUID       `json:"familyId" example:"a52a2807-1a7e-43e0-b7e9-1b4546ab971c"`    // ID of the family the income event belongs to
	Name           string          `json:"name" example:"Salary June" default:""`                      // Name of the income event
	ScheduledDate  time.Time       `json:"scheduledDate" example:"2026-06-28T00:00:00Z"`               // Date the income is expected
	Amount         decimal.Decimal `json:"amount" example:"2741.00"`                                   // The expected amount
	ReceivedAmount decimal.Decimal `json:"receivedAmount" example:"2741.00" default:"0"`               // The amount that actually arrived
	Status         string          `json:"status" example:"received" default:"scheduled" enums:"scheduled,received,cancelled"` // Status of the income event
}

func (editable IncomeEventEditable) model() models.IncomeEvent {
	return models.IncomeEvent{
		FamilyID:       editable.FamilyID,
		Name:           editable.Name,
		ScheduledDate:  editable.ScheduledDate,
		Amount:         editable.Amount,
		ReceivedAmount: editable.ReceivedAmount,
		Status:         editable.Status,
	}
}

type IncomeEventLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/income-events/ca4b7aca-4819-4cce-8ca1-d18f3dca9b53"`          // The income event itself
	Allocate    string `json:"allocate" example:"https://example.com/api/v1/income-events/ca4b7aca-4819-4cce-8ca1-d18f3dca9b53/allocate"` // Allocate the income across the budget categories
	Allocations string `json:"allocations" example:"https://example.com/api/v1/income-events/ca4b7aca-4819-4cce-8ca1-d18f3dca9b53/allocations"` // The current allocations for the income event
}

type IncomeEvent struct {
	models.DefaultModel
	IncomeEventEditable
	Links IncomeEventLinks `json:"links"`

	// These fields are computed
	AllocatedAmount  decimal.Decimal `json:"allocatedAmount" example:"2741.00"` // Sum of the budget allocations
	RemainingBalance decimal.Decimal `json:"remainingBalance" example:"817.23"` // Received amount not yet attributed to payments
}

func newIncomeEvent(c *gin.Context, db *gorm.DB, model models.IncomeEvent) (IncomeEvent, error) {
	url := c.GetString(string(models.DBContextURL))

	event := IncomeEvent{
		DefaultModel: model.DefaultModel,
		IncomeEventEditable: IncomeEventEditable{
			FamilyID:       model.FamilyID,
			Name:           model.Name,
			ScheduledDate:  model.ScheduledDate,
			Amount:         model.Amount,
			ReceivedAmount: model.ReceivedAmount,
			Status:         model.Status,
		},
		Links: IncomeEventLinks{
			Self:        fmt.Sprintf("%s/v1/income-events/%s", url, model.ID),
			Allocate:    fmt.Sprintf("%s/v1/income-events/%s/allocate", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/income-events/%s/allocations", url, model.ID),
		},
	}

	allocated, err := model.AllocatedAmount(db)
	if err != nil {
		return IncomeEvent{}, err
	}
	event.AllocatedAmount = allocated

	remaining, err := model.RemainingBalance(db)
	if err != nil {
		return IncomeEvent{}, err
	}
	event.RemainingBalance = remaining

	return event, nil
}

type IncomeEventListResponse struct {
	Data       []IncomeEvent `json:"data"`                                                          // List of income events
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type IncomeEventCreateResponse struct {
	Data  []IncomeEventResponse `json:"data"`                                                          // List of the created income events or their respective error
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (e *IncomeEventCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, IncomeEventResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type IncomeEventResponse struct {
	Data  *IncomeEvent `json:"data"`                                                          // Data for the income event
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// AllocationResponse wraps the result of allocating an income event.
type AllocationResponse struct {
	Data  *engine.AllocationSummary `json:"data"`                                           // The allocation summary
	Error *string                   `json:"error" example:"no active budget categories"`    // The error, if any occurred
}

type IncomeEventQueryFilter struct {
	FamilyID hl_uuid.UUID `form:"family"`                     // By ID of the family
	Name     string       `form:"name" filterField:"false"`   // By name
	Status   string       `form:"status"`                     // By status
	FromDate time.Time    `form:"fromDate" filterField:"false" time_format:"2006-01-02"` // Income events scheduled on or after this date
	UntilDate time.Time   `form:"untilDate" filterField:"false" time_format:"2006-01-02"` // Income events scheduled on or before this date
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first income event returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of income events to return. Defaults to 50.
}

func (f IncomeEventQueryFilter) model() (models.IncomeEvent, error) {
	return models.IncomeEvent{
		FamilyID: f.FamilyID.UUID,
		Status:   f.Status,
	}, nil
}
