package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/backend/internal/engine"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/types"
	hl_uuid "github.com/hearthledger/backend/internal/uuid"
)

// MonthQueryFilter selects the family and month to report on.
type MonthQueryFilter struct {
	FamilyID hl_uuid.UUID `form:"family"`                        // ID of the family
	Month    time.Time    `form:"month" time_format:"2006-01"`   // The month, in YYYY-MM format
}

// MonthReportResponse wraps the report for one month.
type MonthReportResponse struct {
	Data  *engine.MonthReport `json:"data"`                                          // The report
	Error *string             `json:"error" example:"the month query parameter must be set"` // The error, if any occurred
}

// RegisterMonthRoutes registers the routes for monthly reports with
// the RouterGroup that is passed.
func RegisterMonthRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsMonth)
		r.GET("", GetMonth)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Months
// @Success		204
// @Router			/v1/months [options]
func OptionsMonth(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get month report
// @Description	Returns income, allocation, spending and balance data for one family and month
// @Tags			Months
// @Produce		json
// @Success		200	{object}	MonthReportResponse
// @Failure		400	{object}	MonthReportResponse
// @Failure		404	{object}	MonthReportResponse
// @Failure		500	{object}	MonthReportResponse
// @Router			/v1/months [get]
// @Param			family	query	string	true	"ID of the family"
// @Param			month	query	string	true	"The month in YYYY-MM format"
func GetMonth(c *gin.Context) {
	var filter MonthQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, MonthReportResponse{
			Error: &s,
		})
		return
	}

	if filter.Month.IsZero() {
		s := errMonthNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, MonthReportResponse{
			Error: &s,
		})
		return
	}

	if filter.FamilyID.UUID == hl_uuid.Nil.UUID {
		s := errFamilyNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, MonthReportResponse{
			Error: &s,
		})
		return
	}

	report, err := engine.MonthSummary(models.DB, filter.FamilyID.UUID, types.MonthOf(filter.Month))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthReportResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, MonthReportResponse{Data: &report})
}
