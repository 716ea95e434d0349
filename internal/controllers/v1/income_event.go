package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/backend/internal/engine"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterIncomeEventRoutes registers the routes for income events
// with the RouterGroup that is passed.
func RegisterIncomeEventRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsIncomeEventList)
		r.GET("", GetIncomeEvents)
		r.POST("", CreateIncomeEvents)
	}

	// Income event with ID
	{
		r.OPTIONS("/:id", OptionsIncomeEventDetail)
		r.GET("/:id", GetIncomeEvent)
		r.PATCH("/:id", UpdateIncomeEvent)
		r.DELETE("/:id", DeleteIncomeEvent)
	}

	// Budget allocation
	{
		r.OPTIONS("/:id/allocate", OptionsIncomeEventAllocate)
		r.POST("/:id/allocate", AllocateIncomeEvent)
		r.OPTIONS("/:id/allocations", OptionsIncomeEventAllocations)
		r.GET("/:id/allocations", GetIncomeEventAllocations)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			IncomeEvents
// @Success		204
// @Router			/v1/income-events [options]
func OptionsIncomeEventList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			IncomeEvents
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-events/{id} [options]
func OptionsIncomeEventDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.IncomeEvent{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			IncomeEvents
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-events/{id}/allocate [options]
func OptionsIncomeEventAllocate(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.IncomeEvent{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			IncomeEvents
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-events/{id}/allocations [options]
func OptionsIncomeEventAllocations(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.IncomeEvent{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create income events
// @Description	Creates new income events
// @Tags			IncomeEvents
// @Produce		json
// @Success		201		{object}	IncomeEventCreateResponse
// @Failure		400		{object}	IncomeEventCreateResponse
// @Failure		404		{object}	IncomeEventCreateResponse
// @Failure		500		{object}	IncomeEventCreateResponse
// @Param			events	body		[]IncomeEventEditable	true	"Income events"
// @Router			/v1/income-events [post]
func CreateIncomeEvents(c *gin.Context) {
	var editables []IncomeEventEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := IncomeEventCreateResponse{}

	for _, editable := range editables {
		event := editable.model()

		err = models.DB.Create(&event).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newIncomeEvent(c, models.DB, event)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, IncomeEventResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get income events
// @Description	Returns a list of income events
// @Tags			IncomeEvents
// @Produce		json
// @Success		200	{object}	IncomeEventListResponse
// @Failure		400	{object}	IncomeEventListResponse
// @Failure		500	{object}	IncomeEventListResponse
// @Router			/v1/income-events [get]
// @Param			family		query	string	false	"Filter by family ID"
// @Param			name		query	string	false	"Filter by name"
// @Param			status		query	string	false	"Filter by status"
// @Param			fromDate	query	string	false	"Income events scheduled on or after this date"
// @Param			untilDate	query	string	false	"Income events scheduled on or before this date"
// @Param			offset		query	uint	false	"The offset of the first income event returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of income events to return. Defaults to 50."
func GetIncomeEvents(c *gin.Context) {
	var filter IncomeEventQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, IncomeEventListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("scheduled_date ASC, id ASC").
		Where(&filterModel, queryFields...)

	if filter.Name != "" {
		q = q.Where("name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("name = ''")
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("scheduled_date >= date(?)", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("scheduled_date <= date(?)", filter.UntilDate)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 income events and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var events []models.IncomeEvent
	err = q.Find(&events).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeEventListResponse{
			Error: &e,
		})
		return
	}

	data := make([]IncomeEvent, 0, len(events))
	for _, event := range events {
		apiResource, err := newIncomeEvent(c, models.DB, event)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), IncomeEventListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, IncomeEventListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get income event
// @Description	Returns a specific income event
// @Tags			IncomeEvents
// @Produce		json
// @Success		200	{object}	IncomeEventResponse
// @Failure		400	{object}	IncomeEventResponse
// @Failure		404	{object}	IncomeEventResponse
// @Failure		500	{object}	IncomeEventResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-events/{id} [get]
func GetIncomeEvent(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	var event models.IncomeEvent
	err = models.DB.First(&event, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	data, err := newIncomeEvent(c, models.DB, event)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, IncomeEventResponse{Data: &data})
}

// @Summary		Update income event
// @Description	Updates an existing income event. Only values to be updated need to be specified.
// @Tags			IncomeEvents
// @Accept			json
// @Produce		json
// @Success		200		{object}	IncomeEventResponse
// @Failure		400		{object}	IncomeEventResponse
// @Failure		404		{object}	IncomeEventResponse
// @Failure		500		{object}	IncomeEventResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			event	body		IncomeEventEditable	true	"Income event"
// @Router			/v1/income-events/{id} [patch]
func UpdateIncomeEvent(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	var event models.IncomeEvent
	err = models.DB.First(&event, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, IncomeEventEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	var data IncomeEventEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&event).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	r, err := newIncomeEvent(c, models.DB, event)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeEventResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, IncomeEventResponse{Data: &r})
}

// @Summary		Delete income event
// @Description	Deletes an income event with all its allocations and attributions
// @Tags			IncomeEvents
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-events/{id} [delete]
func DeleteIncomeEvent(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var event models.IncomeEvent
	err = models.DB.First(&event, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&event).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Allocate income event
// @Description	Splits the income event amount across the active budget categories of the family according to their target percentages. Replaces any existing allocations for the income event.
// @Tags			IncomeEvents
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-events/{id}/allocate [post]
func AllocateIncomeEvent(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	var event models.IncomeEvent
	err = models.DB.First(&event, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	summary, err := engine.Allocate(models.DB, event.FamilyID, event.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, AllocationResponse{Data: &summary})
}

// @Summary		Get allocations
// @Description	Returns the current budget allocations for the income event
// @Tags			IncomeEvents
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-events/{id}/allocations [get]
func GetIncomeEventAllocations(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	var event models.IncomeEvent
	err = models.DB.First(&event, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	summary, err := engine.Allocations(models.DB, event.FamilyID, event.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, AllocationResponse{Data: &summary})
}
