package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterFamilyRoutes registers the routes for families with
// the RouterGroup that is passed.
func RegisterFamilyRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsFamilyList)
		r.GET("", GetFamilies)
		r.POST("", CreateFamilies)
	}

	// Family with ID
	{
		r.OPTIONS("/:id", OptionsFamilyDetail)
		r.GET("/:id", GetFamily)
		r.PATCH("/:id", UpdateFamily)
		r.DELETE("/:id", DeleteFamily)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Router			/v1/families [options]
func OptionsFamilyList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id} [options]
func OptionsFamilyDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Family{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create families
// @Description	Creates new families
// @Tags			Families
// @Produce		json
// @Success		201			{object}	FamilyCreateResponse
// @Failure		400			{object}	FamilyCreateResponse
// @Failure		500			{object}	FamilyCreateResponse
// @Param			families	body		[]FamilyEditable	true	"Families"
// @Router			/v1/families [post]
func CreateFamilies(c *gin.Context) {
	var editables []FamilyEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FamilyCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := FamilyCreateResponse{}

	for _, editable := range editables {
		family := editable.model()

		err = models.DB.Create(&family).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newFamily(c, family)
		r.Data = append(r.Data, FamilyResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get families
// @Description	Returns a list of families
// @Tags			Families
// @Produce		json
// @Success		200	{object}	FamilyListResponse
// @Failure		400	{object}	FamilyListResponse
// @Failure		500	{object}	FamilyListResponse
// @Router			/v1/families [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			currency	query	string	false	"Filter by currency"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first Family returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Families to return. Defaults to 50."
func GetFamilies(c *gin.Context) {
	var filter FamilyQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Families and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var families []models.Family
	err = q.Find(&families).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FamilyListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Family, 0, len(families))
	for _, family := range families {
		data = append(data, newFamily(c, family))
	}

	c.JSON(http.StatusOK, FamilyListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get family
// @Description	Returns a specific family
// @Tags			Families
// @Produce		json
// @Success		200	{object}	FamilyResponse
// @Failure		400	{object}	FamilyResponse
// @Failure		404	{object}	FamilyResponse
// @Failure		500	{object}	FamilyResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id} [get]
func GetFamily(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyResponse{
			Error: &s,
		})
		return
	}

	var family models.Family
	err = models.DB.First(&family, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyResponse{
			Error: &s,
		})
		return
	}

	data := newFamily(c, family)
	c.JSON(http.StatusOK, FamilyResponse{Data: &data})
}

// @Summary		Update family
// @Description	Updates an existing family. Only values to be updated need to be specified.
// @Tags			Families
// @Accept			json
// @Produce		json
// @Success		200		{object}	FamilyResponse
// @Failure		400		{object}	FamilyResponse
// @Failure		404		{object}	FamilyResponse
// @Failure		500		{object}	FamilyResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			family	body		FamilyEditable	true	"Family"
// @Router			/v1/families/{id} [patch]
func UpdateFamily(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyResponse{
			Error: &s,
		})
		return
	}

	var family models.Family
	err = models.DB.First(&family, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, FamilyEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyResponse{
			Error: &s,
		})
		return
	}

	var data FamilyEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&family).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyResponse{
			Error: &s,
		})
		return
	}

	r := newFamily(c, family)
	c.JSON(http.StatusOK, FamilyResponse{Data: &r})
}

// @Summary		Delete family
// @Description	Deletes a family
// @Tags			Families
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id} [delete]
func DeleteFamily(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var family models.Family
	err = models.DB.First(&family, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&family).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
