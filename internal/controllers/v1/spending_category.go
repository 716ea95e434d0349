package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterSpendingCategoryRoutes registers the routes for spending
// categories with the RouterGroup that is passed.
func RegisterSpendingCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsSpendingCategoryList)
		r.GET("", GetSpendingCategories)
		r.POST("", CreateSpendingCategories)
	}

	// Spending category with ID
	{
		r.OPTIONS("/:id", OptionsSpendingCategoryDetail)
		r.GET("/:id", GetSpendingCategory)
		r.PATCH("/:id", UpdateSpendingCategory)
		r.DELETE("/:id", DeleteSpendingCategory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SpendingCategories
// @Success		204
// @Router			/v1/spending-categories [options]
func OptionsSpendingCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SpendingCategories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/spending-categories/{id} [options]
func OptionsSpendingCategoryDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.SpendingCategory{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create spending categories
// @Description	Creates new spending categories
// @Tags			SpendingCategories
// @Produce		json
// @Success		201			{object}	SpendingCategoryCreateResponse
// @Failure		400			{object}	SpendingCategoryCreateResponse
// @Failure		404			{object}	SpendingCategoryCreateResponse
// @Failure		500			{object}	SpendingCategoryCreateResponse
// @Param			categories	body		[]SpendingCategoryEditable	true	"Spending categories"
// @Router			/v1/spending-categories [post]
func CreateSpendingCategories(c *gin.Context) {
	var editables []SpendingCategoryEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SpendingCategoryCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := SpendingCategoryCreateResponse{}

	for _, editable := range editables {
		category := editable.model()

		err = models.DB.Create(&category).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newSpendingCategory(c, category)
		r.Data = append(r.Data, SpendingCategoryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get spending categories
// @Description	Returns a list of spending categories
// @Tags			SpendingCategories
// @Produce		json
// @Success		200	{object}	SpendingCategoryListResponse
// @Failure		400	{object}	SpendingCategoryListResponse
// @Failure		500	{object}	SpendingCategoryListResponse
// @Router			/v1/spending-categories [get]
// @Param			family			query	string	false	"Filter by family ID"
// @Param			budgetCategory	query	string	false	"Filter by budget category ID"
// @Param			parent			query	string	false	"Filter by parent category ID"
// @Param			name			query	string	false	"Filter by name"
// @Param			archived		query	bool	false	"Is the category archived?"
// @Param			offset			query	uint	false	"The offset of the first category returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of categories to return. Defaults to 50."
func GetSpendingCategories(c *gin.Context) {
	var filter SpendingCategoryQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, SpendingCategoryListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	if filter.Name != "" {
		q = q.Where("name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("name = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 categories and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var categories []models.SpendingCategory
	err = q.Find(&categories).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SpendingCategoryListResponse{
			Error: &e,
		})
		return
	}

	data := make([]SpendingCategory, 0, len(categories))
	for _, category := range categories {
		data = append(data, newSpendingCategory(c, category))
	}

	c.JSON(http.StatusOK, SpendingCategoryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get spending category
// @Description	Returns a specific spending category
// @Tags			SpendingCategories
// @Produce		json
// @Success		200	{object}	SpendingCategoryResponse
// @Failure		400	{object}	SpendingCategoryResponse
// @Failure		404	{object}	SpendingCategoryResponse
// @Failure		500	{object}	SpendingCategoryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/spending-categories/{id} [get]
func GetSpendingCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryResponse{
			Error: &s,
		})
		return
	}

	var category models.SpendingCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryResponse{
			Error: &s,
		})
		return
	}

	data := newSpendingCategory(c, category)
	c.JSON(http.StatusOK, SpendingCategoryResponse{Data: &data})
}

// @Summary		Update spending category
// @Description	Updates an existing spending category. Only values to be updated need to be specified.
// @Tags			SpendingCategories
// @Accept			json
// @Produce		json
// @Success		200			{object}	SpendingCategoryResponse
// @Failure		400			{object}	SpendingCategoryResponse
// @Failure		404			{object}	SpendingCategoryResponse
// @Failure		500			{object}	SpendingCategoryResponse
// @Param			id			path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			category	body		SpendingCategoryEditable	true	"Spending category"
// @Router			/v1/spending-categories/{id} [patch]
func UpdateSpendingCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryResponse{
			Error: &s,
		})
		return
	}

	var category models.SpendingCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, SpendingCategoryEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryResponse{
			Error: &s,
		})
		return
	}

	var data SpendingCategoryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&category).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SpendingCategoryResponse{
			Error: &s,
		})
		return
	}

	r := newSpendingCategory(c, category)
	c.JSON(http.StatusOK, SpendingCategoryResponse{Data: &r})
}

// @Summary		Delete spending category
// @Description	Deletes a spending category. The deletion is rejected while child categories, payments or transactions still reference the category.
// @Tags			SpendingCategories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/spending-categories/{id} [delete]
func DeleteSpendingCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var category models.SpendingCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&category).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
