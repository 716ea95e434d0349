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

// RegisterBudgetCategoryRoutes registers the routes for budget
// categories with the RouterGroup that is passed.
func RegisterBudgetCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetCategoryList)
		r.GET("", GetBudgetCategories)
		r.POST("", CreateBudgetCategories)
	}

	// Template
	{
		r.OPTIONS("/template", OptionsBudgetCategoryTemplate)
		r.POST("/template", ApplyBudgetTemplate)
	}

	// Budget category with ID
	{
		r.OPTIONS("/:id", OptionsBudgetCategoryDetail)
		r.GET("/:id", GetBudgetCategory)
		r.PATCH("/:id", UpdateBudgetCategory)
		r.DELETE("/:id", DeleteBudgetCategory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetCategories
// @Success		204
// @Router			/v1/budget-categories [options]
func OptionsBudgetCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetCategories
// @Success		204
// @Router			/v1/budget-categories/template [options]
func OptionsBudgetCategoryTemplate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetCategories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-categories/{id} [options]
func OptionsBudgetCategoryDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BudgetCategory{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create budget categories
// @Description	Creates new budget categories
// @Tags			BudgetCategories
// @Produce		json
// @Success		201			{object}	BudgetCategoryCreateResponse
// @Failure		400			{object}	BudgetCategoryCreateResponse
// @Failure		404			{object}	BudgetCategoryCreateResponse
// @Failure		500			{object}	BudgetCategoryCreateResponse
// @Param			categories	body		[]BudgetCategoryEditable	true	"Budget categories"
// @Router			/v1/budget-categories [post]
func CreateBudgetCategories(c *gin.Context) {
	var editables []BudgetCategoryEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetCategoryCreateResponse{}

	for _, editable := range editables {
		category := editable.model()

		err = models.DB.Create(&category).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBudgetCategory(c, category)
		r.Data = append(r.Data, BudgetCategoryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Apply template
// @Description	Creates or updates the budget categories of a family from a named template. Categories are matched by name, case-insensitive. Active categories not named in the template get their target percentage set to zero. The template is rejected as a whole when any entry is invalid.
// @Tags			BudgetCategories
// @Accept			json
// @Produce		json
// @Success		200			{object}	BudgetTemplateResponse
// @Failure		400			{object}	BudgetTemplateResponse
// @Failure		404			{object}	BudgetTemplateResponse
// @Failure		500			{object}	BudgetTemplateResponse
// @Param			template	body		BudgetTemplate	true	"Template"
// @Router			/v1/budget-categories/template [post]
func ApplyBudgetTemplate(c *gin.Context) {
	var template BudgetTemplate

	err := httputil.BindData(c, &template)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetTemplateResponse{
			Error: &e,
		})
		return
	}

	categories, err := engine.ApplyTemplate(models.DB, template.FamilyID, template.Categories)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetTemplateResponse{
			Error: &e,
		})
		return
	}

	data := make([]BudgetCategory, 0, len(categories))
	for _, category := range categories {
		data = append(data, newBudgetCategory(c, category))
	}

	c.JSON(http.StatusOK, BudgetTemplateResponse{Data: data})
}

// @Summary		Get budget categories
// @Description	Returns a list of budget categories
// @Tags			BudgetCategories
// @Produce		json
// @Success		200	{object}	BudgetCategoryListResponse
// @Failure		400	{object}	BudgetCategoryListResponse
// @Failure		500	{object}	BudgetCategoryListResponse
// @Router			/v1/budget-categories [get]
// @Param			family		query	string	false	"Filter by family ID"
// @Param			name		query	string	false	"Filter by name"
// @Param			archived	query	bool	false	"Is the category archived?"
// @Param			offset		query	uint	false	"The offset of the first category returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of categories to return. Defaults to 50."
func GetBudgetCategories(c *gin.Context) {
	var filter BudgetCategoryQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, BudgetCategoryListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("sort_order ASC, id ASC").
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

	var categories []models.BudgetCategory
	err = q.Find(&categories).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetCategoryListResponse{
			Error: &e,
		})
		return
	}

	data := make([]BudgetCategory, 0, len(categories))
	for _, category := range categories {
		data = append(data, newBudgetCategory(c, category))
	}

	c.JSON(http.StatusOK, BudgetCategoryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get budget category
// @Description	Returns a specific budget category
// @Tags			BudgetCategories
// @Produce		json
// @Success		200	{object}	BudgetCategoryResponse
// @Failure		400	{object}	BudgetCategoryResponse
// @Failure		404	{object}	BudgetCategoryResponse
// @Failure		500	{object}	BudgetCategoryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-categories/{id} [get]
func GetBudgetCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{
			Error: &s,
		})
		return
	}

	var category models.BudgetCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{
			Error: &s,
		})
		return
	}

	data := newBudgetCategory(c, category)
	c.JSON(http.StatusOK, BudgetCategoryResponse{Data: &data})
}

// @Summary		Update budget category
// @Description	Updates an existing budget category. Only values to be updated need to be specified.
// @Tags			BudgetCategories
// @Accept			json
// @Produce		json
// @Success		200			{object}	BudgetCategoryResponse
// @Failure		400			{object}	BudgetCategoryResponse
// @Failure		404			{object}	BudgetCategoryResponse
// @Failure		500			{object}	BudgetCategoryResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			category	body		BudgetCategoryEditable	true	"Budget category"
// @Router			/v1/budget-categories/{id} [patch]
func UpdateBudgetCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{
			Error: &s,
		})
		return
	}

	var category models.BudgetCategory
	err = models.DB.First(&category, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetCategoryEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{
			Error: &s,
		})
		return
	}

	var data BudgetCategoryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&category).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetCategoryResponse{
			Error: &s,
		})
		return
	}

	r := newBudgetCategory(c, category)
	c.JSON(http.StatusOK, BudgetCategoryResponse{Data: &r})
}

// @Summary		Delete budget category
// @Description	Deletes a budget category with all its allocations
// @Tags			BudgetCategories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-categories/{id} [delete]
func DeleteBudgetCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var category models.BudgetCategory
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
