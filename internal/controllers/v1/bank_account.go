package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterBankAccountRoutes registers the routes for bank accounts
// with the RouterGroup that is passed.
func RegisterBankAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBankAccountList)
		r.GET("", GetBankAccounts)
		r.POST("", CreateBankAccounts)
	}

	// Bank account with ID
	{
		r.OPTIONS("/:id", OptionsBankAccountDetail)
		r.GET("/:id", GetBankAccount)
		r.PATCH("/:id", UpdateBankAccount)
		r.DELETE("/:id", DeleteBankAccount)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BankAccounts
// @Success		204
// @Router			/v1/bank-accounts [options]
func OptionsBankAccountList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BankAccounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/bank-accounts/{id} [options]
func OptionsBankAccountDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BankAccount{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create bank accounts
// @Description	Creates new bank accounts
// @Tags			BankAccounts
// @Produce		json
// @Success		201			{object}	BankAccountCreateResponse
// @Failure		400			{object}	BankAccountCreateResponse
// @Failure		404			{object}	BankAccountCreateResponse
// @Failure		500			{object}	BankAccountCreateResponse
// @Param			accounts	body		[]BankAccountEditable	true	"Bank accounts"
// @Router			/v1/bank-accounts [post]
func CreateBankAccounts(c *gin.Context) {
	var editables []BankAccountEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankAccountCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BankAccountCreateResponse{}

	for _, editable := range editables {
		account := editable.model()

		err = models.DB.Create(&account).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newBankAccount(c, models.DB, account)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, BankAccountResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get bank accounts
// @Description	Returns a list of bank accounts
// @Tags			BankAccounts
// @Produce		json
// @Success		200	{object}	BankAccountListResponse
// @Failure		400	{object}	BankAccountListResponse
// @Failure		500	{object}	BankAccountListResponse
// @Router			/v1/bank-accounts [get]
// @Param			family		query	string	false	"Filter by family ID"
// @Param			name		query	string	false	"Filter by name"
// @Param			institution	query	string	false	"Filter by institution"
// @Param			archived	query	bool	false	"Is the account archived?"
// @Param			offset		query	uint	false	"The offset of the first account returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of accounts to return. Defaults to 50."
func GetBankAccounts(c *gin.Context) {
	var filter BankAccountQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, BankAccountListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountListResponse{
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

	// Default to 50 accounts and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var accounts []models.BankAccount
	err = q.Find(&accounts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BankAccountListResponse{
			Error: &e,
		})
		return
	}

	data := make([]BankAccount, 0, len(accounts))
	for _, account := range accounts {
		apiResource, err := newBankAccount(c, models.DB, account)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BankAccountListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, BankAccountListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get bank account
// @Description	Returns a specific bank account
// @Tags			BankAccounts
// @Produce		json
// @Success		200	{object}	BankAccountResponse
// @Failure		400	{object}	BankAccountResponse
// @Failure		404	{object}	BankAccountResponse
// @Failure		500	{object}	BankAccountResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/bank-accounts/{id} [get]
func GetBankAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	var account models.BankAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	data, err := newBankAccount(c, models.DB, account)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BankAccountResponse{Data: &data})
}

// @Summary		Update bank account
// @Description	Updates an existing bank account. Only values to be updated need to be specified.
// @Tags			BankAccounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	BankAccountResponse
// @Failure		400		{object}	BankAccountResponse
// @Failure		404		{object}	BankAccountResponse
// @Failure		500		{object}	BankAccountResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			account	body		BankAccountEditable	true	"Bank account"
// @Router			/v1/bank-accounts/{id} [patch]
func UpdateBankAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	var account models.BankAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BankAccountEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	var data BankAccountEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&account).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	r, err := newBankAccount(c, models.DB, account)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BankAccountResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BankAccountResponse{Data: &r})
}

// @Summary		Delete bank account
// @Description	Deletes a bank account with all its transactions
// @Tags			BankAccounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/bank-accounts/{id} [delete]
func DeleteBankAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var account models.BankAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&account).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
