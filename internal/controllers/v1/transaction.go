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

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransactions)
	}

	// Reconciliation and categorization
	{
		r.OPTIONS("/match", OptionsTransactionMatch)
		r.POST("/match", MatchTransactions)
		r.OPTIONS("/categorize", OptionsTransactionCategorize)
		r.POST("/categorize", CategorizeTransactions)
		r.OPTIONS("/uncategorized", OptionsTransactionUncategorized)
		r.GET("/uncategorized", GetUncategorizedTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions/match [options]
func OptionsTransactionMatch(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions/categorize [options]
func OptionsTransactionCategorize(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions/uncategorized [options]
func OptionsTransactionUncategorized(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Transaction{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create transactions
// @Description	Creates new transactions. This is the entry point used by bank sync.
// @Tags			Transactions
// @Produce		json
// @Success		201				{object}	TransactionCreateResponse
// @Failure		400				{object}	TransactionCreateResponse
// @Failure		404				{object}	TransactionCreateResponse
// @Failure		500				{object}	TransactionCreateResponse
// @Param			transactions	body		[]TransactionEditable	true	"Transactions"
// @Router			/v1/transactions [post]
func CreateTransactions(c *gin.Context) {
	var editables []TransactionEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := TransactionCreateResponse{}

	for _, editable := range editables {
		transaction := editable.model()

		err = models.DB.Create(&transaction).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newTransaction(c, transaction)
		r.Data = append(r.Data, TransactionResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get transactions
// @Description	Returns a list of transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			family				query	string	false	"Filter by family ID"
// @Param			account				query	string	false	"Filter by bank account ID"
// @Param			spendingCategory	query	string	false	"Filter by spending category ID"
// @Param			merchant			query	string	false	"Filter by merchant name"
// @Param			pending				query	bool	false	"Is the transaction pending?"
// @Param			fromDate			query	string	false	"Transactions on or after this date"
// @Param			untilDate			query	string	false	"Transactions on or before this date"
// @Param			offset				query	uint	false	"The offset of the first transaction returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of transactions to return. Defaults to 50."
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("date DESC, id ASC").
		Where(&filterModel, queryFields...)

	if filter.MerchantName != "" {
		q = q.Where("merchant_name LIKE ?", fmt.Sprintf("%%%s%%", filter.MerchantName))
	} else if slices.Contains(setFields, "MerchantName") {
		q = q.Where("merchant_name = ''")
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("date >= date(?)", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("date <= date(?)", filter.UntilDate)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 transactions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transactions []models.Transaction
	err = q.Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Match transactions
// @Description	Proposes links between unlinked bank transactions and open payments. Pairs are scored by amount equality, merchant similarity and date proximity and claimed in descending confidence order, so no transaction or payment appears twice. Nothing is persisted.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200		{object}	MatchListResponse
// @Failure		400		{object}	MatchListResponse
// @Failure		404		{object}	MatchListResponse
// @Failure		500		{object}	MatchListResponse
// @Param			request	body		MatchRequest	true	"Match request"
// @Router			/v1/transactions/match [post]
func MatchTransactions(c *gin.Context) {
	var request MatchRequest

	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MatchListResponse{
			Error: &e,
		})
		return
	}

	matches, err := engine.MatchTransactions(models.DB, request.FamilyID, engine.MatchOptions{
		From:           request.From,
		To:             request.To,
		BankAccountIDs: request.BankAccountIDs,
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MatchListResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, MatchListResponse{Data: matches})
}

// @Summary		Categorize transactions
// @Description	Assigns a spending category to up to 100 transactions. Transactions that cannot be updated are reported individually, they do not abort the batch.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200		{object}	BatchCategorizeResponse
// @Failure		400		{object}	BatchCategorizeResponse
// @Failure		404		{object}	BatchCategorizeResponse
// @Failure		500		{object}	BatchCategorizeResponse
// @Param			request	body		BatchCategorizeRequest	true	"Categorization request"
// @Router			/v1/transactions/categorize [post]
func CategorizeTransactions(c *gin.Context) {
	var request BatchCategorizeRequest

	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BatchCategorizeResponse{
			Error: &e,
		})
		return
	}

	result, err := engine.BatchCategorize(models.DB, request.FamilyID, request.TransactionIDs, request.SpendingCategoryID, request.UserCategorized)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BatchCategorizeResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, BatchCategorizeResponse{Data: &result})
}

// @Summary		Get uncategorized transactions
// @Description	Returns transactions without a category or with a category confidence below the threshold, newest first, together with a suggestion where one can be computed
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	UncategorizedListResponse
// @Failure		400	{object}	UncategorizedListResponse
// @Failure		404	{object}	UncategorizedListResponse
// @Failure		500	{object}	UncategorizedListResponse
// @Router			/v1/transactions/uncategorized [get]
// @Param			family		query	string	true	"ID of the family"
// @Param			threshold	query	number	false	"Confidence below which a transaction counts as uncategorized. Defaults to 0."
// @Param			offset		query	int		false	"The offset of the first transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of transactions to return. Defaults to 50."
func GetUncategorizedTransactions(c *gin.Context) {
	var filter UncategorizedQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, UncategorizedListResponse{
			Error: &s,
		})
		return
	}

	if !c.Request.URL.Query().Has("family") {
		s := errFamilyNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, UncategorizedListResponse{
			Error: &s,
		})
		return
	}

	result, err := engine.Uncategorized(models.DB, filter.FamilyID.UUID, filter.Threshold, filter.Limit, filter.Offset)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UncategorizedListResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, UncategorizedListResponse{Data: result})
}
