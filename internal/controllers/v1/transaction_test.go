package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/hearthledger/backend/internal/controllers/v1"
	"github.com/hearthledger/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Transactions are read-only after import, the detail endpoint only
// answers GET.
func (suite *TestSuiteStandard) TestTransactionsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No transaction with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Transaction exists", createTestTransaction(suite.T(), v1.TransactionEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/transactions", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsCreateFails() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})

	tests := []struct {
		name     string
		body     any
		status   int
		testFunc func(t *testing.T, tr v1.TransactionCreateResponse)
	}{
		{
			"No bank account",
			[]v1.TransactionEditable{
				{
					FamilyID: family.Data.ID,
					Amount:   decimal.NewFromFloat(-12.34),
				},
			},
			http.StatusNotFound,
			func(t *testing.T, tr v1.TransactionCreateResponse) {
				assert.Equal(t, "there is no bank account matching your query", *tr.Data[0].Error)
			},
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, tr v1.TransactionCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *tr.Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var tr v1.TransactionCreateResponse
			test.DecodeResponse(t, &r, &tr)

			if tt.testFunc != nil {
				tt.testFunc(t, tr)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetFilter() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	account := createTestBankAccount(suite.T(), v1.BankAccountEditable{FamilyID: family.Data.ID})
	category := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{FamilyID: family.Data.ID})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		FamilyID:           family.Data.ID,
		BankAccountID:      account.Data.ID,
		Date:               time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		MerchantName:       "Rewe",
		SpendingCategoryID: &category.Data.ID,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		FamilyID:      family.Data.ID,
		BankAccountID: account.Data.ID,
		Date:          time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		MerchantName:  "Edeka",
		Pending:       true,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		MerchantName: "Other family's purchase",
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Family", fmt.Sprintf("family=%s", family.Data.ID), 2},
		{"Account", fmt.Sprintf("account=%s", account.Data.ID), 2},
		{"Spending category", fmt.Sprintf("spendingCategory=%s", category.Data.ID), 1},
		{"Merchant", "merchant=Rewe", 1},
		{"Pending", fmt.Sprintf("family=%s&pending=true", family.Data.ID), 1},
		{"From date", fmt.Sprintf("family=%s&fromDate=2026-08-10", family.Data.ID), 1},
		{"Until date", fmt.Sprintf("family=%s&untilDate=2026-08-10", family.Data.ID), 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.TransactionListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data))
		})
	}
}

// Matching proposes links between transactions and payments without
// persisting anything.
func (suite *TestSuiteStandard) TestTransactionsMatch() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	account := createTestBankAccount(suite.T(), v1.BankAccountEditable{FamilyID: family.Data.ID})

	dueDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	payment := createTestPayment(suite.T(), v1.PaymentEditable{
		FamilyID: family.Data.ID,
		Payee:    "Stadtwerke",
		Amount:   decimal.NewFromFloat(84.17),
		DueDate:  dueDate,
	})

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		FamilyID:      family.Data.ID,
		BankAccountID: account.Data.ID,
		Date:          dueDate,
		Amount:        decimal.NewFromFloat(-84.17),
		MerchantName:  "Stadtwerke",
	})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions/match", v1.MatchRequest{
		FamilyID: family.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.MatchListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), transaction.Data.ID, response.Data[0].TransactionID)
	assert.Equal(suite.T(), payment.Data.ID, response.Data[0].PaymentID)
	assert.InDelta(suite.T(), 1.0, response.Data[0].Confidence, 0.0001)
}

func (suite *TestSuiteStandard) TestTransactionsMatchFails() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Unknown family", v1.MatchRequest{FamilyID: uuid.New()}, http.StatusNotFound},
		{"No body", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions/match", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// The batch endpoint reports per-transaction errors without aborting
// the whole batch.
func (suite *TestSuiteStandard) TestTransactionsCategorize() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	account := createTestBankAccount(suite.T(), v1.BankAccountEditable{FamilyID: family.Data.ID})
	category := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{FamilyID: family.Data.ID})

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		FamilyID:      family.Data.ID,
		BankAccountID: account.Data.ID,
	})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions/categorize", v1.BatchCategorizeRequest{
		FamilyID:           family.Data.ID,
		TransactionIDs:     []uuid.UUID{transaction.Data.ID, uuid.New()},
		SpendingCategoryID: category.Data.ID,
		UserCategorized:    true,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BatchCategorizeResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), 2, response.Data.Summary.TotalRequested)
	assert.Equal(suite.T(), 1, response.Data.Summary.TotalUpdated)
	assert.Equal(suite.T(), 1, response.Data.Summary.TotalErrors)

	// The transaction now carries the category with full confidence
	r = test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var reloaded v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &reloaded)

	require.NotNil(suite.T(), reloaded.Data.SpendingCategoryID)
	assert.Equal(suite.T(), category.Data.ID, *reloaded.Data.SpendingCategoryID)
	assert.True(suite.T(), reloaded.Data.UserCategorized)
	assert.Equal(suite.T(), 1.0, reloaded.Data.CategoryConfidence)
}

func (suite *TestSuiteStandard) TestTransactionsCategorizeFails() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	category := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{FamilyID: family.Data.ID})

	tooMany := make([]uuid.UUID, 101)
	for i := range tooMany {
		tooMany[i] = uuid.New()
	}

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{
			"Empty batch",
			v1.BatchCategorizeRequest{FamilyID: family.Data.ID, SpendingCategoryID: category.Data.ID},
			http.StatusBadRequest,
		},
		{
			"Batch too large",
			v1.BatchCategorizeRequest{FamilyID: family.Data.ID, TransactionIDs: tooMany, SpendingCategoryID: category.Data.ID},
			http.StatusBadRequest,
		},
		{
			"Unknown category",
			v1.BatchCategorizeRequest{FamilyID: family.Data.ID, TransactionIDs: []uuid.UUID{uuid.New()}, SpendingCategoryID: uuid.New()},
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions/categorize", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsUncategorized() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	account := createTestBankAccount(suite.T(), v1.BankAccountEditable{FamilyID: family.Data.ID})
	category := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{
		FamilyID: family.Data.ID,
		Name:     "Groceries",
	})

	_ = createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		FamilyID:           family.Data.ID,
		Match:              "Rewe*",
		SpendingCategoryID: category.Data.ID,
	})

	uncategorized := createTestTransaction(suite.T(), v1.TransactionEditable{
		FamilyID:      family.Data.ID,
		BankAccountID: account.Data.ID,
		MerchantName:  "REWE Markt Koeln",
	})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions/uncategorized?family=%s&threshold=0.5", family.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UncategorizedListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), uncategorized.Data.ID, response.Data[0].Transaction.ID)
	require.NotNil(suite.T(), response.Data[0].Suggestion)
	assert.Equal(suite.T(), category.Data.ID, response.Data[0].Suggestion.ID)
}

func (suite *TestSuiteStandard) TestTransactionsUncategorizedFails() {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"Family not set", "", http.StatusBadRequest},
		{"Unknown family", fmt.Sprintf("family=%s", uuid.New()), http.StatusNotFound},
		{"Invalid family", "family=NotAUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions/uncategorized?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.UncategorizedListResponse
			test.DecodeResponse(t, &r, &response)
			require.NotNil(t, response.Error)
		})
	}
}
