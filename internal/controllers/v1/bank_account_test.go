package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/hearthledger/backend/internal/controllers/v1"
	"github.com/hearthledger/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestBankAccountsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No account with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Account exists", createTestBankAccount(suite.T(), v1.BankAccountEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/bank-accounts", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// The account balance is computed from the initial balance and all
// transactions booked on the account.
func (suite *TestSuiteStandard) TestBankAccountsBalance() {
	account := createTestBankAccount(suite.T(), v1.BankAccountEditable{
		InitialBalance: decimal.NewFromFloat(100),
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		FamilyID:      account.Data.FamilyID,
		BankAccountID: account.Data.ID,
		Amount:        decimal.NewFromFloat(-33.12),
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		FamilyID:      account.Data.FamilyID,
		BankAccountID: account.Data.ID,
		Amount:        decimal.NewFromFloat(2500),
	})

	r := test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BankAccountResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromFloat(2566.88)), "balance is %s", response.Data.Balance)
}

func (suite *TestSuiteStandard) TestBankAccountsCreateFails() {
	tests := []struct {
		name     string
		body     any
		status   int
		testFunc func(t *testing.T, a v1.BankAccountCreateResponse)
	}{
		{
			"No family",
			`[{ "name": "Orphaned account" }]`,
			http.StatusNotFound,
			func(t *testing.T, a v1.BankAccountCreateResponse) {
				assert.Equal(t, "there is no family matching your query", *a.Data[0].Error)
			},
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, a v1.BankAccountCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *a.Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/bank-accounts", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var a v1.BankAccountCreateResponse
			test.DecodeResponse(t, &r, &a)

			if tt.testFunc != nil {
				tt.testFunc(t, a)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestBankAccountsGetFilter() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})

	_ = createTestBankAccount(suite.T(), v1.BankAccountEditable{
		FamilyID:    family.Data.ID,
		Name:        "Joint checking",
		Institution: "Sparkasse",
	})

	_ = createTestBankAccount(suite.T(), v1.BankAccountEditable{
		FamilyID:    family.Data.ID,
		Name:        "Savings",
		Institution: "ING",
		Archived:    true,
	})

	_ = createTestBankAccount(suite.T(), v1.BankAccountEditable{
		Name:        "Other family's account",
		Institution: "Sparkasse",
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Family", fmt.Sprintf("family=%s", family.Data.ID), 2},
		{"Family and institution", fmt.Sprintf("family=%s&institution=Sparkasse", family.Data.ID), 1},
		{"Institution", "institution=Sparkasse", 2},
		{"Archived", "archived=true", 1},
		{"Not archived", "archived=false", 2},
		{"Fuzzy name", "name=check", 1},
		{"Non-existing family", "family=cb1348ad-930d-4c07-b793-22b8b9dbdb4e", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.BankAccountListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/bank-accounts?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data))
		})
	}
}

func (suite *TestSuiteStandard) TestBankAccountsUpdate() {
	account := createTestBankAccount(suite.T(), v1.BankAccountEditable{Name: "Checking"})

	r := test.Request(suite.T(), http.MethodPatch, account.Data.Links.Self, map[string]any{
		"name":     "Renamed checking",
		"archived": true,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.BankAccountResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	assert.Equal(suite.T(), "Renamed checking", updated.Data.Name)
	assert.True(suite.T(), updated.Data.Archived)
}

func (suite *TestSuiteStandard) TestBankAccountsDelete() {
	account := createTestBankAccount(suite.T(), v1.BankAccountEditable{})

	r := test.Request(suite.T(), http.MethodDelete, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBankAccountsDBClosed() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/bank-accounts", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)

	var response v1.BankAccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Error)
}
