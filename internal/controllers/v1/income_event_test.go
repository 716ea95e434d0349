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

func (suite *TestSuiteStandard) TestIncomeEventsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No income event with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Income event exists", createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/income-events", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestIncomeEventsCreateFails() {
	tests := []struct {
		name     string
		body     any
		status   int
		testFunc func(t *testing.T, e v1.IncomeEventCreateResponse)
	}{
		{
			"No family",
			`[{ "name": "Salary", "amount": "2500" }]`,
			http.StatusNotFound,
			func(t *testing.T, e v1.IncomeEventCreateResponse) {
				assert.Equal(t, "there is no family matching your query", *e.Data[0].Error)
			},
		},
		{
			"Invalid status",
			[]v1.IncomeEventEditable{
				{
					FamilyID: createTestFamily(suite.T(), v1.FamilyEditable{}).Data.ID,
					Amount:   decimal.NewFromFloat(2500),
					Status:   "maybe",
				},
			},
			http.StatusBadRequest,
			nil,
		},
		{
			"Amount missing",
			[]v1.IncomeEventEditable{
				{
					FamilyID: createTestFamily(suite.T(), v1.FamilyEditable{}).Data.ID,
				},
			},
			http.StatusBadRequest,
			nil,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/income-events", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var e v1.IncomeEventCreateResponse
			test.DecodeResponse(t, &r, &e)

			if tt.testFunc != nil {
				tt.testFunc(t, e)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestIncomeEventsGetFilter() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})

	_ = createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{
		FamilyID: family.Data.ID,
		Name:     "Salary July",
	})

	_ = createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{
		FamilyID:       family.Data.ID,
		Name:           "Salary August",
		ReceivedAmount: decimal.NewFromFloat(2500),
		Status:         "received",
	})

	_ = createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{
		Name: "Other family's salary",
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Family", fmt.Sprintf("family=%s", family.Data.ID), 2},
		{"Status scheduled", fmt.Sprintf("family=%s&status=scheduled", family.Data.ID), 1},
		{"Status received", "status=received", 1},
		{"Fuzzy name", "name=Salary", 3},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.IncomeEventListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/income-events?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data))
		})
	}
}

// Allocating an income event splits the received amount across the
// active budget categories and reports the result.
func (suite *TestSuiteStandard) TestIncomeEventsAllocate() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})

	_ = createTestBudgetCategory(suite.T(), v1.BudgetCategoryEditable{
		FamilyID:         family.Data.ID,
		Name:             "Needs",
		TargetPercentage: decimal.NewFromFloat(50),
		SortOrder:        0,
	})
	_ = createTestBudgetCategory(suite.T(), v1.BudgetCategoryEditable{
		FamilyID:         family.Data.ID,
		Name:             "Wants",
		TargetPercentage: decimal.NewFromFloat(50),
		SortOrder:        1,
	})

	event := createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{
		FamilyID:       family.Data.ID,
		Amount:         decimal.NewFromFloat(1000),
		ReceivedAmount: decimal.NewFromFloat(1000),
		Status:         "received",
	})

	r := test.Request(suite.T(), http.MethodPost, event.Data.Links.Allocate, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Len(suite.T(), response.Data.Categories, 2)
	assert.True(suite.T(), response.Data.AllocatedAmount.Equal(decimal.NewFromFloat(1000)), "allocated amount is %s", response.Data.AllocatedAmount)
	assert.True(suite.T(), response.Data.IsComplete)

	// The read-only endpoint returns the same allocations
	r = test.Request(suite.T(), http.MethodGet, event.Data.Links.Allocations, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data.Categories, 2)
}

func (suite *TestSuiteStandard) TestIncomeEventsAllocateEmpty() {
	// Without active budget categories the allocation is empty, not an
	// error
	event := createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{
		ReceivedAmount: decimal.NewFromFloat(1000),
		Status:         "received",
	})

	r := test.Request(suite.T(), http.MethodPost, event.Data.Links.Allocate, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 0, response.Data.AllocationCount)
	assert.False(suite.T(), response.Data.IsComplete)

	// Unknown income event
	r = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/income-events/%s/allocate", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// The computed fields of an income event reflect its allocations and
// attributions.
func (suite *TestSuiteStandard) TestIncomeEventsComputedFields() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})

	event := createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{
		FamilyID:       family.Data.ID,
		Amount:         decimal.NewFromFloat(1000),
		ReceivedAmount: decimal.NewFromFloat(1000),
		Status:         "received",
	})

	_ = createTestPayment(suite.T(), v1.PaymentEditable{
		FamilyID: family.Data.ID,
		Amount:   decimal.NewFromFloat(300),
	})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments/auto-attribute", v1.AutoAttributeRequest{
		FamilyID: family.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, event.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.IncomeEventResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.True(suite.T(), response.Data.RemainingBalance.Equal(decimal.NewFromFloat(700)), "remaining balance is %s", response.Data.RemainingBalance)
}

func (suite *TestSuiteStandard) TestIncomeEventsDelete() {
	event := createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{})

	r := test.Request(suite.T(), http.MethodDelete, event.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, event.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
