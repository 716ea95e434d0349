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
)

func (suite *TestSuiteStandard) TestSpendingCategoriesOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No category with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Category exists", createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/spending-categories", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestSpendingCategoriesCreateFails() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})

	existing := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{
		FamilyID: family.Data.ID,
		Name:     "Groceries",
	})

	otherFamily := createTestFamily(suite.T(), v1.FamilyEditable{})
	foreignParent := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{
		FamilyID: otherFamily.Data.ID,
	})

	tests := []struct {
		name     string
		body     any
		status   int
		testFunc func(t *testing.T, c v1.SpendingCategoryCreateResponse)
	}{
		{
			"Duplicate name in family",
			[]v1.SpendingCategoryEditable{
				{
					FamilyID: existing.Data.FamilyID,
					Name:     existing.Data.Name,
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, c v1.SpendingCategoryCreateResponse) {
				assert.Equal(t, "the spending category name is already in use for this family", *c.Data[0].Error)
			},
		},
		{
			"Parent of another family",
			[]v1.SpendingCategoryEditable{
				{
					FamilyID:         family.Data.ID,
					Name:             "Drug store",
					ParentCategoryID: &foreignParent.Data.ID,
				},
			},
			http.StatusBadRequest,
			nil,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/spending-categories", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var c v1.SpendingCategoryCreateResponse
			test.DecodeResponse(t, &r, &c)

			if tt.testFunc != nil {
				tt.testFunc(t, c)
			}
		})
	}
}

// Categories that are still referenced cannot be deleted.
func (suite *TestSuiteStandard) TestSpendingCategoriesDelete() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	account := createTestBankAccount(suite.T(), v1.BankAccountEditable{FamilyID: family.Data.ID})

	used := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{FamilyID: family.Data.ID})
	unused := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{FamilyID: family.Data.ID})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		FamilyID:           family.Data.ID,
		BankAccountID:      account.Data.ID,
		SpendingCategoryID: &used.Data.ID,
	})

	r := test.Request(suite.T(), http.MethodDelete, used.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodDelete, unused.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestSpendingCategoriesGetFilter() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	budget := createTestBudgetCategory(suite.T(), v1.BudgetCategoryEditable{FamilyID: family.Data.ID})

	parent := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{
		FamilyID:         family.Data.ID,
		Name:             "Household",
		BudgetCategoryID: &budget.Data.ID,
	})

	_ = createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{
		FamilyID:         family.Data.ID,
		Name:             "Cleaning",
		ParentCategoryID: &parent.Data.ID,
	})

	_ = createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{
		FamilyID: family.Data.ID,
		Name:     "Archived category",
		Archived: true,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Family", fmt.Sprintf("family=%s", family.Data.ID), 3},
		{"Budget category", fmt.Sprintf("budgetCategory=%s", budget.Data.ID), 1},
		{"Parent", fmt.Sprintf("parent=%s", parent.Data.ID), 1},
		{"Archived", fmt.Sprintf("family=%s&archived=true", family.Data.ID), 1},
		{"Fuzzy name", "name=Clean", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.SpendingCategoryListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/spending-categories?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data))
		})
	}
}

func (suite *TestSuiteStandard) TestSpendingCategoriesUpdate() {
	category := createTestSpendingCategory(suite.T(), v1.SpendingCategoryEditable{Name: "Groceries"})

	r := test.Request(suite.T(), http.MethodPatch, category.Data.Links.Self, map[string]any{
		"monthlyTarget": "450",
		"icon":          "cart",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.SpendingCategoryResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	assert.True(suite.T(), updated.Data.MonthlyTarget.Equal(decimal.NewFromFloat(450)))
	assert.Equal(suite.T(), "cart", updated.Data.Icon)
}
