package v1_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/hearthledger/backend/internal/controllers/v1"
	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFamiliesDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestFamiliesDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestFamily(t, v1.FamilyEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/families", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.FamilyListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestFamiliesOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestFamiliesOptions() {
	tests := []struct {
		name   string
		id     string // path at the families endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No family with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Family exists", createTestFamily(suite.T(), v1.FamilyEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/families", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestFamiliesGetSingle verifies that requests for the resource endpoints are
// handled correctly.
func (suite *TestSuiteStandard) TestFamiliesGetSingle() {
	f := createTestFamily(suite.T(), v1.FamilyEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing family", f.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No family with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (positive number)", "23", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodPatch},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodDelete},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/families/%s", tt.id), "")

			var family v1.FamilyResponse
			test.DecodeResponse(t, &r, &family)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestFamiliesGetFilter() {
	_ = createTestFamily(suite.T(), v1.FamilyEditable{
		Name:     "Miller household",
		Note:     "Joint finances",
		Currency: "€",
	})

	_ = createTestFamily(suite.T(), v1.FamilyEditable{
		Name:     "Smith household",
		Note:     "Separate accounts, shared rent",
		Currency: "$",
	})

	_ = createTestFamily(suite.T(), v1.FamilyEditable{
		Name:     "Shared flat",
		Currency: "€",
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Currency €", "currency=€", 2},
		{"Currency $", "currency=$", 1},
		{"Fuzzy name", "name=household", 2},
		{"Empty name", "name=", 0},
		{"Fuzzy note", "note=rent", 1},
		{"Empty note", "note=", 1},
		{"Search for 'shared'", "search=shared", 2},
		{"Offset 2", "offset=2", 1},
		{"Offset 0, limit 2", "offset=0&limit=2", 2},
		{"Limit 4", "limit=4", 3},
		{"Limit 0", "limit=0", 0},
		{"Limit -1", "limit=-1", 3},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.FamilyListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/families?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestFamiliesCreateFails() {
	tests := []struct {
		name     string
		body     any
		status   int // expected HTTP status
		testFunc func(t *testing.T, f v1.FamilyCreateResponse)
	}{
		{
			"Broken Body", `[{ "note": 2 }]`, http.StatusBadRequest,
			func(t *testing.T, f v1.FamilyCreateResponse) {
				assert.Equal(t, "json: cannot unmarshal number into Go struct field FamilyEditable.note of type string", *f.Error)
			},
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, f v1.FamilyCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *f.Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/families", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var f v1.FamilyCreateResponse
			test.DecodeResponse(t, &r, &f)

			if tt.testFunc != nil {
				tt.testFunc(t, f)
			}
		})
	}
}

// Verify that updating families works as desired
func (suite *TestSuiteStandard) TestFamiliesUpdate() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{Name: "Name of the family"})

	tests := []struct {
		name     string                                  // name of the test
		family   map[string]any                          // the updates to perform. This is not a struct because that would set all fields on the request
		testFunc func(t *testing.T, f v1.FamilyResponse) // tests to perform against the updated family resource
	}{
		{
			"Name, Note",
			map[string]any{
				"name": "Another name",
				"note": "New note!",
			},
			func(t *testing.T, f v1.FamilyResponse) {
				assert.Equal(t, "New note!", f.Data.Note)
				assert.Equal(t, "Another name", f.Data.Name)
			},
		},
		{
			"Currency",
			map[string]any{
				"currency": "£",
			},
			func(t *testing.T, f v1.FamilyResponse) {
				assert.Equal(t, "£", f.Data.Currency)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, family.Data.Links.Self, tt.family)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var f v1.FamilyResponse
			test.DecodeResponse(t, &r, &f)

			if tt.testFunc != nil {
				tt.testFunc(t, f)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestFamiliesUpdateFails() {
	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Invalid type", "", `{"name": 2}`, http.StatusBadRequest},
		{"Broken JSON", "", `{ "name": 2" }`, http.StatusBadRequest},
		{"Non-existing family", uuid.New().String(), `{"name": "Updated"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				family := createTestFamily(suite.T(), v1.FamilyEditable{})
				tt.id = family.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/families/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestFamiliesDelete verifies all cases for family deletions.
func (suite *TestSuiteStandard) TestFamiliesDelete() {
	tests := []struct {
		name   string
		id     string
		status int // expected response status
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing family", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				f := createTestFamily(t, v1.FamilyEditable{})
				tt.id = f.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/families/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestFamiliesGetSorted verifies that families are sorted by name.
func (suite *TestSuiteStandard) TestFamiliesGetSorted() {
	f1 := createTestFamily(suite.T(), v1.FamilyEditable{
		Name: "Alphabetically first",
	})

	f2 := createTestFamily(suite.T(), v1.FamilyEditable{
		Name: "Second in creation, third in list",
	})

	f3 := createTestFamily(suite.T(), v1.FamilyEditable{
		Name: "First is alphabetically second",
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/families", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var families v1.FamilyListResponse
	test.DecodeResponse(suite.T(), &r, &families)

	require.Len(suite.T(), families.Data, 3, "Family list has wrong length")

	assert.Equal(suite.T(), f1.Data.Name, families.Data[0].Name)
	assert.Equal(suite.T(), f2.Data.Name, families.Data[2].Name)
	assert.Equal(suite.T(), f3.Data.Name, families.Data[1].Name)
}

func (suite *TestSuiteStandard) TestFamiliesPagination() {
	for i := 0; i < 10; i++ {
		createTestFamily(suite.T(), v1.FamilyEditable{Name: fmt.Sprint(i)})
	}

	tests := []struct {
		name          string
		offset        uint
		limit         int
		expectedCount int
		expectedTotal int64
	}{
		{"All", 0, -1, 10, 10},
		{"First 5", 0, 5, 5, 10},
		{"Last 5", 5, -1, 5, 10},
		{"Offset 3", 3, -1, 7, 10},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/families?offset=%d&limit=%d", tt.offset, tt.limit), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

			var families v1.FamilyListResponse
			test.DecodeResponse(t, &r, &families)

			assert.Equal(suite.T(), tt.offset, families.Pagination.Offset)
			assert.Equal(suite.T(), tt.limit, families.Pagination.Limit)
			assert.Equal(suite.T(), tt.expectedCount, families.Pagination.Count)
			assert.Equal(suite.T(), tt.expectedTotal, families.Pagination.Total)
		})
	}
}
