package engine

import (
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// batchLimit caps the number of transactions per categorization call.
const batchLimit = 100

// BatchError records why a single transaction could not be categorized.
type BatchError struct {
	TransactionID uuid.UUID `json:"transactionId" example:"d07595ea-a9d1-40f3-a2af-0185b7e0b0ed"` // ID of the transaction
	Error         string    `json:"error" example:"there is no transaction matching your query"`  // The error for this transaction
}

// BatchSummary sums up a batch categorization.
type BatchSummary struct {
	TotalRequested int `json:"totalRequested" example:"4"` // Number of transaction IDs in the request
	TotalUpdated   int `json:"totalUpdated" example:"3"`   // Number of transactions updated
	TotalErrors    int `json:"totalErrors" example:"1"`    // Number of transactions that failed
}

// BatchCategorizeResult is the outcome of a batch categorization.
// Partial success is the designed behavior: failing transactions are
// reported individually and do not roll back the others.
type BatchCategorizeResult struct {
	Updated []uuid.UUID  `json:"updated"` // IDs of the updated transactions
	Errors  []BatchError `json:"errors"`  // Per-transaction errors
	Summary BatchSummary `json:"summary"` // Computed summary
}

// BatchCategorize assigns a spending category to up to 100
// transactions.
//
// The target category must belong to the family and be active. Each
// transaction is validated and updated independently: a transaction
// that does not exist or does not belong to the family is recorded in
// the error list without aborting the batch.
func BatchCategorize(db *gorm.DB, familyID uuid.UUID, transactionIDs []uuid.UUID, spendingCategoryID uuid.UUID, userCategorized bool) (BatchCategorizeResult, error) {
	if len(transactionIDs) == 0 {
		return BatchCategorizeResult{}, models.ErrBatchEmpty
	}

	if len(transactionIDs) > batchLimit {
		return BatchCategorizeResult{}, models.ErrBatchTooLarge
	}

	var category models.SpendingCategory
	err := db.First(&category, "id = ? AND family_id = ?", spendingCategoryID, familyID).Error
	if err != nil {
		return BatchCategorizeResult{}, err
	}

	if category.Archived {
		return BatchCategorizeResult{}, models.ErrSpendingCategoryArchived
	}

	result := BatchCategorizeResult{
		Updated: make([]uuid.UUID, 0, len(transactionIDs)),
		Errors:  make([]BatchError, 0),
	}

	for _, id := range transactionIDs {
		var transaction models.Transaction
		err := db.First(&transaction, "id = ? AND family_id = ?", id, familyID).Error
		if err != nil {
			result.Errors = append(result.Errors, BatchError{TransactionID: id, Error: err.Error()})
			continue
		}

		transaction.SpendingCategoryID = &category.ID
		transaction.UserCategorized = userCategorized
		if userCategorized {
			transaction.CategoryConfidence = 1.0
		}

		err = db.Model(&transaction).
			Select("SpendingCategoryID", "UserCategorized", "CategoryConfidence").
			Updates(transaction).Error
		if err != nil {
			result.Errors = append(result.Errors, BatchError{TransactionID: id, Error: err.Error()})
			continue
		}

		result.Updated = append(result.Updated, id)
	}

	result.Summary = BatchSummary{
		TotalRequested: len(transactionIDs),
		TotalUpdated:   len(result.Updated),
		TotalErrors:    len(result.Errors),
	}

	return result, nil
}

// CategorySuggestion is a best-effort suggestion for an uncategorized
// transaction.
type CategorySuggestion struct {
	ID   uuid.UUID `json:"id" example:"2c26c9cd-8a52-4dd8-bfd6-887b5f18c1e5"` // ID of the suggested spending category
	Name string    `json:"name" example:"Groceries"`                          // Name of the suggested spending category
}

// UncategorizedTransaction is a transaction that still needs a
// category, together with an optional suggestion.
type UncategorizedTransaction struct {
	Transaction models.Transaction  `json:"transaction"` // The transaction
	Suggestion  *CategorySuggestion `json:"suggestion"`  // Suggested category, if one could be computed
}

// Uncategorized returns transactions without a category or with a
// category confidence below the threshold, newest first, paginated.
//
// For each transaction a category suggestion is computed: first the
// family's category rules are evaluated by ascending priority, then
// the most frequent historical merchant association is used.
func Uncategorized(db *gorm.DB, familyID uuid.UUID, confidenceThreshold float64, limit, offset int) ([]UncategorizedTransaction, error) {
	err := db.First(&models.Family{}, familyID).Error
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}

	var transactions []models.Transaction
	err = db.
		Where(&models.Transaction{FamilyID: familyID}).
		Where("spending_category_id IS NULL OR category_confidence < ?", confidenceThreshold).
		Order("date DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	var rules []models.CategoryRule
	err = db.
		Where(&models.CategoryRule{FamilyID: familyID}).
		Order("priority ASC, match ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	result := make([]UncategorizedTransaction, 0, len(transactions))
	for _, transaction := range transactions {
		suggestion, err := suggestCategory(db, familyID, transaction.MerchantName, rules)
		if err != nil {
			return nil, err
		}

		result = append(result, UncategorizedTransaction{
			Transaction: transaction,
			Suggestion:  suggestion,
		})
	}

	return result, nil
}

// suggestCategory computes the category suggestion for a merchant
// name. Returns nil when there is nothing to suggest.
func suggestCategory(db *gorm.DB, familyID uuid.UUID, merchant string, rules []models.CategoryRule) (*CategorySuggestion, error) {
	if merchant == "" {
		return nil, nil
	}

	fold := cases.Fold()
	name := fold.String(merchant)

	// Explicit rules win over historical associations
	for _, rule := range rules {
		if glob.Glob(fold.String(rule.Match), name) {
			var category models.SpendingCategory
			err := db.First(&category, rule.SpendingCategoryID).Error
			if err != nil {
				return nil, err
			}

			return &CategorySuggestion{ID: category.ID, Name: category.Name}, nil
		}
	}

	// Most frequent category this family has used for the merchant
	var association struct {
		SpendingCategoryID uuid.UUID
		Name               string
	}

	err := db.Model(&models.Transaction{}).
		Joins("JOIN spending_categories ON spending_categories.id = transactions.spending_category_id").
		Where("transactions.family_id = ? AND transactions.merchant_name = ? AND transactions.spending_category_id IS NOT NULL", familyID, merchant).
		Select("transactions.spending_category_id AS spending_category_id, spending_categories.name AS name").
		Group("transactions.spending_category_id, spending_categories.name").
		Order("COUNT(*) DESC").
		Limit(1).
		Scan(&association).Error
	if err != nil {
		return nil, err
	}

	if association.SpendingCategoryID == uuid.Nil {
		return nil, nil
	}

	return &CategorySuggestion{ID: association.SpendingCategoryID, Name: association.Name}, nil
}
