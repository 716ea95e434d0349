// Package engine implements the budget allocation and reconciliation
// engine: distributing income across budget categories, attributing
// payments to income events, matching bank transactions to payments
// and categorizing spending.
//
// All operations take the database and the family ID explicitly. Write
// paths run inside a single database transaction and either commit
// completely or not at all.
package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// CategoryAllocation is the per-category breakdown of an allocation.
type CategoryAllocation struct {
	ID         uuid.UUID       `json:"id" example:"d1b0c59d-c6e2-47b4-9b42-2e2a91f5ed51"`          // ID of the budget category
	Name       string          `json:"name" example:"Rent"`                                         // Name of the budget category
	Color      string          `json:"color" example:"#34d399"`                                     // Display color of the budget category
	Amount     decimal.Decimal `json:"amount" example:"500"`                                        // Amount allocated to the category
	Percentage decimal.Decimal `json:"percentage" example:"50"`                                     // Target percentage of the category
	Priority   uint            `json:"priority" example:"1"`                                        // Sort order of the category
}

// AllocationSummary is the result of allocating one income event.
type AllocationSummary struct {
	IncomeEventID       uuid.UUID            `json:"incomeEventId" example:"6b40ef1d-0fc3-4621-9269-6dcd9d3aebf1"` // ID of the income event
	TotalAmount         decimal.Decimal      `json:"totalAmount" example:"1000"`                                   // Amount of the income event
	TotalPercentage     decimal.Decimal      `json:"totalPercentage" example:"100"`                                // Sum of the target percentages of all allocated categories
	AllocatedAmount     decimal.Decimal      `json:"allocatedAmount" example:"1000"`                               // Sum of all allocation amounts
	AllocatedPercentage decimal.Decimal      `json:"allocatedPercentage" example:"100"`                            // Allocated amount as percentage of the total
	RemainingAmount     decimal.Decimal      `json:"remainingAmount" example:"0"`                                  // Amount not allocated to any category
	RemainingPercentage decimal.Decimal      `json:"remainingPercentage" example:"0"`                              // Remaining amount as percentage of the total
	AllocationCount     int                  `json:"allocationCount" example:"3"`                                  // Number of allocations
	Categories          []CategoryAllocation `json:"categories"`                                                   // Per-category breakdown
	IsComplete          bool                 `json:"isComplete" example:"true"`                                    // True when the full amount is allocated
	IsOverallocated     bool                 `json:"isOverallocated" example:"false"`                              // True when more than the full amount is allocated
}

// Allocate distributes the amount of an income event across the active
// budget categories of its family according to their target
// percentages.
//
// Re-invoking replaces all existing allocations for the income event
// atomically, it never accumulates duplicates. When the target
// percentages sum to exactly 100, the last category in sort order
// absorbs the rounding remainder so that the allocated amounts sum to
// the income amount exactly.
func Allocate(db *gorm.DB, familyID, incomeEventID uuid.UUID) (AllocationSummary, error) {
	var summary AllocationSummary

	err := db.Transaction(func(tx *gorm.DB) error {
		var event models.IncomeEvent
		err := tx.First(&event, "id = ? AND family_id = ?", incomeEventID, familyID).Error
		if err != nil {
			return err
		}

		categories, err := models.ActiveBudgetCategories(tx, familyID)
		if err != nil {
			return err
		}

		// Only categories with a target participate in the split
		allocatable := make([]models.BudgetCategory, 0, len(categories))
		totalPercentage := decimal.Zero
		for _, category := range categories {
			if category.TargetPercentage.IsPositive() {
				allocatable = append(allocatable, category)
				totalPercentage = totalPercentage.Add(category.TargetPercentage)
			}
		}

		// Guard before any write happens
		if totalPercentage.GreaterThan(hundred) {
			return models.ErrOverallocation
		}

		// Replace, never accumulate. Allocations are derived records,
		// so the old rows are deleted for real.
		err = tx.Unscoped().
			Where("income_event_id = ?", event.ID).
			Delete(&models.BudgetAllocation{}).Error
		if err != nil {
			return err
		}

		exact := totalPercentage.Equal(hundred)
		allocated := decimal.Zero
		breakdown := make([]CategoryAllocation, 0, len(allocatable))

		for i, category := range allocatable {
			var amount decimal.Decimal
			if exact && i == len(allocatable)-1 {
				// The last category absorbs the rounding remainder
				amount = event.Amount.Sub(allocated)
			} else {
				amount = event.Amount.Mul(category.TargetPercentage).Div(hundred).Truncate(2)
			}

			allocation := models.BudgetAllocation{
				IncomeEventID:    event.ID,
				BudgetCategoryID: category.ID,
				Amount:           amount,
				Percentage:       category.TargetPercentage,
			}

			err = tx.Create(&allocation).Error
			if err != nil {
				return err
			}

			allocated = allocated.Add(amount)
			breakdown = append(breakdown, CategoryAllocation{
				ID:         category.ID,
				Name:       category.Name,
				Color:      category.Color,
				Amount:     amount,
				Percentage: category.TargetPercentage,
				Priority:   category.SortOrder,
			})
		}

		remaining := event.Amount.Sub(allocated)

		summary = AllocationSummary{
			IncomeEventID:       event.ID,
			TotalAmount:         event.Amount,
			TotalPercentage:     totalPercentage,
			AllocatedAmount:     allocated,
			AllocatedPercentage: percentageOf(allocated, event.Amount),
			RemainingAmount:     remaining,
			RemainingPercentage: percentageOf(remaining, event.Amount),
			AllocationCount:     len(breakdown),
			Categories:          breakdown,
			IsComplete:          allocated.Equal(event.Amount),
			IsOverallocated:     allocated.GreaterThan(event.Amount),
		}

		return nil
	})
	if err != nil {
		return AllocationSummary{}, err
	}

	return summary, nil
}

// Allocations returns the allocation summary for an income event as it
// is currently stored, without re-allocating.
func Allocations(db *gorm.DB, familyID, incomeEventID uuid.UUID) (AllocationSummary, error) {
	var event models.IncomeEvent
	err := db.First(&event, "id = ? AND family_id = ?", incomeEventID, familyID).Error
	if err != nil {
		return AllocationSummary{}, err
	}

	var allocations []models.BudgetAllocation
	err = db.
		Preload("BudgetCategory").
		Where("income_event_id = ?", event.ID).
		Find(&allocations).Error
	if err != nil {
		return AllocationSummary{}, err
	}

	allocated := decimal.Zero
	totalPercentage := decimal.Zero
	breakdown := make([]CategoryAllocation, 0, len(allocations))

	for _, allocation := range allocations {
		allocated = allocated.Add(allocation.Amount)
		totalPercentage = totalPercentage.Add(allocation.Percentage)

		breakdown = append(breakdown, CategoryAllocation{
			ID:         allocation.BudgetCategoryID,
			Name:       allocation.BudgetCategory.Name,
			Color:      allocation.BudgetCategory.Color,
			Amount:     allocation.Amount,
			Percentage: allocation.Percentage,
			Priority:   allocation.BudgetCategory.SortOrder,
		})
	}

	remaining := event.Amount.Sub(allocated)

	return AllocationSummary{
		IncomeEventID:       event.ID,
		TotalAmount:         event.Amount,
		TotalPercentage:     totalPercentage,
		AllocatedAmount:     allocated,
		AllocatedPercentage: percentageOf(allocated, event.Amount),
		RemainingAmount:     remaining,
		RemainingPercentage: percentageOf(remaining, event.Amount),
		AllocationCount:     len(breakdown),
		Categories:          breakdown,
		IsComplete:          allocated.Equal(event.Amount),
		IsOverallocated:     allocated.GreaterThan(event.Amount),
	}, nil
}

// percentageOf returns part as a percentage of total, rounded to two
// decimal places.
func percentageOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}

	return part.Div(total).Mul(hundred).Round(2)
}

// TemplateEntry is one category of an allocation template.
type TemplateEntry struct {
	Name       string          `json:"name" example:"Rent"`           // Name of the budget category
	Percentage decimal.Decimal `json:"percentage" example:"50"`       // Target percentage for the category
}

// ApplyTemplate creates or updates the budget categories of a family
// from a named list of (name, percentage) pairs.
//
// Matching against existing categories is by name, case-insensitive.
// The sort order follows the input order. Active categories that the
// template does not name get their target percentage set to zero, so
// the template fully describes the allocation structure afterwards.
//
// The whole template is rejected before any write when an entry is
// invalid or the percentages sum to more than 100.
func ApplyTemplate(db *gorm.DB, familyID uuid.UUID, entries []TemplateEntry) ([]models.BudgetCategory, error) {
	if len(entries) == 0 {
		return nil, models.ErrTemplateEmpty
	}

	sum := decimal.Zero
	for _, entry := range entries {
		if entry.Percentage.IsNegative() || entry.Percentage.GreaterThan(hundred) {
			return nil, models.ErrPercentageRange
		}
		sum = sum.Add(entry.Percentage)
	}

	if sum.GreaterThan(hundred) {
		return nil, models.ErrOverallocation
	}

	fold := cases.Fold()

	var result []models.BudgetCategory
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&models.Family{}, familyID).Error
		if err != nil {
			return err
		}

		var existing []models.BudgetCategory
		err = tx.Where(&models.BudgetCategory{FamilyID: familyID}).Find(&existing).Error
		if err != nil {
			return err
		}

		byName := make(map[string]models.BudgetCategory, len(existing))
		for _, category := range existing {
			byName[fold.String(category.Name)] = category
		}

		named := make(map[uuid.UUID]bool, len(entries))
		for _, entry := range entries {
			if category, ok := byName[fold.String(entry.Name)]; ok {
				named[category.ID] = true
			}
		}

		// Zero every target the template replaces before writing the new
		// values. The save hook sums the current values of the siblings,
		// so writing a redistribution row by row could transiently read a
		// sum above 100 even when the template itself is valid.
		for _, category := range existing {
			if !category.TargetPercentage.IsPositive() {
				continue
			}

			if !named[category.ID] && category.Archived {
				continue
			}

			err = tx.Model(&category).Select("TargetPercentage").
				Updates(models.BudgetCategory{TargetPercentage: decimal.Zero}).Error
			if err != nil {
				return err
			}
		}

		for i, entry := range entries {
			if category, ok := byName[fold.String(entry.Name)]; ok {
				err = tx.Model(&category).Select("TargetPercentage", "SortOrder", "Archived").
					Updates(models.BudgetCategory{
						TargetPercentage: entry.Percentage,
						SortOrder:        uint(i),
						Archived:         false,
					}).Error
				if err != nil {
					return err
				}

				category.TargetPercentage = entry.Percentage
				category.SortOrder = uint(i)
				category.Archived = false
				result = append(result, category)
				continue
			}

			category := models.BudgetCategory{
				FamilyID:         familyID,
				Name:             entry.Name,
				TargetPercentage: entry.Percentage,
				SortOrder:        uint(i),
			}

			err = tx.Create(&category).Error
			if err != nil {
				return err
			}

			result = append(result, category)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
