package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/types"
)

// AccountBalance is the computed balance of one bank account at the
// end of the reporting month.
type AccountBalance struct {
	ID      uuid.UUID       `json:"id" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the bank account
	Name    string          `json:"name" example:"Joint checking"`                     // Name of the bank account
	Balance decimal.Decimal `json:"balance" example:"2735.17"`                         // Balance at the end of the month
}

// CategorySpending is the spending in one spending category during the
// reporting month.
type CategorySpending struct {
	ID            uuid.UUID       `json:"id" example:"2c26c9cd-8a52-4dd8-bfd6-887b5f18c1e5"` // ID of the spending category
	Name          string          `json:"name" example:"Groceries"`                          // Name of the spending category
	Spent         decimal.Decimal `json:"spent" example:"433.12"`                            // Amount spent in the month
	MonthlyTarget decimal.Decimal `json:"monthlyTarget" example:"500"`                       // Monthly target of the category, 0 when unset
}

// MonthReport rolls allocations, attributions and categorized
// transactions up into one period summary.
type MonthReport struct {
	FamilyID        uuid.UUID          `json:"familyId" example:"9dbd6f2b-bb68-4dcb-aabc-d3f671cb0ad2"` // ID of the family
	Month           types.Month        `json:"month" example:"2024-03-01T00:00:00Z"`                    // The reporting month
	IncomeScheduled decimal.Decimal    `json:"incomeScheduled" example:"2500"`                          // Sum of income amounts scheduled in the month
	IncomeReceived  decimal.Decimal    `json:"incomeReceived" example:"2500"`                           // Sum of received amounts of the month's income events
	Allocated       decimal.Decimal    `json:"allocated" example:"2500"`                                // Sum of budget allocations for the month's income events
	Spent           decimal.Decimal    `json:"spent" example:"1833.96"`                                 // Sum of all debits in the month, as a positive number
	CashFlow        decimal.Decimal    `json:"cashFlow" example:"666.04"`                               // Signed sum of all transactions in the month
	NetWorth        decimal.Decimal    `json:"netWorth" example:"10233.96"`                             // Sum of all account balances at the end of the month
	Accounts        []AccountBalance   `json:"accounts"`                                                // Per-account balances
	Categories      []CategorySpending `json:"categories"`                                              // Per-category spending
}

// MonthSummary computes the report for one family and month. It is
// read-only and depends on the other engines only through the records
// they have written.
func MonthSummary(db *gorm.DB, familyID uuid.UUID, month types.Month) (MonthReport, error) {
	var family models.Family
	err := db.First(&family, familyID).Error
	if err != nil {
		return MonthReport{}, err
	}

	from := time.Time(month)
	to := time.Time(month.AddDate(0, 1))

	report := MonthReport{
		FamilyID: family.ID,
		Month:    month,
	}

	// Income events scheduled in the month
	var events []models.IncomeEvent
	err = db.
		Where(&models.IncomeEvent{FamilyID: familyID}).
		Where("scheduled_date >= ? AND scheduled_date < ?", from, to).
		Where("status != ?", models.IncomeEventStatusCancelled).
		Find(&events).Error
	if err != nil {
		return MonthReport{}, err
	}

	for _, event := range events {
		report.IncomeScheduled = report.IncomeScheduled.Add(event.Amount)
		report.IncomeReceived = report.IncomeReceived.Add(event.ReceivedAmount)

		allocated, err := event.AllocatedAmount(db)
		if err != nil {
			return MonthReport{}, err
		}

		report.Allocated = report.Allocated.Add(allocated)
	}

	// Cash flow over all transactions of the month
	var transactions []models.Transaction
	err = db.
		Where(&models.Transaction{FamilyID: familyID}).
		Where("date >= ? AND date < ?", from, to).
		Find(&transactions).Error
	if err != nil {
		return MonthReport{}, err
	}

	spentByCategory := make(map[uuid.UUID]decimal.Decimal)
	for _, transaction := range transactions {
		report.CashFlow = report.CashFlow.Add(transaction.Amount)

		if transaction.Amount.IsNegative() {
			report.Spent = report.Spent.Sub(transaction.Amount)

			if transaction.SpendingCategoryID != nil {
				id := *transaction.SpendingCategoryID
				spentByCategory[id] = spentByCategory[id].Sub(transaction.Amount)
			}
		}
	}

	// Spending analysis per category, in a stable order
	var categories []models.SpendingCategory
	err = db.
		Where(&models.SpendingCategory{FamilyID: familyID}).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return MonthReport{}, err
	}

	report.Categories = make([]CategorySpending, 0, len(categories))
	for _, category := range categories {
		spent, ok := spentByCategory[category.ID]
		if !ok && category.Archived {
			continue
		}

		report.Categories = append(report.Categories, CategorySpending{
			ID:            category.ID,
			Name:          category.Name,
			Spent:         spent,
			MonthlyTarget: category.MonthlyTarget,
		})
	}

	// Net worth from the account balances at the end of the month
	var accounts []models.BankAccount
	err = db.
		Where(&models.BankAccount{FamilyID: familyID}).
		Where("archived = ?", false).
		Order("name ASC").
		Find(&accounts).Error
	if err != nil {
		return MonthReport{}, err
	}

	report.Accounts = make([]AccountBalance, 0, len(accounts))
	until := to.Add(-time.Nanosecond)
	for _, account := range accounts {
		balance, err := account.Balance(db, until)
		if err != nil {
			return MonthReport{}, err
		}

		report.Accounts = append(report.Accounts, AccountBalance{
			ID:      account.ID,
			Name:    account.Name,
			Balance: balance,
		})

		report.NetWorth = report.NetWorth.Add(balance)
	}

	return report, nil
}
