package models

import "errors"

// General errors
var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Validation errors
var (
	ErrAmountNotPositive       = errors.New("amounts must be larger than zero")
	ErrReceivedAmountNegative  = errors.New("the received amount must not be negative")
	ErrPercentageRange         = errors.New("target percentages must be between 0 and 100")
	ErrConfidenceRange         = errors.New("the category confidence must be between 0 and 1")
	ErrPaymentStatusInvalid    = errors.New("the specified payment status is invalid")
	ErrAttributionTypeInvalid  = errors.New("the specified attribution type is invalid")
	ErrIncomeStatusInvalid     = errors.New("the specified income event status is invalid")
	ErrParentCategoryInvalid   = errors.New("the parent category must be a different spending category of the same family")
	ErrBatchEmpty              = errors.New("you must specify at least one transaction ID")
	ErrBatchTooLarge           = errors.New("you can categorize at most 100 transactions per request")
	ErrTemplateEmpty           = errors.New("the template must contain at least one category")
)

// Business rule errors
var (
	ErrOverallocation          = errors.New("the target percentages of the active budget categories exceed 100")
	ErrNoAvailableIncomeEvents = errors.New("no income event has remaining balance to attribute from")
	ErrPaymentNotPaid          = errors.New("the payment is not currently paid")
	ErrPaymentAlreadyPaid      = errors.New("the payment is already paid")
	ErrPaymentFullyAttributed  = errors.New("the payment is already fully attributed")
	ErrSpendingCategoryInUse   = errors.New("the spending category is still used by child categories, payments or transactions")
	ErrSpendingCategoryArchived = errors.New("the spending category is archived")
)

// Uniqueness errors, translated from database constraint violations
var (
	ErrBudgetCategoryNameNotUnique   = errors.New("the budget category name is already in use for this family")
	ErrSpendingCategoryNameNotUnique = errors.New("the spending category name is already in use for this family")
	ErrAllocationNotUnique           = errors.New("an allocation for this income event and budget category already exists")
)
