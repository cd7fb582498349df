package models

// ExpenseCategory is the closed set of tags an expense can carry.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "Food"
	CategoryTravel        ExpenseCategory = "Travel"
	CategoryShopping      ExpenseCategory = "Shopping"
	CategoryEntertainment ExpenseCategory = "Entertainment"
	CategoryUtilities     ExpenseCategory = "Utilities"
	CategoryHealthcare    ExpenseCategory = "Healthcare"
	CategoryEducation     ExpenseCategory = "Education"
	CategoryOther         ExpenseCategory = "Other"
)

// Categories lists every valid category in display order.
var Categories = []ExpenseCategory{
	CategoryFood,
	CategoryTravel,
	CategoryShopping,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryEducation,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories.
func (c ExpenseCategory) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
