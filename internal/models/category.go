package models

import "fmt"

// Category is the closed set of expense categories. Using a dedicated type
// keeps arbitrary strings out of the expenses table.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBills,
		CategoryHealth,
		CategoryEducation,
		CategoryOther,
	}
}

// ParseCategory validates a raw string against the category set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", Invalid(fmt.Sprintf("unknown category %q", s))
}

func (c Category) String() string {
	return string(c)
}
