package models

import "time"

// Expense represents a single expense record owned by one user.
type Expense struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Amount    Money     `json:"amount"`
	Category  Category  `json:"category"`
	Note      string    `json:"note,omitempty"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExpenseUpdate is a partial update where each field is present-or-absent.
// A nil pointer means "leave unchanged"; a set pointer is applied even when
// the value is zero (amount 0 and note "" are legitimate updates).
type ExpenseUpdate struct {
	Amount   *Money
	Category *Category
	Note     *string
	Date     *time.Time
}
