package services

import (
	"database/sql"
	"encoding/csv"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spendtrack/spendtrack-be/internal/models"
	"github.com/spendtrack/spendtrack-be/internal/query"
)

// CategoryTotal is one group of the category aggregation.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Total    models.Money    `json:"total"`
}

// DayTotal is one group of the monthly aggregation.
type DayTotal struct {
	Day   int          `json:"day"`
	Total models.Money `json:"total"`
}

// ExpenseServiceProvider defines the interface for expense services.
type ExpenseServiceProvider interface {
	CreateExpense(userID string, amount models.Money, category models.Category, note string, date time.Time) (models.Expense, error)
	ListExpenses(f query.Filter, p query.Page) ([]models.Expense, query.Meta, error)
	UpdateExpense(id, userID string, upd models.ExpenseUpdate) (models.Expense, error)
	DeleteExpense(id, userID string) error
	CategoryStats(f query.Filter) ([]CategoryTotal, models.Money, error)
	MonthlySummary(userID string, year, month int) ([]DayTotal, models.Money, error)
	TotalExpense(userID string) (models.Money, error)
	WriteCSV(userID string, w io.Writer) error
}

// ExpenseService provides business logic for expense management.
type ExpenseService struct {
	db *sql.DB
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(db *sql.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

const expenseColumns = "id, user_id, amount, category, note, date, created_at"

func scanExpense(row interface{ Scan(...any) error }) (models.Expense, error) {
	var e models.Expense
	var amount int64
	var category, date, createdAt string
	if err := row.Scan(&e.ID, &e.UserID, &amount, &category, &e.Note, &date, &createdAt); err != nil {
		return models.Expense{}, err
	}
	e.Amount = models.MoneyFromCents(amount)
	e.Category = models.Category(category)
	var err error
	if e.Date, err = time.ParseInLocation(query.TimeLayout, date, time.Local); err != nil {
		return models.Expense{}, err
	}
	if e.CreatedAt, err = time.ParseInLocation(query.TimeLayout, createdAt, time.Local); err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// CreateExpense records a new expense for a user. A zero date defaults to now.
func (s *ExpenseService) CreateExpense(userID string, amount models.Money, category models.Category, note string, date time.Time) (models.Expense, error) {
	if amount.IsNegative() {
		return models.Expense{}, models.Invalid("amount must not be negative")
	}
	if date.IsZero() {
		date = time.Now()
	}

	e := models.Expense{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    amount,
		Category:  category,
		Note:      note,
		Date:      date,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO expenses (id, user_id, amount, category, note, date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.UserID, e.Amount.Cents(), string(e.Category), e.Note,
		e.Date.Format(query.TimeLayout), e.CreatedAt.Format(query.TimeLayout),
	)
	if err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// ListExpenses returns one page of a user's expenses matching the filter,
// ordered by date descending (ties by insertion order), plus page metadata.
// The total count is independent of the slicing.
func (s *ExpenseService) ListExpenses(f query.Filter, p query.Page) ([]models.Expense, query.Meta, error) {
	where, args := f.Where()

	rows, err := s.db.Query(
		"SELECT "+expenseColumns+" FROM expenses WHERE "+where+
			" ORDER BY date DESC, rowid ASC LIMIT ? OFFSET ?",
		append(args, p.Limit, p.Offset())...,
	)
	if err != nil {
		return nil, query.Meta{}, err
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0, p.Limit)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, query.Meta{}, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, query.Meta{}, err
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM expenses WHERE "+where, args...).Scan(&total); err != nil {
		return nil, query.Meta{}, err
	}

	return expenses, query.NewMeta(total, p), nil
}

func (s *ExpenseService) getExpense(id, userID string) (models.Expense, error) {
	row := s.db.QueryRow(
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return models.Expense{}, models.ErrNotFound
	}
	return e, err
}

// UpdateExpense applies a partial update to an expense owned by userID. Each
// set field is applied even when its value is zero; unset fields keep their
// current value.
func (s *ExpenseService) UpdateExpense(id, userID string, upd models.ExpenseUpdate) (models.Expense, error) {
	e, err := s.getExpense(id, userID)
	if err != nil {
		return models.Expense{}, err
	}

	if upd.Amount != nil {
		if upd.Amount.IsNegative() {
			return models.Expense{}, models.Invalid("amount must not be negative")
		}
		e.Amount = *upd.Amount
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Note != nil {
		e.Note = *upd.Note
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}

	_, err = s.db.Exec(
		"UPDATE expenses SET amount = ?, category = ?, note = ?, date = ? WHERE id = ? AND user_id = ?",
		e.Amount.Cents(), string(e.Category), e.Note, e.Date.Format(query.TimeLayout), id, userID,
	)
	if err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// DeleteExpense removes an expense owned by userID. A record owned by another
// user is reported as not found.
func (s *ExpenseService) DeleteExpense(id, userID string) error {
	res, err := s.db.Exec("DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CategoryStats groups a user's expenses by category and sums amounts per
// group, largest first, plus the grand total. Only the owner and date range
// of the filter apply; category and search constraints are ignored.
func (s *ExpenseService) CategoryStats(f query.Filter) ([]CategoryTotal, models.Money, error) {
	where, args := f.DateOnly().Where()

	rows, err := s.db.Query(
		"SELECT category, SUM(amount) AS total FROM expenses WHERE "+where+
			" GROUP BY category ORDER BY total DESC, category ASC",
		args...,
	)
	if err != nil {
		return nil, models.Money{}, err
	}
	defer rows.Close()

	stats := make([]CategoryTotal, 0)
	var grand models.Money
	for rows.Next() {
		var category string
		var total int64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, models.Money{}, err
		}
		ct := CategoryTotal{Category: models.Category(category), Total: models.MoneyFromCents(total)}
		stats = append(stats, ct)
		grand = grand.Add(ct.Total)
	}
	return stats, grand, rows.Err()
}

// MonthlySummary groups one calendar month of a user's expenses by day of
// month, ascending, plus the grand total for the month.
func (s *ExpenseService) MonthlySummary(userID string, year, month int) ([]DayTotal, models.Money, error) {
	if month < 1 || month > 12 {
		return nil, models.Money{}, models.Invalid("month must be between 1 and 12")
	}

	start, end := query.MonthRange(year, month)
	f := query.Filter{OwnerID: userID, StartDate: &start, EndDate: &end}
	where, args := f.Where()

	rows, err := s.db.Query(
		"SELECT CAST(strftime('%d', date) AS INTEGER) AS day, SUM(amount) AS total"+
			" FROM expenses WHERE "+where+" GROUP BY day ORDER BY day ASC",
		args...,
	)
	if err != nil {
		return nil, models.Money{}, err
	}
	defer rows.Close()

	days := make([]DayTotal, 0)
	var grand models.Money
	for rows.Next() {
		var day int
		var total int64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, models.Money{}, err
		}
		dt := DayTotal{Day: day, Total: models.MoneyFromCents(total)}
		days = append(days, dt)
		grand = grand.Add(dt.Total)
	}
	return days, grand, rows.Err()
}

// TotalExpense sums every expense of one user.
func (s *ExpenseService) TotalExpense(userID string) (models.Money, error) {
	var total int64
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ?", userID,
	).Scan(&total)
	return models.MoneyFromCents(total), err
}

// WriteCSV streams all of a user's expenses as CSV, date descending. Fields
// are quoted per RFC 4180, so notes containing commas or quotes survive a
// round trip.
func (s *ExpenseService) WriteCSV(userID string, w io.Writer) error {
	rows, err := s.db.Query(
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? ORDER BY date DESC, rowid ASC",
		userID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Category", "Amount", "Note"}); err != nil {
		return err
	}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return err
		}
		record := []string{
			e.Date.Format(query.DayLayout),
			string(e.Category),
			e.Amount.String(),
			e.Note,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
