package services

import (
	"database/sql"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/spendtrack/spendtrack-be/internal/database"
	"github.com/spendtrack/spendtrack-be/internal/models"
	"github.com/spendtrack/spendtrack-be/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ExpenseServiceSuite runs the expense service against an in-memory database.
type ExpenseServiceSuite struct {
	suite.Suite
	db      *sql.DB
	svc     *ExpenseService
	ownerID string
	otherID string
}

func (s *ExpenseServiceSuite) SetupTest() {
	db, err := database.New(":memory:")
	require.NoError(s.T(), err, "failed to create test database")
	require.NoError(s.T(), database.Migrate(db))
	s.db = db
	s.svc = NewExpenseService(db)

	users := NewUserService(db)
	owner, err := users.CreateUser("alice", "alice@example.com", "password1", models.RoleUser)
	require.NoError(s.T(), err)
	other, err := users.CreateUser("bob", "bob@example.com", "password2", models.RoleUser)
	require.NoError(s.T(), err)
	s.ownerID = owner.ID
	s.otherID = other.ID
}

func (s *ExpenseServiceSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

// mustCreate records an expense dated at midnight of the given ISO day.
func (s *ExpenseServiceSuite) mustCreate(userID string, cents int64, category models.Category, note, day string) models.Expense {
	date, err := query.ParseDay(day)
	require.NoError(s.T(), err)
	e, err := s.svc.CreateExpense(userID, models.MoneyFromCents(cents), category, note, date)
	require.NoError(s.T(), err)
	return e
}

func (s *ExpenseServiceSuite) TestCreateRejectsNegativeAmount() {
	_, err := s.svc.CreateExpense(s.ownerID, models.MoneyFromCents(-100), models.CategoryFood, "", time.Now())
	var ve *models.ValidationError
	assert.ErrorAs(s.T(), err, &ve)
}

func (s *ExpenseServiceSuite) TestCreateDefaultsDateToNow() {
	e, err := s.svc.CreateExpense(s.ownerID, models.MoneyFromCents(500), models.CategoryOther, "", time.Time{})
	require.NoError(s.T(), err)
	assert.WithinDuration(s.T(), time.Now(), e.Date, 5*time.Second)
}

func (s *ExpenseServiceSuite) TestListSortedByDateDescTiesByInsertion() {
	s.mustCreate(s.ownerID, 100, models.CategoryFood, "first", "2024-03-10")
	s.mustCreate(s.ownerID, 200, models.CategoryFood, "second", "2024-03-10")
	s.mustCreate(s.ownerID, 300, models.CategoryFood, "newest", "2024-03-20")

	expenses, meta, err := s.svc.ListExpenses(query.Filter{OwnerID: s.ownerID}, query.NewPage(1, 10))
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 3)
	assert.Equal(s.T(), 3, meta.Total)

	assert.Equal(s.T(), "newest", expenses[0].Note)
	assert.Equal(s.T(), "first", expenses[1].Note)
	assert.Equal(s.T(), "second", expenses[2].Note)
}

func (s *ExpenseServiceSuite) TestPaginationScenario() {
	// Two records sorted by date desc: Transport (03-15) then Food (03-01).
	s.mustCreate(s.ownerID, 5000, models.CategoryFood, "", "2024-03-01")
	s.mustCreate(s.ownerID, 3000, models.CategoryTransport, "", "2024-03-15")

	expenses, meta, err := s.svc.ListExpenses(query.Filter{OwnerID: s.ownerID}, query.NewPage(2, 1))
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 1)
	assert.Equal(s.T(), models.CategoryFood, expenses[0].Category)
	assert.Equal(s.T(), 2, meta.Total)
	assert.Equal(s.T(), 2, meta.TotalPages)
	assert.Equal(s.T(), 2, meta.CurrentPage)
}

func (s *ExpenseServiceSuite) TestPageBeyondEndIsEmpty() {
	s.mustCreate(s.ownerID, 100, models.CategoryFood, "", "2024-03-01")

	expenses, meta, err := s.svc.ListExpenses(query.Filter{OwnerID: s.ownerID}, query.NewPage(5, 10))
	require.NoError(s.T(), err)
	assert.Empty(s.T(), expenses)
	assert.Equal(s.T(), 1, meta.Total)
	assert.Equal(s.T(), 1, meta.TotalPages)
	assert.Equal(s.T(), 5, meta.CurrentPage)
}

func (s *ExpenseServiceSuite) TestPageConcatenationReproducesFullSet() {
	days := []string{"2024-03-01", "2024-03-03", "2024-03-05", "2024-03-07", "2024-03-09", "2024-03-11", "2024-03-13"}
	for i, day := range days {
		s.mustCreate(s.ownerID, int64((i+1)*100), models.CategoryShopping, day, day)
	}

	full, _, err := s.svc.ListExpenses(query.Filter{OwnerID: s.ownerID}, query.NewPage(1, 100))
	require.NoError(s.T(), err)
	require.Len(s.T(), full, len(days))

	p := query.NewPage(1, 3)
	var collected []models.Expense
	for page := 1; ; page++ {
		chunk, meta, err := s.svc.ListExpenses(query.Filter{OwnerID: s.ownerID}, query.NewPage(page, 3))
		require.NoError(s.T(), err)
		require.LessOrEqual(s.T(), len(chunk), p.Limit)
		collected = append(collected, chunk...)
		if page >= meta.TotalPages {
			break
		}
	}

	assert.Equal(s.T(), full, collected)
}

func (s *ExpenseServiceSuite) TestFiltersAreConjunctive() {
	s.mustCreate(s.ownerID, 100, models.CategoryFood, "Morning Coffee", "2024-03-05")
	s.mustCreate(s.ownerID, 200, models.CategoryFood, "groceries", "2024-03-25")
	s.mustCreate(s.ownerID, 300, models.CategoryBills, "coffee machine repair", "2024-03-10")
	s.mustCreate(s.otherID, 400, models.CategoryFood, "coffee", "2024-03-05")

	category := models.CategoryFood
	start, err := query.ParseDay("2024-03-01")
	require.NoError(s.T(), err)
	end, err := query.ParseDay("2024-03-10")
	require.NoError(s.T(), err)

	f := query.Filter{
		OwnerID:   s.ownerID,
		Category:  &category,
		StartDate: &start,
		EndDate:   &end,
		Search:    "COFFEE",
	}
	expenses, meta, err := s.svc.ListExpenses(f, query.NewPage(1, 10))
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 1)
	assert.Equal(s.T(), 1, meta.Total)
	assert.Equal(s.T(), "Morning Coffee", expenses[0].Note)
	assert.Equal(s.T(), s.ownerID, expenses[0].UserID)
}

func (s *ExpenseServiceSuite) TestSearchCaseFoldingIsASCIIOnly() {
	s.mustCreate(s.ownerID, 450, models.CategoryFood, "Café au lait", "2024-03-05")

	// ASCII letters fold even next to non-ASCII ones.
	expenses, _, err := s.svc.ListExpenses(query.Filter{OwnerID: s.ownerID, Search: "CAFé"}, query.NewPage(1, 10))
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 1)
	assert.Equal(s.T(), "Café au lait", expenses[0].Note)

	// Non-ASCII letters do not fold; an uppercased accent misses.
	expenses, _, err = s.svc.ListExpenses(query.Filter{OwnerID: s.ownerID, Search: "cafÉ"}, query.NewPage(1, 10))
	require.NoError(s.T(), err)
	assert.Empty(s.T(), expenses)
}

func (s *ExpenseServiceSuite) TestDateBoundsAreInclusive() {
	s.mustCreate(s.ownerID, 100, models.CategoryFood, "on start", "2024-03-01")
	s.mustCreate(s.ownerID, 200, models.CategoryFood, "on end", "2024-03-31")

	start, _ := query.ParseDay("2024-03-01")
	end, _ := query.ParseDay("2024-03-31")
	f := query.Filter{OwnerID: s.ownerID, StartDate: &start, EndDate: &end}

	expenses, _, err := s.svc.ListExpenses(f, query.NewPage(1, 10))
	require.NoError(s.T(), err)
	assert.Len(s.T(), expenses, 2)
}

func (s *ExpenseServiceSuite) TestUpdateAppliesProvidedZeroValues() {
	e := s.mustCreate(s.ownerID, 1500, models.CategoryFood, "lunch", "2024-03-01")

	zero := models.MoneyFromCents(0)
	empty := ""
	updated, err := s.svc.UpdateExpense(e.ID, s.ownerID, models.ExpenseUpdate{
		Amount: &zero,
		Note:   &empty,
	})
	require.NoError(s.T(), err)

	assert.True(s.T(), updated.Amount.IsZero())
	assert.Equal(s.T(), "", updated.Note)
	// Unset fields keep their current values
	assert.Equal(s.T(), models.CategoryFood, updated.Category)
	assert.Equal(s.T(), e.Date.Format(query.TimeLayout), updated.Date.Format(query.TimeLayout))
}

func (s *ExpenseServiceSuite) TestUpdateOtherOwnersRecordIsNotFound() {
	e := s.mustCreate(s.otherID, 1500, models.CategoryFood, "", "2024-03-01")

	amount := models.MoneyFromCents(1)
	_, err := s.svc.UpdateExpense(e.ID, s.ownerID, models.ExpenseUpdate{Amount: &amount})
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
}

func (s *ExpenseServiceSuite) TestDeleteIsOwnerScoped() {
	e := s.mustCreate(s.otherID, 100, models.CategoryFood, "", "2024-03-01")

	assert.ErrorIs(s.T(), s.svc.DeleteExpense(e.ID, s.ownerID), models.ErrNotFound)
	assert.NoError(s.T(), s.svc.DeleteExpense(e.ID, s.otherID))
	assert.ErrorIs(s.T(), s.svc.DeleteExpense(e.ID, s.otherID), models.ErrNotFound)
}

func (s *ExpenseServiceSuite) TestCategoryStatsScenario() {
	s.mustCreate(s.ownerID, 5000, models.CategoryFood, "", "2024-03-01")
	s.mustCreate(s.ownerID, 3000, models.CategoryTransport, "", "2024-03-15")

	stats, total, err := s.svc.CategoryStats(query.Filter{OwnerID: s.ownerID})
	require.NoError(s.T(), err)

	require.Len(s.T(), stats, 2)
	assert.Equal(s.T(), models.CategoryFood, stats[0].Category)
	assert.True(s.T(), stats[0].Total.Equal(models.MoneyFromCents(5000)))
	assert.Equal(s.T(), models.CategoryTransport, stats[1].Category)
	assert.True(s.T(), stats[1].Total.Equal(models.MoneyFromCents(3000)))
	assert.True(s.T(), total.Equal(models.MoneyFromCents(8000)))

	// Sum over groups equals the grand total; no zero-filled groups appear.
	var sum models.Money
	for _, st := range stats {
		require.False(s.T(), st.Total.IsZero())
		sum = sum.Add(st.Total)
	}
	assert.True(s.T(), total.Equal(sum))
}

func (s *ExpenseServiceSuite) TestCategoryStatsIgnoresSearchAndCategoryFilters() {
	s.mustCreate(s.ownerID, 5000, models.CategoryFood, "alpha", "2024-03-01")
	s.mustCreate(s.ownerID, 3000, models.CategoryTransport, "beta", "2024-03-15")

	category := models.CategoryFood
	f := query.Filter{OwnerID: s.ownerID, Category: &category, Search: "alpha"}
	stats, total, err := s.svc.CategoryStats(f)
	require.NoError(s.T(), err)
	assert.Len(s.T(), stats, 2)
	assert.True(s.T(), total.Equal(models.MoneyFromCents(8000)))
}

func (s *ExpenseServiceSuite) TestMonthlySummary() {
	s.mustCreate(s.ownerID, 1000, models.CategoryFood, "", "2024-03-01")
	s.mustCreate(s.ownerID, 500, models.CategoryBills, "", "2024-03-01")
	s.mustCreate(s.ownerID, 2000, models.CategoryTransport, "", "2024-03-15")
	s.mustCreate(s.ownerID, 9999, models.CategoryOther, "outside month", "2024-04-01")
	s.mustCreate(s.otherID, 700, models.CategoryFood, "other tenant", "2024-03-15")

	days, total, err := s.svc.MonthlySummary(s.ownerID, 2024, 3)
	require.NoError(s.T(), err)

	require.Len(s.T(), days, 2)
	assert.Equal(s.T(), 1, days[0].Day)
	assert.True(s.T(), days[0].Total.Equal(models.MoneyFromCents(1500)))
	assert.Equal(s.T(), 15, days[1].Day)
	assert.True(s.T(), days[1].Total.Equal(models.MoneyFromCents(2000)))
	assert.True(s.T(), total.Equal(models.MoneyFromCents(3500)))
}

func (s *ExpenseServiceSuite) TestMonthlySummaryRejectsBadMonth() {
	_, _, err := s.svc.MonthlySummary(s.ownerID, 2024, 13)
	var ve *models.ValidationError
	assert.ErrorAs(s.T(), err, &ve)
}

func (s *ExpenseServiceSuite) TestTotalExpense() {
	s.mustCreate(s.ownerID, 1234, models.CategoryFood, "", "2024-03-01")
	s.mustCreate(s.ownerID, 866, models.CategoryBills, "", "2024-03-02")
	s.mustCreate(s.otherID, 5000, models.CategoryFood, "", "2024-03-01")

	total, err := s.svc.TotalExpense(s.ownerID)
	require.NoError(s.T(), err)
	assert.True(s.T(), total.Equal(models.MoneyFromCents(2100)))
}

func (s *ExpenseServiceSuite) TestWriteCSVRoundTrip() {
	s.mustCreate(s.ownerID, 5000, models.CategoryFood, `dinner, with "friends"`, "2024-03-01")
	s.mustCreate(s.ownerID, 3000, models.CategoryTransport, "taxi", "2024-03-15")

	var buf strings.Builder
	require.NoError(s.T(), s.svc.WriteCSV(s.ownerID, &buf))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(s.T(), err)

	require.Len(s.T(), records, 3)
	assert.Equal(s.T(), []string{"Date", "Category", "Amount", "Note"}, records[0])
	assert.Equal(s.T(), []string{"2024-03-15", "Transport", "30.00", "taxi"}, records[1])
	assert.Equal(s.T(), []string{"2024-03-01", "Food", "50.00", `dinner, with "friends"`}, records[2])
}

func TestExpenseServiceSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceSuite))
}
