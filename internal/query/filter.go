package query

import (
	"strings"
	"time"

	"github.com/spendtrack/spendtrack-be/internal/models"
)

// TimeLayout is the storage format for expense dates. Lexicographic order of
// this layout matches chronological order, so range predicates compare text
// columns directly.
const TimeLayout = "2006-01-02 15:04:05"

// DayLayout is the ISO calendar date accepted in query parameters.
const DayLayout = "2006-01-02"

// Filter describes the optional constraints of an expense listing. OwnerID is
// mandatory: it is the tenant isolation boundary and is always applied.
type Filter struct {
	OwnerID   string
	Category  *models.Category
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

// Where renders the filter as a SQL predicate and its arguments.
func (f Filter) Where() (string, []any) {
	conds := []string{"user_id = ?"}
	args := []any{f.OwnerID}

	if f.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*f.Category))
	}
	if f.StartDate != nil {
		conds = append(conds, "date >= ?")
		args = append(args, StartOfDay(*f.StartDate).Format(TimeLayout))
	}
	if f.EndDate != nil {
		conds = append(conds, "date <= ?")
		args = append(args, EndOfDay(*f.EndDate).Format(TimeLayout))
	}
	if f.Search != "" {
		// instr avoids treating '%' and '_' in user input as LIKE wildcards.
		// sqlite's lower() folds ASCII letters only, so the match is
		// case-insensitive for ASCII and case-sensitive beyond it.
		conds = append(conds, "instr(lower(note), lower(?)) > 0")
		args = append(args, f.Search)
	}

	return strings.Join(conds, " AND "), args
}

// DateOnly strips category and search constraints, keeping owner and date
// range. Aggregations are scoped this way.
func (f Filter) DateOnly() Filter {
	return Filter{OwnerID: f.OwnerID, StartDate: f.StartDate, EndDate: f.EndDate}
}

// ParseDay parses an ISO calendar date such as "2024-03-01" in local time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.Local)
	if err != nil {
		return time.Time{}, models.Invalid("invalid date " + s + ", expected YYYY-MM-DD")
	}
	return t, nil
}

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable second of t's calendar day at the
// storage resolution, making end bounds inclusive.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// MonthRange returns the closed range covering a calendar month, first day
// 00:00:00 through last day 23:59:59, using local calendar semantics.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := EndOfDay(start.AddDate(0, 1, -1))
	return start, end
}
