package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/todo/internal/models"
)

// ErrDueTooEarly is returned when a new due date falls before tomorrow
var ErrDueTooEarly = errors.New("due date must be tomorrow or later")

var (
	dayMonthYearRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex     = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks)$`)
)

// Tomorrow returns the first date a new task may be due
func Tomorrow(now time.Time) models.Date {
	return models.NewDate(now).AddDays(1)
}

// ParseDueDate parses the due date formats accepted on the command line
// Supported formats:
// - yyyy-mm-dd or RFC 3339 (e.g., "2024-12-15")
// - dd/mm/yyyy (e.g., "15/12/2024")
// - today, tomorrow
// - X days / X weeks (e.g., "3 days", "2w")
func ParseDueDate(input string, now time.Time) (models.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.Date{}, fmt.Errorf("due date is required")
	}

	if d, err := models.ParseDate(input); err == nil {
		return models.NewDate(d.Time), nil
	}

	input = strings.ToLower(input)
	switch input {
	case "today":
		return models.NewDate(now), nil
	case "tomorrow":
		return Tomorrow(now), nil
	}

	if d, err := parseDayMonthYear(input); err == nil {
		return d, nil
	}

	if d, err := parseRelative(input, now); err == nil {
		return d, nil
	}

	return models.Date{}, fmt.Errorf("invalid date format %q. Use: yyyy-mm-dd, dd/mm/yyyy, tomorrow, X days or X weeks", input)
}

// parseDayMonthYear parses dd/mm/yyyy format
func parseDayMonthYear(input string) (models.Date, error) {
	matches := dayMonthYearRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return models.Date{}, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 {
		return models.Date{}, fmt.Errorf("month must be between 1 and 12")
	}

	d := models.Day(year, time.Month(month), day)
	// time.Date normalises overflow, so a round trip catches 31/02 and friends
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return models.Date{}, fmt.Errorf("invalid date")
	}
	return d, nil
}

// parseRelative parses "3 days", "2 weeks", "5d" and similar
func parseRelative(input string, now time.Time) (models.Date, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return models.Date{}, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid number")
	}

	today := models.NewDate(now)
	switch matches[2] {
	case "d", "day", "days":
		if amount < 1 || amount > 365 {
			return models.Date{}, fmt.Errorf("days must be between 1 and 365")
		}
		return today.AddDays(amount), nil
	default:
		if amount < 1 || amount > 52 {
			return models.Date{}, fmt.Errorf("weeks must be between 1 and 52")
		}
		return today.AddDays(amount * 7), nil
	}
}

// ValidateNewDue enforces the "no earlier than tomorrow" rule for dates
// entered by the user.
func ValidateNewDue(due models.Date, now time.Time) error {
	if due.IsZero() {
		return fmt.Errorf("due date is required")
	}
	if due.Before(Tomorrow(now).Time) {
		return fmt.Errorf("%w (got %s)", ErrDueTooEarly, due)
	}
	return nil
}

// FormatDueDate formats a due date for display
func FormatDueDate(due models.Date, now time.Time) string {
	if due.IsZero() {
		return ""
	}

	daysDiff := DaysUntil(due, now)
	dateStr := due.Format("Mon 02 Jan 2006")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("Due %s", dateStr)
	}
}

// DaysUntil counts calendar days from now to due
func DaysUntil(due models.Date, now time.Time) int {
	today := models.NewDate(now)
	dueDay := models.NewDate(due.In(now.Location()))
	return int(math.Round(dueDay.Sub(today.Time).Hours() / 24))
}
