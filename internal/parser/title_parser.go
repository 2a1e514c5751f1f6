package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/todo/internal/models"
)

var (
	priorityRegex = regexp.MustCompile(`(?:^|\s)\+([a-zA-Z0-9]+)`)
	dueRegex      = regexp.MustCompile(`(?:^|\s)due:(\S+)`)
)

// ParsedTask represents a task parsed from natural language
type ParsedTask struct {
	Task     string
	Priority models.Priority // empty when not given
	DueDate  models.Date     // zero when not given
	Errors   []string
}

// ParseTitle extracts metadata from a task description using natural syntax
// Syntax: "Task text +priority due:date"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{Errors: []string{}}

	// Extract priority (+high, +3, +normal, etc.)
	if matches := priorityRegex.FindStringSubmatch(input); len(matches) > 1 {
		p, err := models.ParsePriority(matches[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid priority '"+matches[1]+"'. Use: low, normal, high, 1, 2, or 3")
		} else {
			result.Priority = p
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	// Extract due date (due:tomorrow, due:2024-12-15, due:3d, etc.)
	if matches := dueRegex.FindStringSubmatch(input); len(matches) > 1 {
		d, err := ParseDueDate(matches[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+matches[1]+"': "+err.Error())
		} else {
			result.DueDate = d
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	// Clean up the text (remove extra spaces)
	result.Task = strings.Join(strings.Fields(input), " ")

	return result
}
