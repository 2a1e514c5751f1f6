package todo

import (
	"errors"
	"strings"
	"time"

	"github.com/balkashynov/todo/internal/models"
	"github.com/balkashynov/todo/internal/parser"
)

// Form is the task entry form shared by create and edit
type Form struct {
	Task     string
	Priority models.Priority
	DueDate  models.Date
}

// IsZero reports whether the form is blank
func (f Form) IsZero() bool {
	return f.Task == "" && f.Priority == "" && f.DueDate.IsZero()
}

// Validate checks the required fields. When original is non-zero the due
// date may stay as it was even if it is already in the past; any new date
// has to be tomorrow or later.
func (f Form) Validate(now time.Time, original models.Date) error {
	var errs []error
	if strings.TrimSpace(f.Task) == "" {
		errs = append(errs, errors.New("task is required"))
	}
	if !f.Priority.Valid() {
		errs = append(errs, errors.New("priority is required"))
	}
	unchanged := !original.IsZero() && f.DueDate.Equal(original.Time)
	if !unchanged {
		if err := parser.ValidateNewDue(f.DueDate, now); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
