package todo

import "context"

// Dialog presents a modal prompt and waits for the user.
//
// Confirm returns true only for the affirmative action. Cancelling,
// dismissing or a done context all count as false.
type Dialog interface {
	Confirm(ctx context.Context, title, content string) (bool, error)
	Inform(ctx context.Context, title, content string) error
}

// AutoConfirm answers every confirmation with a fixed value without asking.
// Used for --yes on the command line.
type AutoConfirm bool

func (a AutoConfirm) Confirm(ctx context.Context, _, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, nil
	}
	return bool(a), nil
}

func (AutoConfirm) Inform(context.Context, string, string) error {
	return nil
}

const (
	AboutTitle   = "About this app"
	AboutContent = "This simple app stores the list of todos in a database file on this machine " +
		"and is not synced across devices."

	deleteContent = "Are you sure you want to delete this todo?"
)

// DeleteTitle is the confirmation title used before removing a task
func DeleteTitle(task string) string {
	return "Confirm Delete: " + task
}
