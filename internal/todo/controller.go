// Package todo holds the list controller: the in-memory task collection,
// the entry form, and the sort and priority filter applied to it.
package todo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/balkashynov/todo/internal/logging"
	"github.com/balkashynov/todo/internal/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAmbiguousID  = errors.New("ambiguous task id")
)

// Repository persists task records, one entry per task id.
type Repository interface {
	Put(ctx context.Context, id string, task models.Task) error
	Remove(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]models.Task, error)
}

// Controller owns the task collection and keeps it in step with the
// repository. Every mutation is written through before it is applied in
// memory, so a failed write leaves both sides unchanged.
//
// The full collection is authoritative; the filtered view is derived from
// it on every read.
type Controller struct {
	repo   Repository
	dialog Dialog
	logger *log.Logger
	now    func() time.Time
	newID  func() string
	col    *collate.Collator

	mu      sync.Mutex
	tasks   []models.Task
	form    Form
	editID  string
	hidden  map[models.Priority]bool
	sortKey SortKey
	sortDir Direction
}

// Option configures a Controller
type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator replaces the UUID generator, for tests
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) { c.newID = gen }
}

// WithLanguage selects the collation used by alphabetical sorting
func WithLanguage(tag language.Tag) Option {
	return func(c *Controller) { c.col = newCollator(tag) }
}

// WithSort sets the initial sort
func WithSort(key SortKey, dir Direction) Option {
	return func(c *Controller) {
		c.sortKey = key
		c.sortDir = dir
	}
}

// New creates a controller over repo. dialog is asked before deletions.
func New(repo Repository, dialog Dialog, opts ...Option) *Controller {
	c := &Controller{
		repo:    repo,
		dialog:  dialog,
		logger:  logging.Discard(),
		now:     time.Now,
		newID:   uuid.NewString,
		col:     newCollator(language.English),
		hidden:  make(map[models.Priority]bool),
		sortDir: Asc,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.form = c.blankForm()
	return c
}

// Load replaces the collection with everything in the repository and
// applies the current sort.
func (c *Controller) Load(ctx context.Context) error {
	tasks, err := c.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = tasks
	sortTasks(c.tasks, c.sortKey, c.sortDir, c.col)
	c.logger.Debug("loaded tasks", "count", len(tasks))
	return nil
}

// Create adds a new task with a fresh id, persists it and clears the form.
// An edit in progress is abandoned: saving an edited task as new leaves the
// original untouched.
func (c *Controller) Create(ctx context.Context, text string, priority models.Priority, due models.Date) (models.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	task := models.Task{
		Task:     text,
		Priority: priority,
		DueDate:  due,
		TaskID:   c.newID(),
	}
	if err := c.repo.Put(ctx, task.TaskID, task); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	c.tasks = append(c.tasks, task)
	c.resetFormLocked()
	c.logger.Debug("created task", "id", task.TaskID, "priority", task.Priority)
	return task, nil
}

// CreateFromForm creates a task from the current form contents
func (c *Controller) CreateFromForm(ctx context.Context) (models.Task, error) {
	f := c.Form()
	return c.Create(ctx, f.Task, f.Priority, f.DueDate)
}

// StartEdit loads the task into the form and marks it as being edited.
// Returns false when no task has that id.
func (c *Controller) StartEdit(taskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(taskID)
	if i < 0 {
		return false
	}
	t := c.tasks[i]
	c.editID = t.TaskID
	c.form = Form{Task: t.Task, Priority: t.Priority, DueDate: t.DueDate}
	return true
}

// CommitEdit writes the form back into the task being edited. When nothing
// is being edited, or the task has disappeared meanwhile, nothing happens
// and false is returned.
func (c *Controller) CommitEdit(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editID == "" {
		return false, nil
	}
	i := c.indexLocked(c.editID)
	if i < 0 {
		c.logger.Debug("dropping edit of vanished task", "id", c.editID)
		return false, nil
	}

	updated := c.tasks[i]
	updated.Task = c.form.Task
	updated.Priority = c.form.Priority
	updated.DueDate = c.form.DueDate
	updated.ShowCardButtons = updated.Completed
	if err := c.repo.Put(ctx, updated.TaskID, updated); err != nil {
		return false, fmt.Errorf("update task: %w", err)
	}
	c.tasks[i] = updated
	c.resetFormLocked()
	c.logger.Debug("updated task", "id", updated.TaskID)
	return true, nil
}

// CancelEdit drops the edit in progress and clears the form
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetFormLocked()
}

// Editing returns the id of the task being edited, if any
func (c *Controller) Editing() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editID, c.editID != ""
}

// SetCompletion marks the task done or not done and persists it at once.
// Returns false when no task has that id.
func (c *Controller) SetCompletion(ctx context.Context, taskID string, completed bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(taskID)
	if i < 0 {
		return false, nil
	}
	updated := c.tasks[i]
	updated.SetCompleted(completed)
	if err := c.repo.Put(ctx, taskID, updated); err != nil {
		return false, fmt.Errorf("mark task: %w", err)
	}
	c.tasks[i] = updated
	return true, nil
}

// Delete asks for confirmation and removes the task from memory and the
// repository when the answer is yes. The lock is released while the
// dialog is open. Returns whether the task was removed.
func (c *Controller) Delete(ctx context.Context, taskID string) (bool, error) {
	task, ok := c.Find(taskID)
	if !ok {
		return false, nil
	}

	confirmed, err := c.dialog.Confirm(ctx, DeleteTitle(task.Task), deleteContent)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !confirmed {
		c.logger.Debug("delete cancelled", "id", taskID)
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(taskID)
	if i < 0 {
		return false, nil
	}
	if err := c.repo.Remove(ctx, taskID); err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	c.tasks = slices.Delete(c.tasks, i, i+1)
	c.logger.Debug("deleted task", "id", taskID)
	return true, nil
}

// About shows the informational dialog
func (c *Controller) About(ctx context.Context) error {
	return c.dialog.Inform(ctx, AboutTitle, AboutContent)
}

// ApplyPriorityFilter hides every task whose priority is listed. Each call
// replaces the previous filter; an empty call shows everything again. The
// active sort is re-applied afterwards.
func (c *Controller) ApplyPriorityFilter(hidden ...models.Priority) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hidden = make(map[models.Priority]bool, len(hidden))
	for _, p := range hidden {
		if p.Valid() {
			c.hidden[p] = true
		}
	}
	sortTasks(c.tasks, c.sortKey, c.sortDir, c.col)
}

// TogglePriority flips whether p is hidden
func (c *Controller) TogglePriority(p models.Priority) {
	hidden := c.Hidden()
	if i := slices.Index(hidden, p); i >= 0 {
		hidden = slices.Delete(hidden, i, i+1)
	} else {
		hidden = append(hidden, p)
	}
	c.ApplyPriorityFilter(hidden...)
}

// Hidden returns the hidden priorities in rank order
func (c *Controller) Hidden() []models.Priority {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hiddenLocked()
}

func (c *Controller) hiddenLocked() []models.Priority {
	var out []models.Priority
	for _, p := range models.Priorities() {
		if c.hidden[p] {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders the collection by key and remembers the choice. Unknown keys
// leave the order as it is.
func (c *Controller) Sort(key SortKey, dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortKey = key
	c.sortDir = dir
	sortTasks(c.tasks, key, dir, c.col)
}

// SortState returns the active sort
func (c *Controller) SortState() (SortKey, Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortKey, c.sortDir
}

// View returns the working collection: every task in current order except
// those whose priority is hidden.
func (c *Controller) View() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() []models.Task {
	out := make([]models.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if !c.hidden[t.Priority] {
			out = append(out, t)
		}
	}
	return out
}

// Snapshot returns the full collection, hidden tasks included
func (c *Controller) Snapshot() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tasks)
}

// QueryHiddenByPriority returns every task with priority p, whether or not
// it is currently hidden.
func (c *Controller) QueryHiddenByPriority(p models.Priority) []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Task
	for _, t := range c.tasks {
		if t.Priority == p {
			out = append(out, t)
		}
	}
	return out
}

// PrioritiesWithHidden lists the hidden priorities that actually hide a task
func (c *Controller) PrioritiesWithHidden() []models.Priority {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Priority
	for _, p := range c.hiddenLocked() {
		for _, t := range c.tasks {
			if t.Priority == p {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// HasAllHidden reports that there are tasks and every priority is hidden
func (c *Controller) HasAllHidden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks) > 0 && len(c.hidden) == len(models.Priorities())
}

// HasSomeHidden reports that the filter hides some, but not all, priorities
// and at least one task is actually hidden.
func (c *Controller) HasSomeHidden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks) > 0 &&
		len(c.viewLocked()) != len(c.tasks) &&
		len(c.hidden) != len(models.Priorities())
}

// Counts returns the number of tasks in total, in the view and completed
func (c *Controller) Counts() (total, visible, done int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if !c.hidden[t.Priority] {
			visible++
		}
		if t.Completed {
			done++
		}
	}
	return len(c.tasks), visible, done
}

// Find returns the task with the given id
func (c *Controller) Find(taskID string) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(taskID)
	if i < 0 {
		return models.Task{}, false
	}
	return c.tasks[i], true
}

// Resolve finds a task by its id or a unique prefix of it
func (c *Controller) Resolve(prefix string) (models.Task, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return models.Task{}, ErrTaskNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(prefix); i >= 0 {
		return c.tasks[i], nil
	}
	var found []models.Task
	for _, t := range c.tasks {
		if strings.HasPrefix(t.TaskID, prefix) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return models.Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousID, prefix, len(found))
	}
}

// Form returns the current form contents
func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetForm replaces the form contents
func (c *Controller) SetForm(f Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

// ResetForm clears the form and any edit in progress
func (c *Controller) ResetForm() {
	c.CancelEdit()
}

// ValidateForm checks the form against the entry rules. An edited task may
// keep a due date that has since passed.
func (c *Controller) ValidateForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var original models.Date
	if i := c.indexLocked(c.editID); c.editID != "" && i >= 0 {
		original = c.tasks[i].DueDate
	}
	return c.form.Validate(c.now(), original)
}

func (c *Controller) resetFormLocked() {
	c.form = c.blankForm()
	c.editID = ""
}

// blankForm defaults priority to normal and the due date to tomorrow
func (c *Controller) blankForm() Form {
	y, m, d := c.now().Date()
	return Form{
		Priority: models.PriorityNormal,
		DueDate:  models.Day(y, m, d+1),
	}
}

func (c *Controller) indexLocked(taskID string) int {
	return slices.IndexFunc(c.tasks, func(t models.Task) bool { return t.TaskID == taskID })
}
