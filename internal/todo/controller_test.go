package todo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todo/internal/db"
	"github.com/balkashynov/todo/internal/models"
)

// scriptedDialog answers confirmations from a queue and records prompts
type scriptedDialog struct {
	answers []bool
	err     error
	titles  []string
	informs int
}

func (d *scriptedDialog) Confirm(_ context.Context, title, _ string) (bool, error) {
	d.titles = append(d.titles, title)
	if d.err != nil {
		return false, d.err
	}
	if len(d.answers) == 0 {
		return false, nil
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a, nil
}

func (d *scriptedDialog) Inform(context.Context, string, string) error {
	d.informs++
	return nil
}

var testNow = time.Date(2024, time.May, 10, 15, 30, 0, 0, time.Local)

func newTestController(t *testing.T, dialog Dialog) (*Controller, *db.Memory) {
	t.Helper()
	repo := db.NewMemory()
	n := 0
	c := New(repo, dialog,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return c, repo
}

func day(d int) models.Date {
	return models.Day(2024, time.May, d)
}

func texts(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Task)
	}
	return out
}

// seedABC creates A(high, 3rd), B(low, 5th), C(normal, 4th)
func seedABC(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	_, err := c.Create(ctx, "A", models.PriorityHigh, day(3))
	require.NoError(t, err)
	_, err = c.Create(ctx, "B", models.PriorityLow, day(5))
	require.NoError(t, err)
	_, err = c.Create(ctx, "C", models.PriorityNormal, day(4))
	require.NoError(t, err)
}

func TestCreatePersistsAndRoundTrips(t *testing.T) {
	c, repo := newTestController(t, AutoConfirm(true))
	ctx := context.Background()

	task, err := c.Create(ctx, "buy milk", models.PriorityHigh, day(11))
	require.NoError(t, err)
	assert.Equal(t, "id-1", task.TaskID)
	assert.False(t, task.Completed)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, task, loaded[0])

	fresh := New(repo, AutoConfirm(true))
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, []models.Task{task}, fresh.View())
}

func TestCreateClearsFormAndEdit(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	ctx := context.Background()
	orig, err := c.Create(ctx, "orig", models.PriorityLow, day(11))
	require.NoError(t, err)

	require.True(t, c.StartEdit(orig.TaskID))
	c.SetForm(Form{Task: "copy", Priority: models.PriorityHigh, DueDate: day(12)})
	_, err = c.CreateFromForm(ctx)
	require.NoError(t, err)

	_, editing := c.Editing()
	assert.False(t, editing)
	assert.Equal(t, Form{Priority: models.PriorityNormal, DueDate: day(11)}, c.Form())

	got, ok := c.Find(orig.TaskID)
	require.True(t, ok)
	assert.Equal(t, "orig", got.Task, "saving as new leaves the original alone")
	assert.Len(t, c.Snapshot(), 2)
}

func TestEditCommit(t *testing.T) {
	c, repo := newTestController(t, AutoConfirm(true))
	ctx := context.Background()
	task, err := c.Create(ctx, "draft", models.PriorityLow, day(11))
	require.NoError(t, err)

	require.True(t, c.StartEdit(task.TaskID))
	assert.Equal(t, Form{Task: "draft", Priority: models.PriorityLow, DueDate: day(11)}, c.Form())

	c.SetForm(Form{Task: "final", Priority: models.PriorityHigh, DueDate: day(20)})
	ok, err := c.CommitEdit(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "final", loaded[0].Task)
	assert.Equal(t, models.PriorityHigh, loaded[0].Priority)
	assert.Equal(t, task.TaskID, loaded[0].TaskID)
}

func TestEditOfVanishedTaskIsDropped(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	ctx := context.Background()
	task, err := c.Create(ctx, "gone", models.PriorityLow, day(11))
	require.NoError(t, err)

	require.True(t, c.StartEdit(task.TaskID))
	removed, err := c.Delete(ctx, task.TaskID)
	require.NoError(t, err)
	require.True(t, removed)

	ok, err := c.CommitEdit(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, c.Snapshot())
}

func TestStartEditUnknown(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	assert.False(t, c.StartEdit("nope"))

	ok, err := c.CommitEdit(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteRespectsConfirmation(t *testing.T) {
	dialog := &scriptedDialog{answers: []bool{false, true}}
	c, repo := newTestController(t, dialog)
	ctx := context.Background()
	task, err := c.Create(ctx, "walk dog", models.PriorityNormal, day(11))
	require.NoError(t, err)
	before, ok := repo.Raw("id-1")
	require.True(t, ok)

	removed, err := c.Delete(ctx, task.TaskID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, c.View(), 1)
	assert.Equal(t, []string{"id-1"}, repo.Keys())
	after, ok := repo.Raw("id-1")
	require.True(t, ok)
	assert.Equal(t, before, after)

	removed, err = c.Delete(ctx, task.TaskID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, c.View())
	assert.Empty(t, repo.Keys())

	assert.Equal(t, []string{"Confirm Delete: walk dog", "Confirm Delete: walk dog"}, dialog.titles)
}

func TestDeleteMissingDoesNotPrompt(t *testing.T) {
	dialog := &scriptedDialog{answers: []bool{true}}
	c, _ := newTestController(t, dialog)

	removed, err := c.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, dialog.titles)
}

func TestDeleteDialogError(t *testing.T) {
	dialog := &scriptedDialog{err: errors.New("terminal gone")}
	c, _ := newTestController(t, dialog)
	ctx := context.Background()
	task, err := c.Create(ctx, "x", models.PriorityNormal, day(11))
	require.NoError(t, err)

	removed, err := c.Delete(ctx, task.TaskID)
	assert.Error(t, err)
	assert.False(t, removed)
	assert.Len(t, c.Snapshot(), 1)
}

func TestSetCompletionIsIdempotent(t *testing.T) {
	c, repo := newTestController(t, AutoConfirm(true))
	ctx := context.Background()
	task, err := c.Create(ctx, "file taxes", models.PriorityHigh, day(11))
	require.NoError(t, err)

	for range 2 {
		ok, err := c.SetCompletion(ctx, task.TaskID, true)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	got, _ := c.Find(task.TaskID)
	assert.True(t, got.Completed)
	assert.True(t, got.ShowCardButtons)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, loaded[0])

	ok, err := c.SetCompletion(ctx, task.TaskID, false)
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ = c.Find(task.TaskID)
	assert.False(t, got.Completed)
	assert.False(t, got.ShowCardButtons)

	ok, err = c.SetCompletion(ctx, "missing", true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSortScenario(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	seedABC(t, c)

	c.Sort(SortDueDate, Asc)
	assert.Equal(t, []string{"A", "C", "B"}, texts(c.View()))

	c.Sort(SortPriority, Asc)
	assert.Equal(t, []string{"B", "C", "A"}, texts(c.View()))

	c.ApplyPriorityFilter(models.PriorityHigh)
	assert.Equal(t, []string{"B", "C"}, texts(c.View()))
	assert.ElementsMatch(t, []string{"A", "B", "C"}, texts(c.Snapshot()))

	c.Sort(SortPriority, Desc)
	assert.Equal(t, []string{"C", "B"}, texts(c.View()))
}

func TestSortIsStableAndIdempotent(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	ctx := context.Background()
	for _, name := range []string{"first", "second", "third"} {
		_, err := c.Create(ctx, name, models.PriorityNormal, day(11))
		require.NoError(t, err)
	}
	_, err := c.Create(ctx, "urgent", models.PriorityHigh, day(11))
	require.NoError(t, err)

	c.Sort(SortPriority, Desc)
	once := texts(c.View())
	assert.Equal(t, []string{"urgent", "first", "second", "third"}, once)

	c.Sort(SortPriority, Desc)
	assert.Equal(t, once, texts(c.View()))

	c.Sort(SortDueDate, Asc)
	assert.Equal(t, once, texts(c.View()), "equal due dates keep their order")
}

func TestSortAlphaUsesCollation(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	ctx := context.Background()
	for _, name := range []string{"banana", "Apple", "cherry"} {
		_, err := c.Create(ctx, name, models.PriorityNormal, day(11))
		require.NoError(t, err)
	}
	c.Sort(SortAlpha, Asc)
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, texts(c.View()))

	c.Sort(SortAlpha, Desc)
	assert.Equal(t, []string{"cherry", "banana", "Apple"}, texts(c.View()))
}

func TestUnknownSortKeepsOrder(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	seedABC(t, c)
	c.Sort(SortKey("colour"), Asc)
	assert.Equal(t, []string{"A", "B", "C"}, texts(c.View()))
}

func TestFilterReplacesPreviousSet(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	seedABC(t, c)
	full := c.View()

	c.ApplyPriorityFilter(models.PriorityLow)
	assert.Equal(t, []string{"A", "C"}, texts(c.View()))
	assert.Equal(t, []models.Priority{models.PriorityLow}, c.Hidden())

	c.ApplyPriorityFilter()
	assert.Equal(t, full, c.View())
	assert.Empty(t, c.Hidden())

	c.ApplyPriorityFilter(models.PriorityLow, models.PriorityNormal)
	assert.Equal(t, []string{"A"}, texts(c.View()))
	c.ApplyPriorityFilter(models.PriorityNormal)
	assert.Equal(t, []string{"A", "B"}, texts(c.View()), "low is visible again")
}

func TestTogglePriority(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	seedABC(t, c)

	c.TogglePriority(models.PriorityHigh)
	assert.Equal(t, []models.Priority{models.PriorityHigh}, c.Hidden())
	c.TogglePriority(models.PriorityLow)
	assert.Equal(t, []models.Priority{models.PriorityLow, models.PriorityHigh}, c.Hidden())
	c.TogglePriority(models.PriorityHigh)
	assert.Equal(t, []models.Priority{models.PriorityLow}, c.Hidden())
}

func TestHiddenQueries(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	assert.False(t, c.HasAllHidden(), "no tasks means nothing is hidden")

	seedABC(t, c)
	assert.False(t, c.HasSomeHidden())

	c.ApplyPriorityFilter(models.PriorityLow)
	assert.True(t, c.HasSomeHidden())
	assert.False(t, c.HasAllHidden())
	assert.Equal(t, []models.Priority{models.PriorityLow}, c.PrioritiesWithHidden())
	assert.Equal(t, []string{"B"}, texts(c.QueryHiddenByPriority(models.PriorityLow)))

	_, err := c.SetCompletion(context.Background(), "id-1", true)
	require.NoError(t, err)
	total, visible, done := c.Counts()
	assert.Equal(t, []int{3, 2, 1}, []int{total, visible, done})

	c.ApplyPriorityFilter(models.Priorities()...)
	assert.True(t, c.HasAllHidden())
	assert.False(t, c.HasSomeHidden())
	assert.Empty(t, c.View())
	assert.Len(t, c.Snapshot(), 3)
}

func TestPrioritiesWithHiddenIgnoresEmptyPriorities(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	_, err := c.Create(context.Background(), "only high", models.PriorityHigh, day(11))
	require.NoError(t, err)

	c.ApplyPriorityFilter(models.PriorityLow)
	assert.Empty(t, c.PrioritiesWithHidden())
	assert.False(t, c.HasSomeHidden())
}

func TestWriteFailureLeavesMemoryUnchanged(t *testing.T) {
	c, repo := newTestController(t, AutoConfirm(true))
	ctx := context.Background()
	task, err := c.Create(ctx, "stable", models.PriorityNormal, day(11))
	require.NoError(t, err)

	repo.Err = errors.New("disk full")

	_, err = c.Create(ctx, "lost", models.PriorityHigh, day(12))
	var serr *db.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "put", serr.Op)

	ok, err := c.SetCompletion(ctx, task.TaskID, true)
	assert.Error(t, err)
	assert.False(t, ok)

	require.True(t, c.StartEdit(task.TaskID))
	c.SetForm(Form{Task: "changed", Priority: models.PriorityLow, DueDate: day(12)})
	ok, err = c.CommitEdit(ctx)
	assert.Error(t, err)
	assert.False(t, ok)
	_, editing := c.Editing()
	assert.True(t, editing, "a failed commit keeps the edit open")

	removed, err := c.Delete(ctx, task.TaskID)
	assert.Error(t, err)
	assert.False(t, removed)

	assert.Equal(t, []models.Task{task}, c.Snapshot())
	repo.Err = nil
	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Task{task}, loaded)
}

func TestLoadSkipsCorruptEntries(t *testing.T) {
	repo := db.NewMemory()
	ctx := context.Background()
	good := models.Task{Task: "ok", Priority: models.PriorityLow, DueDate: day(11), TaskID: "good"}
	require.NoError(t, repo.Put(ctx, good.TaskID, good))
	repo.SetRaw("bad", "{not json")

	c := New(repo, AutoConfirm(true))
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, []models.Task{good}, c.Snapshot())
}

func TestLoadAbortPolicy(t *testing.T) {
	repo := db.NewMemory(db.WithLoadPolicy(db.PolicyAbort))
	repo.SetRaw("bad", `{"task":"x"}`)

	c := New(repo, AutoConfirm(true))
	err := c.Load(context.Background())
	assert.ErrorIs(t, err, db.ErrCorruptEntry)
}

func TestLoadAppliesInitialSort(t *testing.T) {
	repo := db.NewMemory()
	ctx := context.Background()
	for i, p := range []models.Priority{models.PriorityHigh, models.PriorityLow, models.PriorityNormal} {
		id := fmt.Sprintf("t%d", i)
		require.NoError(t, repo.Put(ctx, id, models.Task{Task: id, Priority: p, DueDate: day(11), TaskID: id}))
	}
	c := New(repo, AutoConfirm(true), WithSort(SortPriority, Asc))
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, []string{"t1", "t2", "t0"}, texts(c.View()))
}

func TestResolve(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	seedABC(t, c)

	got, err := c.Resolve("id-2")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Task)

	_, err = c.Resolve("id-")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = c.Resolve("zzz")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = c.Resolve("  ")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestValidateForm(t *testing.T) {
	c, _ := newTestController(t, AutoConfirm(true))
	ctx := context.Background()

	assert.Error(t, c.ValidateForm(), "blank task text")

	c.SetForm(Form{Task: "ok", Priority: models.PriorityNormal, DueDate: day(11)})
	assert.NoError(t, c.ValidateForm())

	c.SetForm(Form{Task: "ok", Priority: models.PriorityNormal, DueDate: day(10)})
	assert.Error(t, c.ValidateForm(), "today is too early for a new task")

	task, err := c.Create(ctx, "old", models.PriorityLow, day(11))
	require.NoError(t, err)
	_, err = c.SetCompletion(ctx, task.TaskID, false)
	require.NoError(t, err)

	// the stored date is in the past relative to a later clock
	later := New(c.repo, AutoConfirm(true), WithClock(func() time.Time { return testNow.AddDate(0, 0, 5) }))
	require.NoError(t, later.Load(ctx))
	require.True(t, later.StartEdit(task.TaskID))
	assert.NoError(t, later.ValidateForm(), "an unchanged past date is kept")

	f := later.Form()
	f.DueDate = day(12)
	later.SetForm(f)
	assert.Error(t, later.ValidateForm())
}

func TestFormValidateCollectsAllErrors(t *testing.T) {
	err := Form{}.Validate(testNow, models.Date{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task is required")
	assert.Contains(t, err.Error(), "priority is required")
}

func TestAbout(t *testing.T) {
	dialog := &scriptedDialog{}
	c, _ := newTestController(t, dialog)
	require.NoError(t, c.About(context.Background()))
	assert.Equal(t, 1, dialog.informs)
}

func TestAutoConfirmHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := AutoConfirm(true).Confirm(ctx, "t", "c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseSortKeyAndDirection(t *testing.T) {
	k, err := ParseSortKey("Due")
	require.NoError(t, err)
	assert.Equal(t, SortDueDate, k)

	_, err = ParseSortKey("size")
	assert.Error(t, err)

	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Asc, d)
	assert.Equal(t, Desc, d.Toggle())
	assert.Equal(t, Asc, Desc.Toggle())
}
