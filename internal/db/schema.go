package db

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/balkashynov/todo/internal/models"
)

//go:embed task.schema.json
var taskSchemaSource string

const taskSchemaURL = "https://todo.local/task.schema.json"

var taskSchema = compileTaskSchema()

func compileTaskSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaSource)); err != nil {
		panic(fmt.Sprintf("task schema: %v", err))
	}
	return compiler.MustCompile(taskSchemaURL)
}

// decodeEntry validates a stored value against the task schema and decodes it.
// The key must match the record's taskId.
func decodeEntry(key, value string) (models.Task, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if err := taskSchema.Validate(doc); err != nil {
		return models.Task{}, fmt.Errorf("%w: %s", ErrCorruptEntry, schemaMessage(err))
	}

	var task models.Task
	if err := json.Unmarshal([]byte(value), &task); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if task.TaskID != key {
		return models.Task{}, fmt.Errorf("%w: taskId %q does not match key", ErrCorruptEntry, task.TaskID)
	}
	return task, nil
}

func encodeEntry(task models.Task) (string, error) {
	b, err := json.Marshal(task)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// schemaMessage flattens a validation error to its leaf causes.
func schemaMessage(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var msgs []string
	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := strings.TrimPrefix(e.InstanceLocation, "/")
			if loc == "" {
				msgs = append(msgs, e.Message)
			} else {
				msgs = append(msgs, loc+": "+e.Message)
			}
			return
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(ve)
	return strings.Join(msgs, "; ")
}

type rawEntry struct {
	key   string
	value string
}

// decodeAll turns raw entries into tasks according to policy.
func decodeAll(entries []rawEntry, policy LoadPolicy, logger *log.Logger) ([]models.Task, []SkippedEntry, error) {
	tasks := make([]models.Task, 0, len(entries))
	var skipped []SkippedEntry
	for _, e := range entries {
		task, err := decodeEntry(e.key, e.value)
		if err != nil {
			if policy == PolicyAbort {
				return nil, nil, &StorageError{Op: "load", Key: e.key, Err: err}
			}
			logger.Warn("skipping invalid entry", "key", e.key, "err", err)
			skipped = append(skipped, SkippedEntry{Key: e.key, Err: err})
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, skipped, nil
}
