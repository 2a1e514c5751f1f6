package db

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCorruptEntry marks a stored value that is not a valid task record.
var ErrCorruptEntry = errors.New("corrupt entry")

// StorageError wraps every failure coming out of a store.
type StorageError struct {
	Op  string // put, remove, load
	Key string // empty for whole-store operations
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// LoadPolicy decides what happens to invalid entries found at load time.
type LoadPolicy string

const (
	// PolicySkip drops invalid entries, logs them and keeps loading.
	PolicySkip LoadPolicy = "skip"
	// PolicyAbort fails the whole load on the first invalid entry.
	PolicyAbort LoadPolicy = "abort"
)

// ParseLoadPolicy parses a policy name. Empty means skip.
func ParseLoadPolicy(s string) (LoadPolicy, error) {
	switch LoadPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyAbort:
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("invalid load policy %q: use skip or abort", s)
	}
}

// SkippedEntry records an entry dropped under PolicySkip
type SkippedEntry struct {
	Key string
	Err error
}
