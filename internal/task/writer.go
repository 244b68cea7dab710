package task

import (
	"context"
	"fmt"
)

// TagResolver maps a raw comma-separated tag field to tag ids, creating tags
// for unknown names.
type TagResolver interface {
	Resolve(ctx context.Context, raw string) ([]string, error)
}

// TaskStorage is the persistence contract the writer needs.
type TaskStorage interface {
	Create(ctx context.Context, in CreateTaskInput) (*Task, error)
	Update(ctx context.Context, id string, in UpdateTaskInput) (*Task, error)
}

// Writer persists task writes, substituting resolved tag ids for the raw tags
// field before the row is written. Explicitly supplied tag ids pass through
// untouched; everything else is direct field assignment with partial-update
// semantics on the update path.
type Writer struct {
	store TaskStorage
	tags  TagResolver
}

// NewWriter creates a task writer over the given storage and tag resolver.
func NewWriter(store TaskStorage, tags TagResolver) *Writer {
	return &Writer{store: store, tags: tags}
}

// Create persists a new task. A non-empty raw Tags field wins over TagIDs.
func (w *Writer) Create(ctx context.Context, in CreateTaskInput) (*Task, error) {
	if in.Tags != "" {
		ids, err := w.tags.Resolve(ctx, in.Tags)
		if err != nil {
			return nil, fmt.Errorf("resolving task tags: %w", err)
		}
		in.TagIDs = ids
	}
	return w.store.Create(ctx, in)
}

// Update applies a partial update. A non-nil raw Tags field recomputes the
// tag set wholesale; a nil one leaves the stored tag ids alone unless TagIDs
// was supplied directly.
func (w *Writer) Update(ctx context.Context, id string, in UpdateTaskInput) (*Task, error) {
	if in.Tags != nil {
		ids, err := w.tags.Resolve(ctx, *in.Tags)
		if err != nil {
			return nil, fmt.Errorf("resolving task tags: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		in.TagIDs = &ids
	}
	return w.store.Update(ctx, id, in)
}
