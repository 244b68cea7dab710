package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Finder is the storage contract the resolver needs: name lookup and create
// with a duplicate-name signal.
type Finder interface {
	FindByName(ctx context.Context, name string) (*Tag, error)
	Create(ctx context.Context, name string) (*Tag, error)
}

// Resolver maps a free-text, comma-separated tag field to a set of stable tag
// ids, creating tags for names not yet known.
//
// FindByName and Create are not atomic as a unit: two concurrent resolutions
// of the same new name can both observe "not found" and both attempt the
// insert. The unique constraint on tags.name turns the loser's insert into
// ErrDuplicateName, which the resolver recovers by re-fetching the winner's
// row. The end state is one id per name no matter how many calls overlap.
type Resolver struct {
	store      Finder
	onConflict func()
}

// NewResolver creates a resolver over the given tag storage. onConflict, if
// non-nil, is invoked every time a lost create race is recovered.
func NewResolver(store Finder, onConflict func()) *Resolver {
	return &Resolver{store: store, onConflict: onConflict}
}

// Resolve parses raw into distinct tag names and returns one tag id per name,
// creating tags as needed. An empty or all-whitespace input yields an empty
// set and no error.
func (r *Resolver) Resolve(ctx context.Context, raw string) ([]string, error) {
	names := ParseNames(raw)

	ids := make([]string, 0, len(names))
	for _, name := range names {
		t, err := r.resolveOne(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolving tag %q: %w", name, err)
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (r *Resolver) resolveOne(ctx context.Context, name string) (*Tag, error) {
	t, err := r.store.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}

	t, err = r.store.Create(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrDuplicateName) {
		return nil, err
	}

	// Lost the create race: a concurrent caller inserted this name between
	// our lookup and our insert. The row exists now.
	if r.onConflict != nil {
		r.onConflict()
	}
	t, err = r.store.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("tag missing after duplicate-name create")
	}
	return t, nil
}

// ParseNames splits a comma-separated tag field into trimmed, non-empty,
// de-duplicated names. First occurrence order is preserved.
func ParseNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
