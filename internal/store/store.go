// Package store persists processed document bundles.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgallion1/findoc/internal/document"
)

// ErrNotFound is returned when no bundle has the requested ID.
var ErrNotFound = errors.New("store: document not found")

// Store holds bundles by ID and indexes them by content hash.
type Store interface {
	Put(ctx context.Context, b *document.Bundle) error
	Get(ctx context.Context, id string) (*document.Bundle, error)
	Delete(ctx context.Context, id string) error
	// List returns summaries, newest first.
	List(ctx context.Context) ([]document.Summary, error)
	// FindByHash returns the ID of a bundle with the given content hash,
	// or "" when there is none.
	FindByHash(ctx context.Context, hash string) (string, error)
	Close() error
}

func encode(b *document.Bundle) ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode bundle %s: %w", b.ID, err)
	}
	return data, nil
}

func decode(data []byte) (*document.Bundle, error) {
	var b document.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	b.RestoreKinds()
	return &b, nil
}

func sortSummaries(s []document.Summary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].CreatedAt.After(s[j].CreatedAt)
	})
}
