package trie

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/place-search/pkg/dataset"
)

// BuildFromDataset inserts the name and every alternative name of each row under the row ordinal.
func BuildFromDataset(ctx context.Context, path string, hasHeader bool) (*Trie, error) {
	t := New()
	err := dataset.ForEachRow(ctx, path, hasHeader, func(ordinal int, line string) error {
		name, alternativeNames := dataset.NameFields(line)
		t.Insert(name, ordinal)
		for _, alt := range alternativeNames {
			t.Insert(alt, ordinal)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error when building trie from %s: %w", path, err)
	}
	return t, nil
}
