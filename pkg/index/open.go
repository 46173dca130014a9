package index

import (
	"context"
	"fmt"
	"os"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/docstore"
	"github.com/lintang-b-s/place-search/pkg/grid"
	"github.com/lintang-b-s/place-search/pkg/trie"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Indexes are the loaded, read only artifacts a searcher is built from.
type Indexes struct {
	Trie  *trie.Trie
	Grid  *grid.Grid
	Store *docstore.DocumentStore
}

// Open loads the trie and the grid concurrently and checks that the dataset and its offset index
// can be opened. extra store options are applied after the ones derived from cfg.
func Open(ctx context.Context, cfg Config, log *zap.Logger, opts ...docstore.Option) (*Indexes, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := os.Stat(cfg.DatasetPath()); err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "dataset %s cannot be opened", cfg.DatasetPath())
	}

	store := docstore.New(cfg.DatasetPath(), cfg.IndexPath(), append(cfg.storeOptions(), opts...)...)
	rows, err := store.Len(ctx)
	if err != nil {
		return nil, err
	}

	indexes := &Indexes{Store: store}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := trie.LoadFile(cfg.TriePath(), cfg.TrieCodec)
		if err != nil {
			return err
		}
		indexes.Trie = t
		return nil
	})
	g.Go(func() error {
		gr, err := grid.LoadFile(cfg.GridPath())
		if err != nil {
			return err
		}
		indexes.Grid = gr
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error when loading index from %s: %w", cfg.DataDir, err)
	}

	trieNodes, triePostings := indexes.Trie.Stats()
	log.Info("index loaded",
		zap.String("dataset", cfg.DatasetPath()),
		zap.Int("rows", rows),
		zap.Int("trieNodes", trieNodes),
		zap.Int("triePostings", triePostings),
		zap.Int("gridEntries", indexes.Grid.Len()))
	return indexes, nil
}
