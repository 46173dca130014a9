// Package index builds the search artifacts from the dataset and loads them back for serving.
package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/docstore"
	"github.com/lintang-b-s/place-search/pkg/enrich"
	"github.com/lintang-b-s/place-search/pkg/grid"
	"github.com/lintang-b-s/place-search/pkg/kvdb"
	"github.com/lintang-b-s/place-search/pkg/trie"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BuildStats struct {
	OffsetEntries int
	TrieNodes     int
	TriePostings  int
	GridEntries   int
	GridCells     int
	SkippedRows   int
	Countries     int
	Elapsed       time.Duration
}

type Indexer struct {
	cfg Config
	log *zap.Logger
}

func NewIndexer(cfg Config, log *zap.Logger) *Indexer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Indexer{cfg: cfg, log: log}
}

func (idx *Indexer) newProgressBar(steps int, description string) *progressbar.ProgressBar {
	var w io.Writer = ansi.NewAnsiStdout()
	if idx.cfg.Quiet {
		w = io.Discard
	}
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func (idx *Indexer) newline() {
	if !idx.cfg.Quiet {
		fmt.Println("")
	}
}

// Build scans the dataset once per artifact and writes the offset index, the trie and the grid.
// the three scans run concurrently. the first failure cancels the others.
func (idx *Indexer) Build(ctx context.Context) (BuildStats, error) {
	start := time.Now()
	stats := BuildStats{}

	datasetPath := idx.cfg.DatasetPath()
	if _, err := os.Stat(datasetPath); err != nil {
		return stats, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "dataset %s cannot be opened", datasetPath)
	}
	if err := os.MkdirAll(idx.cfg.DataDir, 0755); err != nil {
		return stats, fmt.Errorf("error when creating data dir %s: %w", idx.cfg.DataDir, err)
	}

	bar := idx.newProgressBar(3, "[cyan][1/2]Indexing places...")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := docstore.BuildOffsetIndex(gctx, datasetPath, idx.cfg.IndexPath())
		if err != nil {
			return err
		}
		stats.OffsetEntries = entries
		bar.Add(1)
		return nil
	})

	g.Go(func() error {
		t, err := trie.BuildFromDataset(gctx, datasetPath, idx.cfg.HasHeader)
		if err != nil {
			return err
		}
		if err := t.SaveFile(idx.cfg.TriePath(), idx.cfg.TrieCodec); err != nil {
			return err
		}
		stats.TrieNodes, stats.TriePostings = t.Stats()
		bar.Add(1)
		return nil
	})

	g.Go(func() error {
		gr, skipped, err := grid.BuildFromDataset(gctx, datasetPath, idx.cfg.HasHeader)
		if err != nil {
			return err
		}
		if err := gr.SaveFile(idx.cfg.GridPath()); err != nil {
			return err
		}
		stats.GridEntries = gr.Len()
		stats.GridCells = gr.Cells()
		stats.SkippedRows = skipped
		bar.Add(1)
		return nil
	})

	err := g.Wait()
	idx.newline()
	if err != nil {
		return stats, fmt.Errorf("error when building index for %s: %w", datasetPath, err)
	}

	if idx.cfg.CountryFile != "" && idx.cfg.CountryDB != "" {
		n, err := idx.importCountries()
		if err != nil {
			return stats, err
		}
		stats.Countries = n
	}

	stats.Elapsed = time.Since(start)
	idx.log.Info("index built",
		zap.String("dataset", datasetPath),
		zap.Int("offsetEntries", stats.OffsetEntries),
		zap.Int("trieNodes", stats.TrieNodes),
		zap.Int("triePostings", stats.TriePostings),
		zap.Int("gridEntries", stats.GridEntries),
		zap.Int("gridCells", stats.GridCells),
		zap.Int("skippedRows", stats.SkippedRows),
		zap.Int("countries", stats.Countries),
		zap.Duration("elapsed", stats.Elapsed))
	return stats, nil
}

// importCountries copies the country translation file into the bbolt country bucket.
func (idx *Indexer) importCountries() (int, error) {
	bar := idx.newProgressBar(2, "[cyan][2/2]Importing countries...")
	defer idx.newline()

	table, err := enrich.LoadMapTable(idx.cfg.CountryPath())
	if err != nil {
		return 0, err
	}
	bar.Add(1)

	db, err := bbolt.Open(idx.cfg.CountryDBPath(), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return 0, fmt.Errorf("error when opening %s: %w", idx.cfg.CountryDBPath(), err)
	}
	defer db.Close()

	kv, err := kvdb.NewKVDB(db)
	if err != nil {
		return 0, err
	}
	if err := kv.SaveCountries(table.All()); err != nil {
		return 0, fmt.Errorf("error when importing countries into %s: %w", idx.cfg.CountryDBPath(), err)
	}
	bar.Add(1)
	return kv.Count(), nil
}
