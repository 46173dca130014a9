package index

import (
	"path/filepath"

	"github.com/lintang-b-s/place-search/pkg/docstore"
	"github.com/lintang-b-s/place-search/pkg/trie"
)

const (
	DEFAULT_DATASET_FILE = "db.tsv"
	DEFAULT_INDEX_FILE   = "index.bin"
	DEFAULT_TRIE_FILE    = "trie.gz"
	DEFAULT_GRID_FILE    = "grid.gz"
	DEFAULT_COUNTRY_FILE = "countries.json.gz"
	DEFAULT_COUNTRY_DB   = "countries.db"
)

// Config names the dataset and the artifacts derived from it. relative file names are
// resolved against DataDir.
type Config struct {
	DataDir     string
	DatasetFile string
	IndexFile   string
	TrieFile    string
	GridFile    string

	// CountryFile and CountryDB are optional. when both are set Build imports the country
	// translations into the bbolt file.
	CountryFile string
	CountryDB   string

	HasHeader        bool
	TrieCodec        trie.Codec
	MaxRowLength     int
	FetchConcurrency int

	// Quiet hides the progress bar.
	Quiet bool
}

func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:          dataDir,
		DatasetFile:      DEFAULT_DATASET_FILE,
		IndexFile:        DEFAULT_INDEX_FILE,
		TrieFile:         DEFAULT_TRIE_FILE,
		GridFile:         DEFAULT_GRID_FILE,
		HasHeader:        true,
		TrieCodec:        trie.CodecMsgpack,
		MaxRowLength:     docstore.DEFAULT_MAX_ROW_LENGTH,
		FetchConcurrency: docstore.DEFAULT_CONCURRENCY,
	}
}

func (c Config) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c Config) DatasetPath() string { return c.resolve(c.DatasetFile) }
func (c Config) IndexPath() string   { return c.resolve(c.IndexFile) }
func (c Config) TriePath() string    { return c.resolve(c.TrieFile) }
func (c Config) GridPath() string    { return c.resolve(c.GridFile) }
func (c Config) CountryPath() string { return c.resolve(c.CountryFile) }
func (c Config) CountryDBPath() string {
	return c.resolve(c.CountryDB)
}

func (c Config) storeOptions() []docstore.Option {
	return []docstore.Option{
		docstore.WithHeader(c.HasHeader),
		docstore.WithMaxRowLength(c.MaxRowLength),
		docstore.WithConcurrency(c.FetchConcurrency),
	}
}
