package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lintang-b-s/place-search/pkg/docstore"
	"github.com/lintang-b-s/place-search/pkg/index"
	"github.com/lintang-b-s/place-search/pkg/ranker"
	"github.com/lintang-b-s/place-search/pkg/searcher"
	"github.com/lintang-b-s/place-search/pkg/trie"

	"github.com/spf13/viper"
)

type Config struct {
	Index         index.Config
	RankingMode   ranker.Mode
	CandidatePool int
}

func SetDefaults() {
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("DATASET_FILE", index.DEFAULT_DATASET_FILE)
	viper.SetDefault("INDEX_FILE", index.DEFAULT_INDEX_FILE)
	viper.SetDefault("TRIE_FILE", index.DEFAULT_TRIE_FILE)
	viper.SetDefault("GRID_FILE", index.DEFAULT_GRID_FILE)
	viper.SetDefault("COUNTRY_FILE", index.DEFAULT_COUNTRY_FILE)
	viper.SetDefault("COUNTRY_DB", index.DEFAULT_COUNTRY_DB)
	viper.SetDefault("DATASET_HAS_HEADER", true)
	viper.SetDefault("TRIE_CODEC", trie.CodecMsgpack.String())
	viper.SetDefault("RANKING_MODE", ranker.PrefixMatch.String())
	viper.SetDefault("CANDIDATE_POOL", searcher.DEFAULT_CANDIDATE_POOL)
	viper.SetDefault("MAX_ROW_LENGTH", docstore.DEFAULT_MAX_ROW_LENGTH)
	viper.SetDefault("FETCH_CONCURRENCY", docstore.DEFAULT_CONCURRENCY)
}

// New reads config.yaml from the working directory when present, environment variables override it.
func New() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var typeErr viper.ConfigFileNotFoundError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("error when reading config.yaml: %w", err)
		}
	}

	return FromViper(viper.GetViper())
}

func FromViper(v *viper.Viper) (*Config, error) {
	codec, err := trie.ParseCodec(v.GetString("TRIE_CODEC"))
	if err != nil {
		return nil, err
	}
	mode, err := ranker.ParseMode(v.GetString("RANKING_MODE"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Index: index.Config{
			DataDir:          v.GetString("DATA_DIR"),
			DatasetFile:      v.GetString("DATASET_FILE"),
			IndexFile:        v.GetString("INDEX_FILE"),
			TrieFile:         v.GetString("TRIE_FILE"),
			GridFile:         v.GetString("GRID_FILE"),
			CountryFile:      v.GetString("COUNTRY_FILE"),
			CountryDB:        v.GetString("COUNTRY_DB"),
			HasHeader:        v.GetBool("DATASET_HAS_HEADER"),
			TrieCodec:        codec,
			MaxRowLength:     v.GetInt("MAX_ROW_LENGTH"),
			FetchConcurrency: v.GetInt("FETCH_CONCURRENCY"),
		},
		RankingMode:   mode,
		CandidatePool: v.GetInt("CANDIDATE_POOL"),
	}, nil
}
