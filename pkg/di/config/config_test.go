package config

import (
	"testing"

	"github.com/lintang-b-s/place-search/pkg/ranker"
	"github.com/lintang-b-s/place-search/pkg/trie"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper(t *testing.T) {
	v := viper.New()
	v.Set("DATA_DIR", "/srv/places")
	v.Set("DATASET_FILE", "cities.tsv")
	v.Set("DATASET_HAS_HEADER", false)
	v.Set("TRIE_CODEC", "json")
	v.Set("RANKING_MODE", "edit_distance")
	v.Set("CANDIDATE_POOL", 25)
	v.Set("MAX_ROW_LENGTH", 2048)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/places/cities.tsv", cfg.Index.DatasetPath())
	assert.False(t, cfg.Index.HasHeader)
	assert.Equal(t, trie.CodecJSON, cfg.Index.TrieCodec)
	assert.Equal(t, ranker.EditDistance, cfg.RankingMode)
	assert.Equal(t, 25, cfg.CandidatePool)
	assert.Equal(t, 2048, cfg.Index.MaxRowLength)
}

func TestFromViperRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "codec", key: "TRIE_CODEC", value: "protobuf"},
		{name: "ranking mode", key: "RANKING_MODE", value: "bm25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}
