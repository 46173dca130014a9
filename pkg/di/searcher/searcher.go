package searcher_di

import (
	"context"

	"github.com/lintang-b-s/place-search/pkg/di/config"
	"github.com/lintang-b-s/place-search/pkg/docstore"
	"github.com/lintang-b-s/place-search/pkg/enrich"
	"github.com/lintang-b-s/place-search/pkg/http/usecases"
	"github.com/lintang-b-s/place-search/pkg/index"
	"github.com/lintang-b-s/place-search/pkg/metrics"
	"github.com/lintang-b-s/place-search/pkg/searcher"

	"go.uber.org/zap"
)

func New(ctx context.Context, cfg *config.Config, log *zap.Logger, enricher *enrich.Enricher,
	m *metrics.Metrics) (usecases.Searcher, error) {
	indexes, err := index.Open(ctx, cfg.Index, log, docstore.WithCacheObserver(m))
	if err != nil {
		return nil, err
	}
	m.WatchCacheSize(indexes.Store.CacheSize)

	placeSearcher := searcher.NewSearcher(indexes.Trie, indexes.Grid, indexes.Store, enricher, log,
		searcher.WithRankingMode(cfg.RankingMode),
		searcher.WithCandidatePool(cfg.CandidatePool),
		searcher.WithQueryObserver(m),
	)

	return placeSearcher, nil
}
