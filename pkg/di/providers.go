package di

import (
	"context"

	"github.com/lintang-b-s/place-search/pkg/enrich"
	searchHttp "github.com/lintang-b-s/place-search/pkg/http"
	"github.com/lintang-b-s/place-search/pkg/http/http-router/controllers"
	"github.com/lintang-b-s/place-search/pkg/http/usecases"
	"github.com/lintang-b-s/place-search/pkg/metrics"

	"go.uber.org/zap"
)

func NewSearcherService(log *zap.Logger, searcher usecases.Searcher, enricher *enrich.Enricher) controllers.SearchService {
	return usecases.New(log, searcher, enricher)
}

func NewSearchAPIServer(ctx context.Context, log *zap.Logger,
	searchService controllers.SearchService, m *metrics.Metrics) (*searchHttp.Server, error) {
	api := searchHttp.NewServer(log)

	apiService, err := api.Use(
		ctx, log, searchService, m,
	)
	if err != nil {
		return nil, err
	}

	return apiService, nil
}
