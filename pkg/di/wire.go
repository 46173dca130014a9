//go:build wireinject

//go:generate wire
package di

import (
	"github.com/lintang-b-s/place-search/pkg/di/config"
	shortcontext "github.com/lintang-b-s/place-search/pkg/di/context"
	enrich_di "github.com/lintang-b-s/place-search/pkg/di/enrich"
	kv_di "github.com/lintang-b-s/place-search/pkg/di/kv"
	logger_di "github.com/lintang-b-s/place-search/pkg/di/logger"
	searcher_di "github.com/lintang-b-s/place-search/pkg/di/searcher"
	searchHttp "github.com/lintang-b-s/place-search/pkg/http"
	"github.com/lintang-b-s/place-search/pkg/metrics"

	"github.com/google/wire"
)

var defaultSet = wire.NewSet(
	shortcontext.New,
	config.New,
	logger_di.New,
	metrics.New,
	kv_di.New,
	enrich_di.New,
	searcher_di.New,
)

var searcherSet = wire.NewSet(
	defaultSet,
	NewSearcherService,
	NewSearchAPIServer,
)

func InitializeSearcherService() (*searchHttp.Server, func(), error) {

	panic(wire.Build(searcherSet))
}
