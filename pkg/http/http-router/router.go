package http_router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lintang-b-s/place-search/pkg/http/http-router/controllers"
	router_helper "github.com/lintang-b-s/place-search/pkg/http/http-router/router-helper"
	http_server "github.com/lintang-b-s/place-search/pkg/http/server"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type MetricsService interface {
	HTTPObserver
	Handler() http.Handler
}

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler wires the routes and the middleware chain. metrics may be nil.
func (api *API) Handler(searchService controllers.SearchService, metrics MetricsService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	group := router_helper.NewRouteGroup(router, "/api")

	searcherRoutes := controllers.New(searchService, api.log)

	searcherRoutes.Routes(group)

	chain := alice.New(corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), Labels)
	if metrics != nil {
		router.Handler(http.MethodGet, "/metrics", metrics.Handler())
		chain = chain.Append(Metrics(metrics))
	}

	return chain.Then(router)
}

func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	searchService controllers.SearchService,
	metrics MetricsService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(searchService, metrics), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
