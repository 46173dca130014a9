package enrich_di

import (
	"errors"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/di/config"
	"github.com/lintang-b-s/place-search/pkg/enrich"
	"github.com/lintang-b-s/place-search/pkg/kvdb"

	"go.uber.org/zap"
)

// New prefers the bbolt country database and falls back to the gzip json translation file.
// without either every country name is empty.
func New(cfg *config.Config, log *zap.Logger, db *kvdb.KVDB) (*enrich.Enricher, error) {
	if db != nil {
		log.Info("country names from bbolt", zap.String("path", cfg.Index.CountryDBPath()), zap.Int("countries", db.Count()))
		return enrich.NewEnricher(db), nil
	}

	path := cfg.Index.CountryPath()
	if path == "" {
		return enrich.NewEnricher(nil), nil
	}
	table, err := enrich.LoadMapTable(path)
	if errors.Is(err, pkg.ErrMissingStorage) {
		log.Warn("country translation file not found, country names are empty", zap.String("path", path))
		return enrich.NewEnricher(nil), nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("country names from translation file", zap.String("path", path), zap.Int("countries", len(table.Codes())))
	return enrich.NewEnricher(table), nil
}
