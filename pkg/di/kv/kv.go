package kv_di

import (
	"context"
	"os"
	"time"

	"github.com/lintang-b-s/place-search/pkg/di/config"
	"github.com/lintang-b-s/place-search/pkg/kvdb"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// New opens the country database read only. it returns nil when COUNTRY_DB is unset or the file
// does not exist yet.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*kvdb.KVDB, error) {
	path := cfg.Index.CountryDBPath()
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Warn("country database not found", zap.String("path", path))
		return nil, nil
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{ReadOnly: true, Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	bboltKV, err := kvdb.NewReadOnlyKVDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		cleanup()
	}()

	return bboltKV, nil
}
