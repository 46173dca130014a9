package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/place-search/pkg/di/config"
	logger_di "github.com/lintang-b-s/place-search/pkg/di/logger"
	"github.com/lintang-b-s/place-search/pkg/index"
	"github.com/lintang-b-s/place-search/pkg/trie"

	"go.uber.org/zap"
)

var (
	dataDir     = flag.String("o", "", "output directory for index.bin, trie.gz and grid.gz (default DATA_DIR)")
	datasetFile = flag.String("f", "", "places dataset tsv file (default DATASET_FILE)")
	noHeader    = flag.Bool("no-header", false, "the dataset has no header line")
	trieCodec   = flag.String("codec", "", "trie codec, msgpack or json (default TRIE_CODEC)")
	countryFile = flag.String("countries", "", "gzip json country translation file to import (default COUNTRY_FILE)")
	countryDB   = flag.String("country-db", "", "bbolt file the country translations are imported into (default COUNTRY_DB)")
	skipCountry = flag.Bool("skip-countries", false, "do not import the country translations")
	quiet       = flag.Bool("q", false, "hide the progress bar")
)

func main() {
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}
	logger, cleanup, err := logger_di.New()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	buildCfg := cfg.Index
	if *dataDir != "" {
		buildCfg.DataDir = *dataDir
	}
	if *datasetFile != "" {
		buildCfg.DatasetFile = *datasetFile
	}
	if *noHeader {
		buildCfg.HasHeader = false
	}
	if *trieCodec != "" {
		codec, err := trie.ParseCodec(*trieCodec)
		if err != nil {
			logger.Fatal("invalid trie codec", zap.Error(err))
		}
		buildCfg.TrieCodec = codec
	}
	if *countryFile != "" {
		buildCfg.CountryFile = *countryFile
	}
	if *countryDB != "" {
		buildCfg.CountryDB = *countryDB
	}
	if *skipCountry {
		buildCfg.CountryFile = ""
	} else if buildCfg.CountryFile != "" {
		if _, err := os.Stat(buildCfg.CountryPath()); err != nil {
			logger.Warn("country translation file not found, skipping import", zap.String("path", buildCfg.CountryPath()))
			buildCfg.CountryFile = ""
		}
	}
	buildCfg.Quiet = *quiet

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := index.NewIndexer(buildCfg, logger).Build(ctx); err != nil {
		logger.Fatal("indexing failed", zap.Error(err))
	}
}
