package main

import (
	"log"

	"github.com/lintang-b-s/place-search/pkg/di"

	"go.uber.org/zap"
)

func main() {
	server, cleanup, err := di.InitializeSearcherService()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	server.Log.Info("place search server started")

	if err := server.Wait(); err != nil {
		server.Log.Error("server stopped", zap.Error(err))
	}
}
