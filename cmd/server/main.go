package main

import (
	"net/http"

	"go.uber.org/zap"

	"expedition-backend/internal/server"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	srv := server.New(cfg, log)
	log.Info("listening", zap.String("addr", cfg.Addr), zap.String("data_dir", cfg.DataDir))
	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}
