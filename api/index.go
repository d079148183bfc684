package handler

import (
	"dogwalking/config"
	"dogwalking/di"
	"dogwalking/shared/logger"
	"net/http"
	"sync"
)

var (
	once    sync.Once
	service http.Handler
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		service = di.InitializeService().Handler()
	})

	service.ServeHTTP(w, r)
}
