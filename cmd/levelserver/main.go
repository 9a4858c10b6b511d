package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Iso-Map/internal/level"
	"github.com/Garsondee/Iso-Map/internal/logger"
)

func main() {
	var addr, dir, logLevel, logFormat string
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&dir, "dir", "data", "directory holding level-N.json files")
	flag.StringVar(&logLevel, "log-level", "", "log level (default $LOG_LEVEL or info)")
	flag.StringVar(&logFormat, "log-format", "", "log format: text or json (default $LOG_FORMAT or text)")
	flag.Parse()

	log := logger.New(logLevel, logFormat, os.Stderr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           level.NewHandler(dir, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.WithFields(logrus.Fields{"addr": addr, "dir": dir}).Info("level server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("level server stopped")
	}
}
