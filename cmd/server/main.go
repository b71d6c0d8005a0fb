package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/config"
	"github.com/mamadbah2/ricemill/internal/repository/mongodb"
	"github.com/mamadbah2/ricemill/internal/repository/sheets"
	"github.com/mamadbah2/ricemill/internal/scheduler"
	"github.com/mamadbah2/ricemill/internal/server/handlers"
	"github.com/mamadbah2/ricemill/internal/server/router"
	authsvc "github.com/mamadbah2/ricemill/internal/service/auth"
	recordsvc "github.com/mamadbah2/ricemill/internal/service/records"
	reportingsvc "github.com/mamadbah2/ricemill/internal/service/reporting"
	workbooksvc "github.com/mamadbah2/ricemill/internal/service/workbook"
	"github.com/mamadbah2/ricemill/pkg/clients/googleauth"
	"github.com/mamadbah2/ricemill/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(os.Getenv("LOG_LEVEL")))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var mirror sheets.Mirror
	if cfg.MirrorEnabled() {
		mirror, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets mirror", zap.Error(err))
		}
		baseLogger.Info("spreadsheet mirror enabled")
	} else {
		baseLogger.Info("spreadsheet mirror disabled")
	}

	workbookSvc := workbooksvc.NewService(baseLogger.Named("svc.workbook"))
	recordSvc := recordsvc.NewService(mongoRepo, mirror, baseLogger.Named("svc.records"))
	reportingSvc := reportingsvc.NewService(mongoRepo, baseLogger.Named("svc.reporting"))

	verifier := googleauth.NewClient(cfg.Auth.GoogleClientID)
	authSvc := authsvc.NewService(verifier, cfg.Auth, baseLogger.Named("svc.auth"))

	ledgerHandler := handlers.NewLedgerHandler(workbookSvc, recordSvc, reportingSvc, baseLogger.Named("handlers.ledger"))
	authHandler := handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth"))
	engine := router.New(ledgerHandler, authHandler, authSvc, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Digest, reportingSvc, mongoRepo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
