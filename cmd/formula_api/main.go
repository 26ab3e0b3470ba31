// Package main Formula Analyzer API
// @title Formula Analyzer API
// @version 1.0
// @description Exact evaluation and validation of closed-form integer sequence formulas
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/loda-lang/formula-analyzer/docs"
	"github.com/loda-lang/formula-analyzer/internal/api/router"
	"github.com/loda-lang/formula-analyzer/internal/api/server"
	"github.com/loda-lang/formula-analyzer/internal/storage"
	"github.com/loda-lang/formula-analyzer/internal/storage/factory"
	pkgserver "github.com/loda-lang/formula-analyzer/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	sinkCfg, err := factory.LoadEnv(storage.None)
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	sink, err := factory.NewSink(context.Background(), sinkCfg)
	if err != nil {
		slog.Error("Failed to create result sink", "error", err)
		os.Exit(1)
	}

	health := pkgserver.AllHealthChecker{pkgserver.NewOkHealthChecker()}
	var routerOpts []router.FormulaRouterOption
	if sink != nil {
		defer sink.Close()
		if hc, ok := sink.(pkgserver.HealthChecker); ok {
			health = append(health, hc)
		}
		routerOpts = append(routerOpts, router.WithSink(sink))
		slog.Info("Storing API validations", "sink", sinkCfg.Type)
	}

	s := server.New(sCfg, health)
	s.SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Formula Analyzer API is running")
	})

	router.NewFormulaRouter(s.Echo, routerOpts...).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
