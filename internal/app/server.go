// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"reflect"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"github.com/open-edge-platform/comment-highlighter/api/v1"
	"github.com/open-edge-platform/comment-highlighter/internal/config"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

const shutdownTimeout = 5 * time.Second

var logger *slog.Logger

// StartServer serves the HTTP API and the gRPC health service until ctx is done, then shuts both down gracefully.
func StartServer(ctx context.Context, conf config.Config, logLvl string, db *gorm.DB, languages *syntax.Registry) {
	// Creating new Echo server
	e := echo.New()

	// Create a custom logger using slog
	opts := setLogLvl(e, logLvl)
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &opts))

	// Set slog logger as the default logger for Echo to use the same logger configuration without explicitly passing the logger instance around.
	slog.SetDefault(logger)

	serverInterface := NewServerInterfaceHandler(conf, db, languages)

	// Registering API call handlers
	api.RegisterHandlers(e, serverInterface)

	e.Use(middleware.Recover())
	// Use middleware to log requests with the custom logger
	e.Use(middleware.RequestLoggerWithConfig(
		middleware.RequestLoggerConfig{
			// NOTE: skipping GET requests from curl/kube-probe to /api/v1/status
			// in order to not log incoming readiness/liveness probes requests
			Skipper:      skipLog,
			LogURI:       true,
			LogStatus:    true,
			LogError:     true,
			LogUserAgent: true,
			LogMethod:    true,
			LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
				if v.Error != nil {
					logger.LogAttrs(context.Background(), slog.LevelError, "REQUEST_ERROR",
						slog.String("uri", v.URI),
						slog.Int("status", v.Status),
						slog.String("user-agent", v.UserAgent),
						slog.String("method", v.Method),
						slog.String("error", v.Error.Error()),
					)
				} else {
					logger.LogAttrs(context.Background(), slog.LevelInfo, "REQUEST",
						slog.String("uri", v.URI),
						slog.Int("status", v.Status),
						slog.String("user-agent", v.UserAgent),
						slog.String("method", v.Method),
					)
				}
				return nil
			},
		},
	))

	// Print welcome message in logs
	welcomeMessage(e, conf, logLvl, languages)

	healthServer := NewHealthServer()
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", conf.Server.GRPCPort))
	if err != nil {
		e.Logger.Panic(err)
	}
	go func() {
		if err := healthServer.Serve(lis); err != nil {
			e.Logger.Errorf("Health server stopped: %v", err)
		}
	}()

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", conf.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Panic("Server shutdown")
		}
	}()

	<-ctx.Done()
	logger.Info("Got termination/interruption signal, attempting graceful shutdown")

	healthServer.Shutdown(shutdownTimeout)

	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelTimeout()
	if err := e.Shutdown(ctxTimeout); err != nil {
		e.Logger.Panic(err)
	}
}

func setLogLvl(e *echo.Echo, logLvl string) slog.HandlerOptions {
	switch logLvl {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
		return slog.HandlerOptions{
			Level: slog.LevelDebug,
		}
	case "info":
		e.Logger.SetLevel(log.INFO)
		return slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	case "warn":
		e.Logger.SetLevel(log.WARN)
		return slog.HandlerOptions{
			Level: slog.LevelWarn,
		}
	case "error":
		e.Logger.SetLevel(log.ERROR)
		return slog.HandlerOptions{
			Level: slog.LevelError,
		}
	default:
		e.Logger.SetLevel(log.INFO)
		return slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}
}

func welcomeMessage(e *echo.Echo, cfg config.Config, logLvl string, languages *syntax.Registry) {
	e.HidePort = true
	e.HideBanner = true
	fmt.Println("Comment Highlighter")
	fmt.Printf("⇨ Log level: %s\n", logLvl)
	fmt.Printf("⇨ HTTP server port: %d\n", cfg.Server.Port)
	fmt.Printf("⇨ gRPC health port: %d\n", cfg.Server.GRPCPort)
	fmt.Println("Configuration:")
	printStruct("Server", cfg.Server)
	printStruct("Analyzer", cfg.Analyzer)
	fmt.Printf("⇨ Database driver: %s\n", cfg.Database.Driver)
	fmt.Println("⇨ Languages:")
	for _, lang := range languages.Languages() {
		fmt.Printf("  %s: %v\n", lang.Name, lang.Extensions)
	}
}

func printStruct(header string, obj any) {
	fmt.Printf("⇨ %s:\n", header)
	vals := reflect.ValueOf(obj)
	types := vals.Type()
	for i := 0; i < vals.NumField(); i++ {
		fmt.Printf("  %s: %v\n", types.Field(i).Name, vals.Field(i))
	}
}
