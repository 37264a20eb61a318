// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/open-edge-platform/comment-highlighter/internal/analyzer"
	"github.com/open-edge-platform/comment-highlighter/internal/app"
	"github.com/open-edge-platform/comment-highlighter/internal/config"
	"github.com/open-edge-platform/comment-highlighter/internal/database"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

func validateLogLevel(value string) error {
	switch value {
	case "debug":
	case "info":
	case "warn":
	case "error":
	default:
		return fmt.Errorf("invalid log level %q", value)
	}
	return nil
}

// loadLanguages returns the builtin languages, overridden by the languages file at path when set.
func loadLanguages(path string) (*syntax.Registry, error) {
	languages := syntax.Builtin()
	if path == "" {
		return languages, nil
	}

	overrides, err := syntax.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load languages: %w", err)
	}
	return languages.Merge(overrides), nil
}

// ownerUUID identifies this instance when taking documents. POD_UID is used when running in a pod.
func ownerUUID() (uuid.UUID, error) {
	podUUID := os.Getenv("POD_UID")
	if podUUID == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(podUUID)
}

func main() {
	configFile := flag.String("config", "", "config file path")
	apiPort := flag.Int("port", 0, "API service port, overrides the configured one when set")
	logLevel := flag.String("log-level", "info", "API server log level")

	flag.Parse()

	configuration, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *apiPort != 0 {
		configuration.Server.Port = *apiPort
	}

	err = validateLogLevel(*logLevel)
	if err != nil {
		log.Fatal(err.Error())
	}

	languages, err := loadLanguages(configuration.Languages)
	if err != nil {
		log.Fatal(err.Error())
	}

	db, err := database.ConnectDB(configuration.Database)
	if err != nil {
		log.Fatal(err.Error())
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err.Error())
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error appeared when closing database connection: %v", err)
		}
	}()

	owner, err := ownerUUID()
	if err != nil {
		log.Fatal(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := analyzer.NewAnalyzer(owner, configuration.Analyzer, languages, &database.DBService{DB: db}, *logLevel)
	a.Start(ctx)
	defer a.Stop()

	app.StartServer(ctx, configuration, *logLevel, db, languages)
}
