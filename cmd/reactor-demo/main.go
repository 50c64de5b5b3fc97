// Package main runs the traffic light demo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanbartow/reactor/internal/config"
	"github.com/bryanbartow/reactor/internal/demo"
	"github.com/bryanbartow/reactor/internal/telemetry"
)

func main() {
	cfg, err := demo.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exit(fmt.Errorf("parse config: %w", err))
	}
	logger := log.New(os.Stderr, "[REACTOR-DEMO] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = telemetry.Run(ctx, demo.ServiceName, func(ctx context.Context) error {
		_, err := demo.Run(ctx, cfg, os.Stdout, logger)
		return err
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatalf("demo: %v", err)
	}
}
