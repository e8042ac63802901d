package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bhall66/DacTone/internal/command"
	"github.com/bhall66/DacTone/internal/config"
	"github.com/bhall66/DacTone/internal/device"
	"github.com/bhall66/DacTone/internal/handler"
	"github.com/bhall66/DacTone/internal/register"
	"github.com/bhall66/DacTone/internal/rpc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("dactoned starting",
		zap.String("http", cfg.HTTPAddr),
		zap.String("grpc", cfg.GRPCAddr),
		zap.Any("channels", cfg.Channels),
		zap.Bool("auth", cfg.APIKey != ""),
	)

	regs := register.NewFile(cfg.JournalSize)
	dev, err := device.New(register.Instrument(regs, logger), logger, cfg.Channels, device.WithInspector(regs))
	if err != nil {
		logger.Fatal("failed to create device", zap.Error(err))
	}

	commands := command.NewDeviceRouter(dev, logger)
	h := handler.NewHandlers(dev, commands, logger, cfg.MaxCommands)

	router := handler.NewRouter(h, logger, handler.RouterOptions{
		APIKey:      cfg.APIKey,
		CORSOrigins: cfg.CORSOrigins,
	})

	// Command sequences may rest between notes, so writes get a long timeout.
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("http API listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http API failed", zap.Error(err))
		}
	}()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("grpc listen failed", zap.Error(err))
	}
	grpcSrv := rpc.NewGRPCServer(dev, logger)
	go func() {
		logger.Info("grpc API listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Fatal("grpc API failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = multierr.Combine(srv.Shutdown(ctx), stopGRPC(ctx, grpcSrv))
	dev.Shutdown()
	if err != nil {
		logger.Error("shutdown incomplete", zap.Error(err))
	}
}

type grpcStopper interface {
	GracefulStop()
	Stop()
}

// stopGRPC drains in-flight calls, falling back to a hard stop when ctx
// expires first.
func stopGRPC(ctx context.Context, s grpcStopper) error {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	}
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	lvl, parseErr := zapcore.ParseLevel(level)
	if parseErr != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	if parseErr != nil {
		logger.Warn("unknown log level, using info", zap.String("level", level))
	}
	return logger
}
