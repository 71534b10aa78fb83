package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Assas2401419/Guardian-Link/internal/api/gateway"
	"github.com/Assas2401419/Guardian-Link/internal/clock"
	"github.com/Assas2401419/Guardian-Link/internal/config"
	"github.com/Assas2401419/Guardian-Link/internal/geo"
	"github.com/Assas2401419/Guardian-Link/internal/logger"
	"github.com/Assas2401419/Guardian-Link/internal/repository/contacts"
	"github.com/Assas2401419/Guardian-Link/internal/service/supervisor"
)

// Options controls the guardian-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional bind address override.
	ListenAddress string
	// ContactsFile provides an optional contact roster path override.
	ContactsFile string
}

const (
	// shutdownTimeout bounds the graceful HTTP shutdown.
	shutdownTimeout = 5 * time.Second

	// readHeaderTimeout protects the listener from slow clients.
	readHeaderTimeout = 10 * time.Second
)

// Run starts the gateway server and blocks until the context is cancelled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guardian-server")

	// Load configuration first to get server settings.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Command line overrides beat config values.
	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	contactsFile := cfg.ContactsFile
	if opts.ContactsFile != "" {
		contactsFile = opts.ContactsFile
	}

	directory, err := contacts.NewFileDirectory(contactsFile)
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}

	// Wire the safety core: real clock, simulated position source,
	// one supervisor composing the alert and session controllers.
	clk := clock.System()
	source := geo.NewSimulator(clk, cfg.StartLatitude, cfg.StartLongitude, time.Now().UnixNano())
	sup := supervisor.New(ctx, clk, source, directory)

	server := &http.Server{
		Addr:              listenAddress,
		Handler:           gateway.NewServer(ctx, sup).Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.InfoKV(ctx, "Guardian Link server listening",
		"listen_address", listenAddress,
		"contacts_file", contactsFile,
		"contacts", len(directory.IDs()),
	)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until in-flight requests drain before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "HTTP shutdown failed", "error", err)
		}

		close(done)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}

	<-done

	// The session controller owns the position subscription; release it on
	// the way out like any other exit path.
	sup.StopSession()

	logger.Info(ctx, "HTTP server stopped")

	return nil
}
