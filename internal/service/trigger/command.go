package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Assas2401419/Guardian-Link/internal/config"
	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
	"github.com/Assas2401419/Guardian-Link/internal/logger"
)

// Action is an SOS operation requested against a running server.
type Action string

const (
	// ActionArm starts the cancellable SOS countdown.
	ActionArm Action = "arm"
	// ActionCancel aborts an armed countdown.
	ActionCancel Action = "cancel"
	// ActionSafe clears a fired emergency.
	ActionSafe Action = "safe"
)

// Options configures the guardian-sos command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides the server address from config when specified.
	ServerAddress string
	// Action is the SOS operation to perform.
	Action Action
}

// requestTimeout bounds the single HTTP round trip.
const requestTimeout = 5 * time.Second

// errUnexpectedStatus is returned when the server rejects the operation.
var errUnexpectedStatus = errors.New("unexpected server response")

// Run performs the requested SOS action against the gateway and logs the
// resulting state.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guardian-sos")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ListenAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	url := endpointURL(serverAddress, opts.Action)

	logger.InfoKV(ctx, "Sending SOS request", "url", url, "action", string(opts.Action))

	requestCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return fmt.Errorf("call server: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", errUnexpectedStatus, response.Status)
	}

	var snapshot safety.Snapshot
	if err := json.NewDecoder(response.Body).Decode(&snapshot); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	logger.Infof(ctx, "Server state: %s", formatSnapshot(&snapshot))

	return nil
}

// endpointURL builds the gateway URL for the requested action. A bare ":port"
// address targets the local machine.
func endpointURL(serverAddress string, action Action) string {
	if strings.HasPrefix(serverAddress, ":") {
		serverAddress = "127.0.0.1" + serverAddress
	}

	return fmt.Sprintf("http://%s/api/sos/%s", serverAddress, action)
}

// formatSnapshot converts a snapshot into a readable log message.
func formatSnapshot(s *safety.Snapshot) string {
	if s == nil {
		return "<nil snapshot>"
	}

	sharing := "not sharing"
	if s.CompanionActive {
		sharing = fmt.Sprintf("sharing with %s for %ds",
			strings.Join(s.SharedWithNames, ", "), s.CompanionRemainingSeconds)
	}

	switch s.SOSState {
	case safety.SOSArming:
		return fmt.Sprintf("sos arming (%ds left), %s", s.SOSRemainingSeconds, sharing)
	case safety.SOSActive:
		return fmt.Sprintf("sos ACTIVE, %s", sharing)
	case safety.SOSIdle:
	}

	return fmt.Sprintf("sos idle, %s", sharing)
}
