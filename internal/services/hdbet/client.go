package hdbet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"regbet/internal/artifacts"
	"regbet/internal/logging"
	"regbet/internal/services"
	"regbet/internal/services/slicer"
)

const stageName = "HD-BET"

// hostGrace is added to the script's wait timeout when bounding the host
// process, so the script's own timeout normally fires first and reports
// through the exit code convention.
const hostGrace = 120 * time.Second

// Request identifies one extraction invocation. All paths must be absolute;
// LogPath may be empty.
type Request struct {
	InputVolume        string
	OutputVolume       string
	OutputSegmentation string
	LogPath            string
}

// Extractor defines the behaviour required by the workflow stage.
type Extractor interface {
	Extract(ctx context.Context, req Request) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec slicer.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger attaches a logger for captured tool output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithScriptDir overrides the directory temp scripts are materialized in.
func WithScriptDir(dir string) Option {
	return func(c *Client) {
		c.scriptDir = dir
	}
}

// Client runs HD-BET through a generated script inside the Slicer host.
type Client struct {
	host      string
	timeout   time.Duration
	waitSecs  int
	exec      slicer.Executor
	logger    *slog.Logger
	scriptDir string
}

// New constructs an extraction client. timeoutSeconds bounds the script's
// internal wait for a segmentation; the host process gets that plus a fixed
// grace period.
func New(host string, timeoutSeconds int, opts ...Option) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("slicer host executable required")
	}
	if timeoutSeconds <= 0 {
		return nil, errors.New("extraction timeout must be positive")
	}
	client := &Client{
		host:     host,
		waitSecs: timeoutSeconds,
		timeout:  time.Duration(timeoutSeconds)*time.Second + hostGrace,
		exec:     slicer.CommandExecutor{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Extract runs brain extraction and segmentation for one case. A clean host
// exit alone is not success: both declared outputs must exist non-empty after
// the process returns, because the host can exit 0 without saving anything.
// The temp script is removed on every exit path.
func (c *Client) Extract(ctx context.Context, req Request) error {
	if req.InputVolume == "" || req.OutputVolume == "" || req.OutputSegmentation == "" {
		return services.Wrap(services.ErrValidation, stageName, "extract", "input, output volume, and segmentation required", nil)
	}

	script, err := RenderScript(ScriptParams{
		InputVolume:        req.InputVolume,
		OutputVolume:       req.OutputVolume,
		OutputSegmentation: req.OutputSegmentation,
		LogPath:            req.LogPath,
		TimeoutSeconds:     c.waitSecs,
	})
	if err != nil {
		return services.Wrap(services.ErrValidation, stageName, "render script", "", err)
	}

	tmp, err := os.CreateTemp(c.scriptDir, "regbet-hdbet-*.py")
	if err != nil {
		return services.Wrap(services.ErrTransient, stageName, "materialize script", "", err)
	}
	scriptPath := tmp.Name()
	defer func() {
		_ = os.Remove(scriptPath)
	}()

	if _, err := tmp.WriteString(script); err != nil {
		_ = tmp.Close()
		return services.Wrap(services.ErrTransient, stageName, "materialize script", "", err)
	}
	if err := tmp.Close(); err != nil {
		return services.Wrap(services.ErrTransient, stageName, "materialize script", "", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logger := logging.WithContext(ctx, c.logger)
	res, err := c.exec.Run(runCtx, c.host, slicer.HeadlessScriptArgs(scriptPath))
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, "launch", "host did not start", err)
	}

	if out := strings.TrimSpace(res.Stdout); out != "" {
		logger.Info(out)
	}

	if res.TimedOut {
		logger.Error("extraction timed out",
			logging.String(logging.FieldEventType, "stage_timeout"),
			logging.Duration("ceiling", c.timeout),
		)
		return services.Wrap(services.ErrTimeout, stageName, "extract",
			fmt.Sprintf("exceeded %s ceiling", c.timeout), nil)
	}

	if res.ExitCode != 0 {
		if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
			logger.Error(errOut)
		}
		return services.Wrap(services.ErrExternalTool, stageName, "extract",
			fmt.Sprintf("exit status %d", res.ExitCode), nil)
	}

	if !artifacts.NonzeroFile(req.OutputVolume) || !artifacts.NonzeroFile(req.OutputSegmentation) {
		return services.Wrap(services.ErrExternalTool, stageName, "extract",
			"host exited cleanly but outputs are missing or empty", nil)
	}

	return nil
}

var _ Extractor = (*Client)(nil)
