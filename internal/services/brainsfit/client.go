package brainsfit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"regbet/internal/logging"
	"regbet/internal/services"
	"regbet/internal/services/slicer"
)

const moduleName = "BRAINSFit"

// Request identifies one registration invocation. All paths must be absolute.
type Request struct {
	Atlas           string
	MovingVolume    string
	OutputVolume    string
	OutputTransform string
}

// Registrar defines the behaviour required by the workflow stage.
type Registrar interface {
	Register(ctx context.Context, req Request) error
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

// Client launches BRAINSFit through the Slicer host.
type Client struct {
	host       string
	iterations int
	sampling   float64
	timeout    time.Duration
	exec       slicer.Executor
	logger     *slog.Logger
}

// New constructs a registration client. The timeout is the wall-clock ceiling
// for one invocation, in seconds.
func New(host string, iterations int, sampling float64, timeoutSeconds int, opts ...Option) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("slicer host executable required")
	}
	if iterations <= 0 {
		return nil, errors.New("iteration count must be positive")
	}
	if sampling <= 0 || sampling > 1 {
		return nil, errors.New("sampling percentage must be in (0, 1]")
	}
	client := &Client{
		host:       host,
		iterations: iterations,
		sampling:   sampling,
		timeout:    time.Duration(timeoutSeconds) * time.Second,
		exec:       slicer.CommandExecutor{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Register runs the registration for one case. Success is exit status 0 from
// the module; artifact verification is the caller's responsibility for this
// stage because the module's exit code convention is trusted.
func (c *Client) Register(ctx context.Context, req Request) error {
	if req.Atlas == "" || req.MovingVolume == "" {
		return services.Wrap(services.ErrValidation, moduleName, "register", "atlas and moving volume required", nil)
	}
	if req.OutputVolume == "" || req.OutputTransform == "" {
		return services.Wrap(services.ErrValidation, moduleName, "register", "output volume and transform required", nil)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := slicer.LaunchArgs(moduleName,
		"--fixedVolume", req.Atlas,
		"--movingVolume", req.MovingVolume,
		"--outputVolume", req.OutputVolume,
		"--outputTransform", req.OutputTransform,
		"--useAffine",
		"--initializeTransformMode", "useMomentsAlign",
		"--numberOfIterations", strconv.Itoa(c.iterations),
		"--samplingPercentage", strconv.FormatFloat(c.sampling, 'f', -1, 64),
		"--debugLevel", "10",
		"--failureExitCode", "1",
	)

	logger := logging.WithContext(ctx, c.logger)
	res, err := c.exec.Run(runCtx, c.host, args)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, moduleName, "launch", "host did not start", err)
	}

	if out := strings.TrimSpace(res.Stdout); out != "" {
		logger.Info(out)
	}

	if res.TimedOut {
		logger.Error("registration timed out",
			logging.String(logging.FieldEventType, "stage_timeout"),
			logging.Duration("ceiling", c.timeout),
		)
		return services.Wrap(services.ErrTimeout, moduleName, "register",
			fmt.Sprintf("exceeded %s ceiling", c.timeout), nil)
	}

	if res.ExitCode != 0 {
		if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
			logger.Error(errOut)
		}
		return services.Wrap(services.ErrExternalTool, moduleName, "register",
			fmt.Sprintf("exit status %d", res.ExitCode), nil)
	}

	return nil
}

var _ Registrar = (*Client)(nil)
