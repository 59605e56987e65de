package runner

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sadopc/restman/internal/core/environment"
	"github.com/sadopc/restman/internal/core/history"
	"github.com/sadopc/restman/internal/core/model"
	httpclient "github.com/sadopc/restman/internal/protocol/http"
)

// Executor sends a prepared request. Satisfied by the HTTP client; tests
// inject fakes.
type Executor interface {
	Execute(ctx context.Context, req *model.Request) (*model.Response, error)
}

// Runner orchestrates a request send: environment resolution, history
// capture, execution, and error normalization.
type Runner struct {
	envs     *environment.Store
	history  *history.Store
	executor Executor
	logger   *log.Logger
}

// New creates a runner. logger may be nil.
func New(envs *environment.Store, hist *history.Store, executor Executor, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		envs:     envs,
		history:  hist,
		executor: executor,
		logger:   logger,
	}
}

// Send executes a request against the active environment. The original
// request is recorded to history before anything can fail, so even a request
// that never leaves the machine is visible in the log; once a response or
// failure is known the entry is refreshed in place.
//
// Build failures (bad url, unencodable body) come back as a Response with
// ErrorMessage set and a nil error: they are the user's input, not a fault
// of the transport. A non-nil error means the transport itself failed.
func (r *Runner) Send(ctx context.Context, req *model.Request) (*model.Response, error) {
	// A fresh scan, not the cache: another process may have switched the
	// active environment since the last send.
	env, err := r.envs.Refresh()
	if err != nil {
		r.logger.Printf("reading active environment: %v", err)
		env = nil
	}

	if _, err := r.history.Record(req, nil); err != nil {
		r.logger.Printf("recording request to history: %v", err)
	}

	processed := environment.ProcessRequest(req, env)

	start := time.Now()
	resp, execErr := r.executor.Execute(ctx, processed)
	if execErr != nil {
		resp = &model.Response{
			ErrorMessage: execErr.Error(),
			ResponseTime: time.Since(start),
		}
		if errors.Is(execErr, httpclient.ErrInvalidRequest) {
			execErr = nil
		}
	}

	if _, err := r.history.Record(req, resp); err != nil {
		r.logger.Printf("recording response to history: %v", err)
	}

	return resp, execErr
}
