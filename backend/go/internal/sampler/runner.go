package sampler

import (
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/pkg/logger"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"
)

// maxOutputTail bounds how much tool output is kept in an error message.
const maxOutputTail = 2048

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	Timeout time.Duration
	Logger  *logger.Logger
}

// NewExecRunner creates an ExecRunner. A zero timeout means no limit beyond ctx.
func NewExecRunner(timeout time.Duration, log *logger.Logger) *ExecRunner {
	return &ExecRunner{Timeout: timeout, Logger: log}
}

// Run starts cmd, waits for it, and wraps a non-zero exit in ErrToolFailed.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir

	start := time.Now()
	out, err := c.CombinedOutput()
	if r.Logger != nil {
		r.Logger.WithPayload(map[string]interface{}{
			"command":     cmd.String(),
			"duration_ms": time.Since(start).Milliseconds(),
			"output_tail": tail(out, 512),
		}).Debug("External command finished")
	}
	if err != nil {
		if r.Logger != nil {
			r.Logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "tool_failed"}).Error("External command failed: " + cmd.String())
		}
		return fmt.Errorf("%w: %s: %v: %s", ErrToolFailed, filepath.Base(cmd.Path), err, tail(out, maxOutputTail))
	}
	return nil
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return "..." + string(b[len(b)-n:])
}
