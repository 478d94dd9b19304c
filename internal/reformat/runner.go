// Package reformat runs the external reformatter on intermediate text.
package reformat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/grindlemire/ngflow/internal/logging"
)

// DefaultTimeout bounds one reformatter invocation when Runner.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Runner invokes Command followed by the path of a temporary file holding
// the input. The tool's stdout is the result.
type Runner struct {
	Command []string
	Timeout time.Duration
	// Suffix is appended to the temporary file name, e.g. ".xml". Some tools
	// choose their parser by extension.
	Suffix string
	Logger *zap.Logger
}

// Run writes input to a temporary file, runs the tool on it and returns its
// standard output. The file is removed before Run returns. A non-zero exit,
// a timeout or a failure to start is reported as a *ToolError.
func (r *Runner) Run(ctx context.Context, input string) (string, error) {
	if len(r.Command) == 0 || r.Command[0] == "" {
		return "", errors.New("reformat: no command configured")
	}
	log := logging.OrNop(r.Logger)
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	path, err := writeTemp(input, r.Suffix)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("removing temporary file", zap.String("path", path), zap.Error(err))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string(nil), r.Command[1:]...), path)
	cmd := exec.CommandContext(runCtx, r.Command[0], args...)
	setupProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("running reformatter",
		zap.Strings("command", r.Command),
		zap.String("path", path),
		zap.Duration("timeout", timeout))

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	log.Debug("reformatter finished",
		zap.Int("exit_code", exitCode),
		zap.Duration("duration", elapsed),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Int("stderr_bytes", stderr.Len()))

	if runErr != nil {
		toolErr := &ToolError{
			Command:  r.Command,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      runErr,
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			toolErr.TimedOut = true
			toolErr.Err = fmt.Errorf("timed out after %s", timeout)
		} else if ctx.Err() != nil {
			toolErr.Err = ctx.Err()
		}
		log.Debug("reformatter failed", zap.Error(toolErr))
		return "", toolErr
	}

	return stdout.String(), nil
}

func writeTemp(input, suffix string) (string, error) {
	f, err := os.CreateTemp("", "ngflow-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	path := f.Name()

	if _, err := f.WriteString(input); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing temporary file: %w", err)
	}
	return path, nil
}
