package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("command '%s' not available: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// stderr carries the tool's own diagnostics
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return stdout.String(), nil
}
