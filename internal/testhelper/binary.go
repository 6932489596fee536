// Package testhelper builds and runs the portfolio binary for tests that check process
// behavior such as exit codes.
package testhelper

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

// BinaryEnv names a prebuilt binary to use instead of building one.
const BinaryEnv = "PORTFOLIO_TEST_BINARY"

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
)

// Binary returns the path of the portfolio binary, building ./cmd/portfolio once per test
// process. The test fails when the build fails.
func Binary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		if p := os.Getenv(BinaryEnv); p != "" {
			binPath = p
			return
		}
		binPath, buildErr = build()
	})
	if buildErr != nil {
		t.Fatalf("failed to build portfolio binary: %v", buildErr)
	}
	return binPath
}

// Result is the outcome of one binary run.
type Result struct {
	Output   string
	ExitCode int
}

// Run executes the binary with args and returns its combined output and exit code.
func Run(t *testing.T, args ...string) Result {
	t.Helper()
	cmd := exec.Command(Binary(t), args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return Result{Output: out.String()}
	case errors.As(err, &exitErr):
		return Result{Output: out.String(), ExitCode: exitErr.ExitCode()}
	default:
		t.Fatalf("failed to run portfolio: %v", err)
		return Result{}
	}
}

func build() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := moduleRoot(wd)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "portfolio-bin-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	path := filepath.Join(dir, "portfolio")

	cmd := exec.Command("go", "build", "-o", path, "./cmd/portfolio")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("go build: %s: %w", out, err)
	}
	return path, nil
}

func moduleRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}
