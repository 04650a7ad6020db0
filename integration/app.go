// Package integration provides helpers to build and run the chain programs for integration tests.
package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Programs lists the commands under ./cmd exercised by the integration suite.
var Programs = []string{"validator", "responder"}

// Result is the captured outcome of one program run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Build compiles every program into dir and returns a map from program name to binary path.
func Build(dir string) (map[string]string, error) {
	repoRoot, err := findRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("find repo root: %w", err)
	}

	bins := make(map[string]string, len(Programs))
	for _, name := range Programs {
		binaryPath := filepath.Join(dir, name)
		if runtime.GOOS == "windows" {
			binaryPath += ".exe"
		}

		build := exec.Command("go", "build", "-o", binaryPath, "./cmd/"+name)
		build.Dir = repoRoot
		build.Env = append(os.Environ(), "GOOS="+runtime.GOOS, "GOARCH="+runtime.GOARCH)
		if out, buildErr := build.CombinedOutput(); buildErr != nil {
			return nil, fmt.Errorf("build %s: %w\n%s", name, buildErr, out)
		}
		bins[name] = binaryPath
	}
	return bins, nil
}

// Run executes binary with args and env (appended to a clean HANDLERCHAIN_-free
// environment) and captures its output.
func Run(binary string, env []string, args ...string) (Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = append(baseEnv(), env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

// baseEnv drops HANDLERCHAIN_* variables so the host environment cannot change results.
func baseEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "HANDLERCHAIN_") {
			continue
		}
		env = append(env, kv)
	}
	return env
}

func findRepoRoot() (string, error) {
	if root := os.Getenv("INTEGRATION_REPO_ROOT"); root != "" {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root, nil
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	startDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", startDir)
		}
		dir = parent
	}
}
