package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// execFunc runs the runtime binary with the given arguments and returns its
// stdout. Tests substitute fixture output here.
type execFunc func(ctx context.Context, binary string, args ...string) ([]byte, error)

// CLIRuntime queries a docker-compatible runtime by shelling out to its CLI.
// Every query is a single synchronous attempt with no timeout.
type CLIRuntime struct {
	binary string
	run    execFunc
}

// NewDockerRuntime returns a runtime backed by the docker CLI.
func NewDockerRuntime() (*CLIRuntime, error) {
	return newCLIRuntime("docker")
}

// NewPodmanRuntime returns a runtime backed by the podman CLI, which accepts
// the same inspect/history/images invocations as docker.
func NewPodmanRuntime() (*CLIRuntime, error) {
	return newCLIRuntime("podman")
}

func newCLIRuntime(binary string) (*CLIRuntime, error) {
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("%s not available: %w", binary, err)
	}
	return &CLIRuntime{binary: binary, run: runCommand}, nil
}

func (r *CLIRuntime) Name() string {
	return r.binary
}

// InspectImage runs `<binary> inspect --type image <ref>` and decodes the
// one-element result array.
func (r *CLIRuntime) InspectImage(ctx context.Context, ref string) (*ImageDetails, error) {
	out, err := r.run(ctx, r.binary, "inspect", "--type", "image", ref)
	if err != nil {
		return nil, err
	}

	var details []ImageDetails
	if err := json.Unmarshal(out, &details); err != nil {
		return nil, fmt.Errorf("failed to parse inspect output for %s: %w", ref, err)
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, ref)
	}

	return &details[0], nil
}

// ImageHistory runs `<binary> history` with JSON-lines output and returns
// the entries newest first, as the runtime reports them. Blank lines are
// skipped; a non-blank line that fails to decode is an error.
func (r *CLIRuntime) ImageHistory(ctx context.Context, ref string) ([]HistoryEntry, error) {
	out, err := r.run(ctx, r.binary, "history", "--no-trunc", "--human=false", "--format", "{{json .}}", ref)
	if err != nil {
		return nil, err
	}

	var entries []HistoryEntry
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry HistoryEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, &MalformedHistoryError{Line: line, Err: err}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ListImages runs `<binary> images` with JSON-lines output. Lines that fail
// to decode are skipped, matching the lenient listing behavior of the CLIs.
func (r *CLIRuntime) ListImages(ctx context.Context) ([]ImageSummary, error) {
	out, err := r.run(ctx, r.binary, "images", "--digests", "--format", "{{json .}}")
	if err != nil {
		return nil, err
	}

	var summaries []ImageSummary
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var summary ImageSummary
		if err := json.Unmarshal([]byte(line), &summary); err != nil {
			continue
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func runCommand(ctx context.Context, binary string, args ...string) ([]byte, error) {
	zap.L().Debug("running runtime command",
		zap.String("binary", binary),
		zap.Strings("args", args),
	)

	out, err := exec.CommandContext(ctx, binary, args...).Output()
	if err != nil {
		invErr := &InvocationError{Binary: binary, Args: args, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			invErr.Stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return nil, invErr
	}
	return out, nil
}
