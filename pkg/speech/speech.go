// Package speech provides optional single-shot speech-to-text capture.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ErrUnsupported is returned when no transcriber is available on this system.
var ErrUnsupported = errors.New("speech: voice input not supported on this system")

// Transcriber captures one utterance and returns its text.
type Transcriber interface {
	Transcribe(ctx context.Context) (string, error)
}

// Unsupported is the default transcriber.
type Unsupported struct{}

func (Unsupported) Transcribe(context.Context) (string, error) {
	return "", ErrUnsupported
}

// Command runs an external recognizer once and reads the transcript from its
// stdout.
type Command struct {
	Name string
	Args []string
}

// New returns a Command for a configured command line, or Unsupported when
// the line is empty.
func New(commandLine string) (Transcriber, error) {
	if strings.TrimSpace(commandLine) == "" {
		return Unsupported{}, nil
	}
	parts, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("speech: parse command: %w", err)
	}
	if len(parts) == 0 {
		return Unsupported{}, nil
	}
	return &Command{Name: parts[0], Args: parts[1:]}, nil
}

func (c *Command) Transcribe(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s not found", ErrUnsupported, c.Name)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("speech: %s: %w: %s", c.Name, err, msg)
		}
		return "", fmt.Errorf("speech: %s: %w", c.Name, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// AppendTranscript joins a transcript onto existing input with one space.
func AppendTranscript(input, transcript string) string {
	return strings.TrimSpace(input + " " + transcript)
}
