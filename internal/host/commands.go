package host

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"relint/internal/core/ports"
)

type command struct {
	Command string   `json:"command"`
	ID      string   `json:"id,omitempty"`
	Paths   []string `json:"paths,omitempty"`
}

// CommandReader consumes inbound host commands as JSON lines:
// {"command":"reset"}, {"command":"fix","id":"..."} and
// {"command":"changed","paths":[...]}.
type CommandReader struct {
	Service ports.PipelineService
}

// Run reads commands until EOF or context cancellation. Malformed
// lines are logged and skipped, never fatal.
func (r *CommandReader) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var cmd command
		if err := json.Unmarshal([]byte(line), &cmd); err != nil {
			slog.Warn("malformed host command", "error", err)
			continue
		}

		switch strings.ToLower(cmd.Command) {
		case "reset":
			if err := r.Service.Reset(ctx); err != nil {
				slog.Warn("reset command failed", "error", err)
			}
		case "fix":
			if err := r.Service.RequestFix(ctx, cmd.ID); err != nil {
				slog.Warn("fix command failed", "id", cmd.ID, "error", err)
			}
		case "changed":
			if err := r.Service.NotifyChanged(ctx, cmd.Paths); err != nil {
				slog.Warn("changed command failed", "error", err)
			}
		default:
			slog.Warn("unknown host command", "command", cmd.Command)
		}
	}
	return scanner.Err()
}
