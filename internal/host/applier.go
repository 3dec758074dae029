package host

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"relint/internal/core/errors"
	"relint/internal/core/ports"
	"relint/internal/engine/ast"
)

// DiskFixApplier performs the external write for one file of a fix
// program: it reads the file, applies the range edits, and writes the
// result back.
type DiskFixApplier struct {
	Respond func(ports.FixResult)
}

var _ ports.FixApplier = (*DiskFixApplier)(nil)

func (a *DiskFixApplier) Apply(fix uuid.UUID, path string, edits []ports.FixEdit) {
	go func() {
		err := applyToFile(path, edits)
		a.Respond(ports.FixResult{Fix: fix, Path: path, Err: err})
	}()
}

func applyToFile(path string, edits []ports.FixEdit) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "fix target missing"),
			errors.CtxPath, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeInternal, "read fix target"),
			errors.CtxPath, path)
	}
	rewritten, err := ApplyEdits(string(data), edits)
	if err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeValidationError, "apply fix edits"),
			errors.CtxPath, path)
	}
	return os.WriteFile(path, []byte(rewritten), info.Mode().Perm())
}

// ApplyEdits applies range edits to source text. Edits are applied
// back to front so earlier offsets stay valid; overlapping edits are
// rejected.
func ApplyEdits(src string, edits []ports.FixEdit) (string, error) {
	type span struct {
		start, end int
		newText    string
	}

	spans := make([]span, 0, len(edits))
	for _, edit := range edits {
		start, err := offsetOf(src, edit.Range.Start)
		if err != nil {
			return "", err
		}
		end, err := offsetOf(src, edit.Range.End)
		if err != nil {
			return "", err
		}
		if end < start {
			return "", fmt.Errorf("edit range ends before it starts: %s", edit.Range)
		}
		spans = append(spans, span{start: start, end: end, newText: edit.NewText})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start > spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].end > spans[i-1].start {
			return "", fmt.Errorf("overlapping edits")
		}
	}

	out := src
	for _, s := range spans {
		out = out[:s.start] + s.newText + out[s.end:]
	}
	return out, nil
}

// offsetOf converts a 1-based line/column position into a byte
// offset. A position one line past the end maps to len(src), so a
// final-line deletion spanning to the next line start stays valid.
func offsetOf(src string, pos ast.Position) (int, error) {
	if pos.Line < 1 || pos.Column < 1 {
		return 0, fmt.Errorf("position out of range: %d:%d", pos.Line, pos.Column)
	}

	offset := 0
	line := 1
	for line < pos.Line {
		next := strings.IndexByte(src[offset:], '\n')
		if next < 0 {
			if line == pos.Line-1 && pos.Column == 1 {
				return len(src), nil
			}
			return 0, fmt.Errorf("position out of range: %d:%d", pos.Line, pos.Column)
		}
		offset += next + 1
		line++
	}

	offset += pos.Column - 1
	if offset > len(src) {
		return 0, fmt.Errorf("position out of range: %d:%d", pos.Line, pos.Column)
	}
	return offset, nil
}
