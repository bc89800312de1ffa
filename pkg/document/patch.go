// Package document rewrites placeholder lines in Markdown documents.
package document

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lepinkainen/readme-rotator/pkg/filesystem"
)

// ErrDocumentUpdate is returned when the document cannot be read or written
var ErrDocumentUpdate = errors.New("document update failed")

// Patch replaces the first line of the file at path that contains marker with
// replacement. The line terminator is normalized to "\n" and every other line
// is kept byte for byte. When no line contains marker the file is not written
// and replaced is false.
func Patch(path, marker, replacement string) (replaced bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDocumentUpdate, err)
	}

	patched, replaced := ReplaceFirst(string(content), marker, replacement)
	if !replaced {
		slog.Debug("Marker not found in document", "path", path, "marker", marker)
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDocumentUpdate, err)
	}

	if err := filesystem.WriteFileAtomic(path, []byte(patched), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("%w: %w", ErrDocumentUpdate, err)
	}

	slog.Debug("Document patched", "path", path, "marker", marker)
	return true, nil
}

// ReplaceFirst returns content with the first line containing marker replaced
// by replacement followed by "\n".
func ReplaceFirst(content, marker, replacement string) (string, bool) {
	lines := SplitLines(content)

	for i, line := range lines {
		if strings.Contains(line, marker) {
			lines[i] = replacement + "\n"
			return strings.Join(lines, ""), true
		}
	}

	return content, false
}

// SplitLines splits content into lines that keep their trailing "\n".
// The last line has no terminator when content does not end with one.
func SplitLines(content string) []string {
	lines := strings.SplitAfter(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// FindMarker returns the first line of the file at path containing marker,
// without its line terminator, and its 1-based line number. Line 0 means the
// marker is absent.
func FindMarker(path, marker string) (string, int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrDocumentUpdate, err)
	}

	for i, line := range SplitLines(string(content)) {
		if strings.Contains(line, marker) {
			return strings.TrimRight(line, "\r\n"), i + 1, nil
		}
	}

	return "", 0, nil
}
