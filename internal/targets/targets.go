// Package targets loads the target registry: the ordered list of source
// URLs the pipeline fetches each run.
package targets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/jonesrussell/godraws/internal/domain"
)

// ErrNoTargets is returned when the registry contains no usable entries.
var ErrNoTargets = errors.New("no targets in registry")

const commentMarker = "#"

// Load reads the registry file at path. Blank lines and comment lines
// are skipped; order is preserved.
func Load(path string) ([]domain.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer f.Close()

	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse targets file %s: %w", path, err)
	}
	return list, nil
}

// Parse reads registry lines from r. Line format:
//
//	<url> [game name] [# note]
//
// Lines starting with # and blank lines are ignored; an inline " #"
// starts a note that is carried on the target but not part of the URL
// or game.
func Parse(r io.Reader) ([]domain.Target, error) {
	var out []domain.Target

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}

		var note string
		if idx := strings.Index(line, " "+commentMarker); idx >= 0 {
			note = strings.TrimSpace(strings.TrimPrefix(line[idx+1:], commentMarker))
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		t := domain.Target{URL: fields[0], Note: note}
		if len(fields) > 1 {
			t.Game = strings.Join(fields[1:], " ")
		}
		out = append(out, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan targets: %w", err)
	}

	if len(out) == 0 {
		return nil, ErrNoTargets
	}
	return out, nil
}

// Validate checks each target URL and returns one error per malformed
// entry. An empty slice means the registry is clean.
func Validate(list []domain.Target) []error {
	var errs []error
	for i, t := range list {
		u, err := url.Parse(t.URL)
		if err != nil {
			errs = append(errs, fmt.Errorf("target %d (%s): %w", i+1, t.URL, err))
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("target %d (%s): unsupported scheme %q", i+1, t.URL, u.Scheme))
		}
		if u.Host == "" {
			errs = append(errs, fmt.Errorf("target %d (%s): missing host", i+1, t.URL))
		}
	}
	return errs
}
