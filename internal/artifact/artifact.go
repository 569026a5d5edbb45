// Package artifact reads and writes the JSON files that carry data between
// pipeline stages. Writes go to a temp file that is renamed into place, so a
// reader never sees a half-written artifact.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"flavor_sentiment/internal/domain"
)

var ErrMissing = errors.New("artifact: missing")

func ReadReviews(path string) ([]domain.ReviewRecord, error) {
	var rs []domain.ReviewRecord
	if err := readJSON(path, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func WriteReviews(path string, rs []domain.ReviewRecord) error {
	if rs == nil {
		rs = []domain.ReviewRecord{}
	}
	return writeJSON(path, rs)
}

func ReadResults(path string) (domain.Results, error) {
	var res domain.Results
	if err := readJSON(path, &res); err != nil {
		return domain.Results{}, err
	}
	if res.Sentiments == nil {
		return domain.Results{}, fmt.Errorf("artifact: %s has no sentiments", path)
	}
	return res, nil
}

func WriteResults(path string, res domain.Results) error {
	if res.NotableReviews == nil {
		res.NotableReviews = []domain.NotableReview{}
	}
	return writeJSON(path, res)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return fmt.Errorf("artifact: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("artifact: decode %s: %w", path, err)
	}
	return nil
}

// Encode renders v the way artifacts are stored: two-space indent, no HTML
// escaping, trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("artifact: encode %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("artifact: temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("artifact: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("artifact: close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("artifact: rename into %s: %w", path, err)
	}
	return nil
}
