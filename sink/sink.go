// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/mailroom/core"
)

// FilePattern matches files written by DirSink.
const FilePattern = "email_*.json"

// Sink persists validated email records.
type Sink interface {
	// Save writes email under the given batch index.
	Save(ctx context.Context, email *core.Email, index int) error
}

// DirSink writes one JSON file per record into a directory.
type DirSink struct {
	dir    string
	logger *slog.Logger
}

// Option configures a DirSink.
type Option func(*DirSink)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *DirSink) {
		s.logger = logger
	}
}

// NewDirSink creates a sink writing to dir. The directory is created on
// first Save if it does not exist.
func NewDirSink(dir string, opts ...Option) (Sink, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrDirRequired
	}
	s := &DirSink{
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "sink")
	return s, nil
}

// FileName returns the file name for the record at index, e.g. email_007.json.
func FileName(index int) string {
	return fmt.Sprintf("email_%03d.json", index)
}

// Encode renders an email as indented UTF-8 JSON with external field names.
func Encode(email *core.Email) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(email); err != nil {
		return nil, fmt.Errorf("encode email: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the record to <dir>/email_<index>.json, replacing any previous file.
func (s *DirSink) Save(ctx context.Context, email *core.Email, index int) error {
	if email == nil {
		return ErrNilEmail
	}
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(email)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(s.dir, FileName(index))
	if err := writeFile(path, data); err != nil {
		return err
	}

	s.logger.Info("saved email", "index", index, "path", path)
	return nil
}

// writeFile writes through a temp file in the same directory and renames it
// into place so readers never observe a partial record.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".email-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes a single record file. The sender may be stored under
// either "from" or "sender".
func ReadFile(path string) (*core.Email, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var email core.Email
	if err := json.Unmarshal(data, &email); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &email, nil
}

// Record is one file read back from a sink directory.
type Record struct {
	Path  string
	Email *core.Email
	// Err is set when the file could not be read or decoded.
	Err error
}

// ReadDir reads every record file in dir, sorted by file name.
// Per-file failures are reported in Record.Err rather than aborting the scan.
func ReadDir(dir string) ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, FilePattern))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	sort.Strings(paths)

	records := make([]Record, 0, len(paths))
	for _, path := range paths {
		email, err := ReadFile(path)
		records = append(records, Record{Path: path, Email: email, Err: err})
	}
	return records, nil
}
