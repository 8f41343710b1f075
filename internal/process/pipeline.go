// Package process runs billing and claims batches end to end: read the
// uploaded file, join its record-sets, and run every patient through the
// engine with per-patient failure isolation.
package process

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyeh/billclaims/internal/normalize"
)

// Pipeline phases reported by PipelineError.
const (
	PhaseRead     = "read"
	PhaseValidate = "validate"
	PhaseProcess  = "process"
	PhasePersist  = "persist"
	PhaseReport   = "report"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Input is an uploaded file, either on disk (Path) or in memory (Data).
type Input struct {
	Name string
	Path string
	Data []byte
}

// FromPath refers to a file on disk.
func FromPath(path string) Input {
	return Input{Name: filepath.Base(path), Path: path}
}

// FromBytes wraps an in-memory upload.
func FromBytes(name string, data []byte) Input {
	return Input{Name: name, Data: data}
}

// load returns the file contents and their SHA-256.
func (in Input) load() ([]byte, string, error) {
	data := in.Data
	if in.Path != "" {
		var err error
		if data, err = os.ReadFile(in.Path); err != nil {
			return nil, "", fmt.Errorf("read %s: %w", in.Path, err)
		}
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%s is empty", in.display())
	}
	sum, err := normalize.ReaderHash(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return data, sum, nil
}

func (in Input) display() string {
	if in.Path != "" {
		return in.Path
	}
	return in.Name
}

func (in Input) isWorkbook() bool {
	return strings.EqualFold(filepath.Ext(in.Name), ".xlsx")
}
