package main

import (
	"errors"
	"fmt"
	"strings"
)

type ScanKind int

const (
	ScanIndex ScanKind = iota
	ScanSequential
)

func (k ScanKind) String() string {
	if k == ScanSequential {
		return "seq"
	}
	return "idx"
}

// Capture is one file with the rendered output of a query.
type Capture struct {
	Path string
	Scan ScanKind
}

// Classify tags a capture by its file name: names containing marker are
// sequential-scan output, everything else is index-scan output.
func Classify(name string, marker string) ScanKind {
	if strings.Contains(name, marker) {
		return ScanSequential
	}
	return ScanIndex
}

var ErrHeaderNotFound = errors.New("no header line followed by a separator line")

type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract rows from %v: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
