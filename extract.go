package main

import (
	"os"
	"strings"
)

type Extractor struct {
	ColumnMarker string
	Separator    string
	FooterMarker string
}

func DefaultExtractor() Extractor {
	return Extractor{ColumnMarker: "kmer", Separator: "------", FooterMarker: "row"}
}

// Extract reads the whole capture and returns its result rows in file order.
func (e Extractor) Extract(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractError{Path: path, Err: err}
	}
	rows, err := e.ExtractLines(strings.Split(string(data), "\n"))
	if err != nil {
		return nil, &ExtractError{Path: path, Err: err}
	}
	return rows, nil
}

func (e Extractor) ExtractLines(lines []string) ([]string, error) {
	header, ok := e.findHeader(lines)
	if !ok {
		return nil, ErrHeaderNotFound
	}
	rows := make([]string, 0)
	for _, line := range lines[header+2:] {
		if strings.Contains(line, e.FooterMarker) {
			continue
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		rows = append(rows, line)
	}
	return rows, nil
}

func (e Extractor) findHeader(lines []string) (int, bool) {
	for i := 0; i+1 < len(lines); i++ {
		if strings.Contains(lines[i], e.ColumnMarker) && strings.Contains(lines[i+1], e.Separator) {
			return i, true
		}
	}
	return 0, false
}
