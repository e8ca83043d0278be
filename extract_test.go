package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const psqlCapture = `SET
EXPLAIN ANALYZE SELECT kmer, count FROM kmers WHERE kmer ^@ 'AC';
 kmer | count
------+-------
 ACGT |     3
 ACCA |    11
 ACGT |     3
(3 rows)

`

func writeCapture(t *testing.T, dir string, name string, content string) string {
	path := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractPsqlCapture(t *testing.T) {
	path := writeCapture(t, t.TempDir(), "seqscan.out", psqlCapture)
	rows, err := DefaultExtractor().Extract(path)
	require.Nil(t, err)
	require.Equal(t, []string{"ACGT |     3", "ACCA |    11", "ACGT |     3"}, rows)
}

func TestExtractSkipsPreambleMentioningMarker(t *testing.T) {
	lines := []string{
		"-- kmer lookup",
		"kmer count",
		"kmer,count",
		"----------",
		"ACGT,3",
	}
	rows, err := DefaultExtractor().ExtractLines(lines)
	require.Nil(t, err)
	require.Equal(t, []string{"ACGT,3"}, rows)
}

func TestExtractFooterExcluded(t *testing.T) {
	rows, err := DefaultExtractor().ExtractLines(strings.Split("kmer\n------\nACGT,3\nTTTT,7\n(2 rows)", "\n"))
	require.Nil(t, err)
	require.Equal(t, []string{"ACGT,3", "TTTT,7"}, rows)

	rows, err = DefaultExtractor().ExtractLines(strings.Split("kmer\n------\nACGT,3\n(1 row)\n", "\n"))
	require.Nil(t, err)
	require.Equal(t, []string{"ACGT,3"}, rows)
}

func TestExtractEmptyRegion(t *testing.T) {
	rows, err := DefaultExtractor().ExtractLines([]string{" kmer | count", "------+-------"})
	require.Nil(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)

	rows, err = DefaultExtractor().ExtractLines(strings.Split("kmer\n------\n(0 rows)\n\n   \n", "\n"))
	require.Nil(t, err)
	require.Empty(t, rows)
}

func TestExtractTrimsCarriageReturns(t *testing.T) {
	rows, err := DefaultExtractor().ExtractLines(strings.Split("kmer\r\n------\r\n ACGT,3 \r\n", "\n"))
	require.Nil(t, err)
	require.Equal(t, []string{"ACGT,3"}, rows)
}

func TestExtractHeaderNotFound(t *testing.T) {
	_, err := DefaultExtractor().ExtractLines([]string{"kmer", "ACGT,3", "------"})
	require.ErrorIs(t, err, ErrHeaderNotFound)

	// header on the last line has no separator after it
	_, err = DefaultExtractor().ExtractLines([]string{"------", "kmer"})
	require.ErrorIs(t, err, ErrHeaderNotFound)

	path := writeCapture(t, t.TempDir(), "idxscan.out", "ERROR: relation \"kmers\" does not exist\n")
	_, err = DefaultExtractor().Extract(path)
	require.ErrorIs(t, err, ErrHeaderNotFound)
	var extractErr *ExtractError
	require.True(t, errors.As(err, &extractErr))
	require.Equal(t, path, extractErr.Path)
	require.Contains(t, err.Error(), path)
}

func TestExtractMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.out")
	_, err := DefaultExtractor().Extract(path)
	require.ErrorIs(t, err, os.ErrNotExist)
	var extractErr *ExtractError
	require.True(t, errors.As(err, &extractErr))
}

func TestExtractCustomMarkers(t *testing.T) {
	extractor := Extractor{ColumnMarker: "qkmer", Separator: "===", FooterMarker: "total"}
	rows, err := extractor.ExtractLines([]string{"qkmer", "=====", "ACGN", "total 1"})
	require.Nil(t, err)
	require.Equal(t, []string{"ACGN"}, rows)
}
