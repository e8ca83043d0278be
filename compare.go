package main

import (
	"github.com/cespare/xxhash/v2"
)

type Verdict struct {
	Source    ScanKind
	Target    ScanKind
	Identical bool
	// Rows is the number of source rows matched against the target.
	Rows int
	// Missing is the first source row with no remaining occurrence in the
	// target. Empty when every source row was accounted for.
	Missing    string
	HasMissing bool
	// Leftover counts target rows not consumed by the source.
	Leftover int
}

// Compare checks that every source row consumes one distinct occurrence in
// target and that target is exhausted afterwards. Running it in both
// directions proves multiset equality.
func Compare(source, target []string) Verdict {
	remaining := make(map[string]int, len(target))
	for _, row := range target {
		remaining[row]++
	}
	verdict := Verdict{}
	for _, row := range source {
		if remaining[row] == 0 {
			verdict.Missing = row
			verdict.HasMissing = true
			verdict.Leftover = len(target) - verdict.Rows
			return verdict
		}
		remaining[row]--
		verdict.Rows++
	}
	verdict.Leftover = len(target) - verdict.Rows
	verdict.Identical = verdict.Leftover == 0
	return verdict
}

// Fingerprint is an order-independent digest: equal multisets of rows give
// equal fingerprints.
func Fingerprint(rows []string) uint64 {
	var sum uint64
	for _, row := range rows {
		sum += xxhash.Sum64String(row)
	}
	return sum
}
