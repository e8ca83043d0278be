package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"time"
)

type System struct {
	cfg     Config
	out     io.Writer
	storage *Storage
}

type Report struct {
	Run              string
	Seq, Idx         Capture
	SeqRows, IdxRows []string
	Verdicts         []Verdict
}

func (r Report) Identical() bool {
	for _, verdict := range r.Verdicts {
		if !verdict.Identical {
			return false
		}
	}
	return true
}

// Locate lists dir and returns its two captures, sequential scan first.
func Locate(dir string, seqMarker string) (Capture, Capture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Capture{}, Capture{}, configErrorf("unable to list directory %v: %v", dir, err)
	}
	files := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Name())
	}
	if len(files) != 2 {
		return Capture{}, Capture{}, configErrorf("there must be exactly two files for comparison in %v, found %v", dir, len(files))
	}
	slices.Sort(files)
	captures := make(map[ScanKind]Capture, 2)
	for _, name := range files {
		capture := Capture{Path: filepath.Join(dir, name), Scan: Classify(name, seqMarker)}
		if other, ok := captures[capture.Scan]; ok {
			return Capture{}, Capture{}, configErrorf("both %v and %v are %v scan outputs", other.Path, capture.Path, capture.Scan)
		}
		captures[capture.Scan] = capture
	}
	return captures[ScanSequential], captures[ScanIndex], nil
}

func (s *System) Run(ctx context.Context) (Report, error) {
	seq, idx, err := Locate(s.cfg.Dir, s.cfg.SeqMarker)
	if err != nil {
		return Report{}, err
	}
	Logger.Infof("comparing %v scan %v with %v scan %v", seq.Scan, seq.Path, idx.Scan, idx.Path)

	report := Report{Run: fmt.Sprintf("verify-%v-%v", time.Now().Unix(), rand.Intn(1000)), Seq: seq, Idx: idx}
	report.SeqRows, err = s.cfg.Extractor.Extract(seq.Path)
	if err != nil {
		return Report{}, err
	}
	report.IdxRows, err = s.cfg.Extractor.Extract(idx.Path)
	if err != nil {
		return Report{}, err
	}
	Logger.Infof("extracted %v rows (fingerprint %016x) from %v", len(report.SeqRows), Fingerprint(report.SeqRows), seq.Path)
	Logger.Infof("extracted %v rows (fingerprint %016x) from %v", len(report.IdxRows), Fingerprint(report.IdxRows), idx.Path)

	forward := Compare(report.SeqRows, report.IdxRows)
	forward.Source, forward.Target = ScanSequential, ScanIndex
	s.print(forward)
	backward := Compare(report.IdxRows, report.SeqRows)
	backward.Source, backward.Target = ScanIndex, ScanSequential
	s.print(backward)
	report.Verdicts = []Verdict{forward, backward}

	if s.storage != nil {
		if err := s.record(ctx, report); err != nil {
			return report, fmt.Errorf("failed to record verdicts: %w", err)
		}
	}
	return report, nil
}

func (s *System) print(verdict Verdict) {
	if verdict.HasMissing {
		fmt.Fprintf(s.out, "In %v not in %v: %v\n", verdict.Source, verdict.Target, verdict.Missing)
	}
	if verdict.Identical {
		fmt.Fprintf(s.out, "Compare %v - %v: Results are identical, number of rows returned: %v\n", verdict.Source, verdict.Target, verdict.Rows)
		return
	}
	if !verdict.HasMissing {
		Logger.Debugf("%v has %v rows not present in %v", verdict.Target, verdict.Leftover, verdict.Source)
	}
	fmt.Fprintln(s.out, "Results are not the same")
}

func (s *System) record(ctx context.Context, report Report) error {
	info := HostStat()
	err := s.storage.Init(ctx, map[string]any{
		"arch":     info.Arch,
		"hostname": info.Hostname,
		"platform": info.Platform,
		"ram":      info.RAM,
		"cpu":      info.CPUCount,
		"freq":     info.CPUFreq,
	})
	if err != nil {
		return err
	}
	paths := map[ScanKind]string{ScanSequential: report.Seq.Path, ScanIndex: report.Idx.Path}
	rows := map[ScanKind][]string{ScanSequential: report.SeqRows, ScanIndex: report.IdxRows}
	records := make([]VerdictRecord, 0, len(report.Verdicts))
	for _, verdict := range report.Verdicts {
		records = append(records, VerdictRecord{
			Run:         report.Run,
			SourcePath:  paths[verdict.Source],
			TargetPath:  paths[verdict.Target],
			Verdict:     verdict,
			Fingerprint: Fingerprint(rows[verdict.Source]),
		})
	}
	if err := s.storage.RecordVerdicts(ctx, records); err != nil {
		return err
	}
	Logger.Infof("recorded verdicts of run %v", report.Run)
	return nil
}
