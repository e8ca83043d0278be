package main

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

type SysInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUCount int
	CPUFreq  float64
	RAM      float64
}

func HostStat() SysInfo {
	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	info := SysInfo{Arch: runtime.GOARCH}
	if hostStat != nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	}
	if len(cpuStat) > 0 {
		totalFreq := 0.0
		for _, cpu := range cpuStat {
			totalFreq += cpu.Mhz
		}
		info.CPUCount = len(cpuStat)
		info.CPUFreq = totalFreq / float64(len(cpuStat)) * 1000
	}
	if vmStat != nil {
		info.RAM = float64(vmStat.Total) / 1024 / 1024 / 1024
	}
	return info
}

// Storage records verdicts to a libsql database or a local sqlite file.
type Storage struct {
	db *sql.DB
}

func driverFor(url string) string {
	if strings.HasPrefix(url, "libsql://") || strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "wss://") || strings.HasPrefix(url, "ws://") {
		return "libsql"
	}
	return "sqlite3"
}

func OpenStorage(url string) (*Storage, error) {
	db, err := sql.Open(driverFor(url), url)
	if err != nil {
		return nil, fmt.Errorf("failed to open results db: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error { return s.db.Close() }

func (s *Storage) Init(ctx context.Context, meta map[string]any) error {
	_, err := s.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS parameters (name TEXT PRIMARY KEY, value)")
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	parameters := make([]any, 0, 2*len(keys)+2)
	parameters = append(parameters, "time", time.Now().Format("2006-01-02 15:04:05"))
	for _, key := range keys {
		parameters = append(parameters, key, fmt.Sprintf("%v", meta[key]))
	}
	placeholders := strings.Join(slices.Repeat([]string{"(?, ?)"}, len(parameters)/2), ", ")
	_, err = s.db.ExecContext(
		ctx,
		fmt.Sprintf("INSERT INTO parameters VALUES %v ON CONFLICT DO NOTHING", placeholders),
		parameters...,
	)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS verdicts (
		run TEXT,
		source TEXT,
		target TEXT,
		source_path TEXT,
		target_path TEXT,
		identical BOOLEAN,
		matched INTEGER,
		missing TEXT,
		leftover INTEGER,
		fingerprint TEXT,
		PRIMARY KEY (run, source, target)
	)`)
	if err != nil {
		return err
	}
	Logger.Debugf("initialized results db with meta %v", meta)
	return nil
}

type VerdictRecord struct {
	Run         string
	SourcePath  string
	TargetPath  string
	Verdict     Verdict
	Fingerprint uint64
}

func (s *Storage) RecordVerdicts(ctx context.Context, records []VerdictRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, record := range records {
		var missing any
		if record.Verdict.HasMissing {
			missing = record.Verdict.Missing
		}
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO verdicts VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			record.Run,
			record.Verdict.Source.String(),
			record.Verdict.Target.String(),
			record.SourcePath,
			record.TargetPath,
			record.Verdict.Identical,
			record.Verdict.Rows,
			missing,
			record.Verdict.Leftover,
			fmt.Sprintf("%016x", record.Fingerprint),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert verdict %v - %v: %w", record.Verdict.Source, record.Verdict.Target, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) Parameters(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM parameters")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := make(map[string]string, 0)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		results[name] = value
	}
	return results, rows.Err()
}

func (s *Storage) Verdicts(ctx context.Context, run string) ([]Verdict, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source, identical, matched, missing, leftover FROM verdicts WHERE run = ? ORDER BY source DESC", run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	verdicts := make([]Verdict, 0)
	for rows.Next() {
		var source string
		var missing sql.NullString
		var verdict Verdict
		if err := rows.Scan(&source, &verdict.Identical, &verdict.Rows, &missing, &verdict.Leftover); err != nil {
			return nil, err
		}
		verdict.Source, verdict.Target = ScanIndex, ScanSequential
		if source == ScanSequential.String() {
			verdict.Source, verdict.Target = ScanSequential, ScanIndex
		}
		verdict.Missing, verdict.HasMissing = missing.String, missing.Valid
		verdicts = append(verdicts, verdict)
	}
	return verdicts, rows.Err()
}
