package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
)

const (
	ExitOk       = 0
	ExitFailure  = 1
	ExitMismatch = 2
)

type Config struct {
	Dir       string
	Strict    bool
	ResultsDb string
	SeqMarker string
	Extractor Extractor
}

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func ParseConfig(args []string) (Config, error) {
	defaults := DefaultExtractor()
	var cfg Config

	app := kingpin.New("scanverify", "Compare query results with and without SP-GiST index")
	app.HelpFlag.Short('h')
	app.Flag("dir", "Directory with exactly two captured query outputs").Short('d').Required().StringVar(&cfg.Dir)
	app.Flag("strict", "Exit with a non-zero status when the results differ").Envar("STRICT").BoolVar(&cfg.Strict)
	app.Flag("column-marker", "Token of the first column in the header line").Envar("COLUMN_MARKER").Default(defaults.ColumnMarker).StringVar(&cfg.Extractor.ColumnMarker)
	app.Flag("separator", "Dash run of the line below the header").Envar("SEPARATOR").Default(defaults.Separator).StringVar(&cfg.Extractor.Separator)
	app.Flag("footer-marker", "Token of the trailing row count line").Envar("FOOTER_MARKER").Default(defaults.FooterMarker).StringVar(&cfg.Extractor.FooterMarker)
	app.Flag("seq-marker", "File name substring of the sequential scan output").Envar("SEQ_MARKER").Default("seq").StringVar(&cfg.SeqMarker)
	app.Flag("results-db", "libsql:// or file: url to record verdicts to").Envar("RESULTS_DB_URL").StringVar(&cfg.ResultsDb)

	if _, err := app.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Extractor.ColumnMarker == "" || cfg.Extractor.Separator == "" || cfg.Extractor.FooterMarker == "" || cfg.SeqMarker == "" {
		return Config{}, configErrorf("markers must not be empty")
	}
	return cfg, nil
}
