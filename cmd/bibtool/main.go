// Command bibtool checks and normalizes BibTeX .bib bibliography
// files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/aclements/biblib"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bibtool",
	Short: "bibtool checks and normalizes BibTeX bibliography files",
	Long: `bibtool parses BibTeX .bib database files with the exact grammar of
BibTeX's own reader and reports every error it finds, with positions.

Subcommands:
  check    parse files and report errors and warnings
  fmt      parse files and write them back normalized`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the warning side channel. Warnings always show;
// --verbose adds debug output.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openInput opens path for reading, decompressing .gz files
// transparently.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("can't decompress %s: %w", path, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{zr, f}, nil
}

// parseFiles parses every path into one session and finalizes it.
// Parse errors from all files are reported together so one bad file
// does not hide problems in the rest.
func parseFiles(paths []string, cfg Config, log *slog.Logger) (*biblib.Database, error) {
	style, err := cfg.monthStyle()
	if err != nil {
		return nil, err
	}
	p := biblib.NewParser(biblib.Options{Months: style, Log: log})
	for name, value := range cfg.Macros {
		p.Define(name, value)
	}

	var parseErrs []error
	for _, path := range paths {
		r, err := openInput(path)
		if err != nil {
			return nil, err
		}
		err = p.Parse(r, path)
		r.Close()
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
	}
	db, err := p.Finalize()
	if err != nil {
		parseErrs = append(parseErrs, err)
	}
	if len(parseErrs) > 0 {
		return db, errors.Join(parseErrs...)
	}
	return db, nil
}
