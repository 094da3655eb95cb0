package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aclements/biblib"
)

var (
	sortDate bool
	outFile  string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>...",
	Short: "parse .bib files and write them back normalized",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().BoolVar(&sortDate, "sort-date", false, "order entries chronologically")
	fmtCmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	db, err := parseFiles(args, cfg, newLogger())
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	opts := biblib.BibOptions{MonthToMacro: true, WrapWidth: cfg.Wrap}
	if !sortDate {
		return biblib.Fprint(w, db, opts)
	}
	for i, ent := range biblib.ByDate(db) {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, ent.Bib(opts)); err != nil {
			return err
		}
	}
	return nil
}
