package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/aclements/biblib"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bibtool.yaml")
	src := `months: abbrv
wrap: 100
macros:
  tug: TeX Users Group
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Months != "abbrv" || cfg.Wrap != 100 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Macros["tug"] != "TeX Users Group" {
		t.Errorf("macros = %v", cfg.Macros)
	}
	style, err := cfg.monthStyle()
	if err != nil || style != biblib.MonthsAbbrv {
		t.Errorf("monthStyle() = %v, %v", style, err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Months != "full" || cfg.Wrap != 70 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestMonthStyleUnknown(t *testing.T) {
	if _, err := (Config{Months: "roman"}).monthStyle(); err == nil {
		t.Error("expected error for unknown month style")
	}
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.bib")
	if err := os.WriteFile(plain, []byte(`@misc{a, year = 2020}`), 0o644); err != nil {
		t.Fatal(err)
	}

	packed := filepath.Join(dir, "b.bib.gz")
	f, err := os.Create(packed)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(`@misc{b, year = 2021}`)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := parseFiles([]string{plain, packed}, defaultConfig(), newLogger())
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 2 {
		t.Errorf("db.Len() = %d, want 2", db.Len())
	}
}
