// Package texmacing supports golden-file tests for texmac expansions in
// your Go tests. A test reads its macro input from testdata/<TestName>.m4,
// expands it and compares the result with testdata/<TestName>.out:
//
//	func TestReport(t *testing.T) {
//		texmacing.Fatal(t, "")
//	}
//
// Host macros and engine options go through a Config:
//
//	cfg := texmacing.Config{
//		FileNames: texmacing.RefRepo{Dir: "testdata"}.Filenames,
//		Setup: func(x *texmac.Expander) {
//			x.Define("version", "1.4.2")
//		},
//	}
//	cfg.Fatal(t, "")
package texmacing

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fractalqb/texmac"
)

// When this environment variable is set to a regexp and the name of the
// current test matches, calls to Error or Fatal will record the expansion
// as new reference output instead of comparing it. E.g.
//
//	TEXMAC_RECORD=TestRecording go test .
const RecordEnv = "TEXMAC_RECORD"

// GoTestdataDir is the name of Go's default directory for testdata (see go
// help test).
const GoTestdataDir = "testdata"

func Error(t *testing.T, hint string) error {
	return defaultConfig.Error(t, hint)
}

func Fatal(t *testing.T, hint string) {
	defaultConfig.Fatal(t, hint)
}

func Record(t *testing.T, hint string) {
	defaultConfig.Record(t, hint)
}

// RefRepo locates the macro input and reference output files of a test.
// Without a hint they sit side by side in Dir as <TestName><suffix>; with a
// hint they move to the subdirectory Dir/<TestName>/<hint><suffix>.
type RefRepo struct {
	Dir       string
	MacSuffix string
	OutSuffix string
}

const (
	StdMacSuffix = ".m4"
	StdOutSuffix = ".out"
)

func (rr RefRepo) Filenames(t *testing.T, hint string) (mac, out string) {
	msfx, osfx := rr.MacSuffix, rr.OutSuffix
	if msfx == "" {
		msfx = StdMacSuffix
	}
	if osfx == "" {
		osfx = StdOutSuffix
	}
	base := filepath.Join(rr.Dir, t.Name())
	if hint != "" {
		base = filepath.Join(rr.Dir, t.Name(), hint)
	}
	return base + msfx, base + osfx
}

type Config struct {
	// FileNames resolves the macro input and reference output file of a
	// test, empty means RefRepo{Dir: GoTestdataDir}.Filenames.
	FileNames func(t *testing.T, hint string) (mac, out string)
	// Setup prepares the Expander before input is fed, e.g. with host
	// macro definitions or a nesting limit.
	Setup func(*texmac.Expander)
	// RecordOverwrite lets Record replace an existing reference file.
	RecordOverwrite bool
	// AllowWarnings keeps warnings from failing the comparison. They are
	// still logged.
	AllowWarnings bool
}

var defaultConfig = Config{}

func (cfg Config) Error(t *testing.T, hint string) error {
	if recordTest(t) {
		cfg.Record(t, hint)
		return nil
	}
	err := cfg.compare(t, hint)
	if err != nil {
		t.Error(err)
	}
	return err
}

func (cfg Config) Fatal(t *testing.T, hint string) {
	if recordTest(t) {
		cfg.Record(t, hint)
	} else if err := cfg.compare(t, hint); err != nil {
		t.Fatal(err)
	}
}

// Record expands the macro input and writes the result as new reference
// output. It fails the test so that recording runs cannot pass as green.
func (cfg Config) Record(t *testing.T, hint string) {
	mac, out := cfg.filenames(t, hint)
	if _, err := os.Stat(out); !os.IsNotExist(err) && !cfg.RecordOverwrite {
		t.Fatalf("texmac test-recorder: reference file '%s' already exists", out)
	}
	got, _, err := cfg.expand(mac)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(out)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0777); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(out, []byte(got), 0666); err != nil {
		t.Fatal(err)
	}
	t.Errorf("texmac test-recorder wrote: %s", out)
}

func (cfg Config) filenames(t *testing.T, hint string) (mac, out string) {
	if cfg.FileNames == nil {
		return RefRepo{Dir: GoTestdataDir}.Filenames(t, hint)
	}
	return cfg.FileNames(t, hint)
}

func recordTest(t *testing.T) bool {
	rec := os.Getenv(RecordEnv)
	if rec == "" {
		return false
	}
	r, err := regexp.Compile(rec)
	if err != nil {
		t.Logf("texmacing: invalid regexp '%s' in %s, not recording: %s",
			rec, RecordEnv, err)
		return false
	}
	return r.MatchString(t.Name())
}

func (cfg Config) compare(t *testing.T, hint string) error {
	mac, out := cfg.filenames(t, hint)
	got, warns, err := cfg.expand(mac)
	if err != nil {
		return err
	}
	for _, w := range warns {
		t.Logf("texmac warning: %s", w)
	}
	if len(warns) > 0 && !cfg.AllowWarnings {
		return fmt.Errorf("expanding %s raised %d warnings", mac, len(warns))
	}
	want, err := os.ReadFile(out)
	if os.IsNotExist(err) {
		t.Logf("to record a reference file run '%[1]s=%[2]s go test -run %[2]s'",
			RecordEnv, t.Name(),
		)
		return fmt.Errorf("reference output file %s does not exist", out)
	} else if err != nil {
		return err
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		return fmt.Errorf("expansion deviates from %s (-want +got):\n%s", out, diff)
	}
	return nil
}

func (cfg Config) expand(macfile string) (out string, warns []texmac.Warning, err error) {
	rd, err := os.Open(macfile)
	if err != nil {
		return "", nil, err
	}
	defer rd.Close()
	var sb strings.Builder
	x := texmac.New(&sb)
	if cfg.Setup != nil {
		cfg.Setup(x)
	}
	userWarn := x.OnWarn
	x.OnWarn = func(w texmac.Warning) {
		if userWarn != nil {
			userWarn(w)
		}
		warns = append(warns, w)
	}
	if err := x.Reader(rd); err != nil {
		return sb.String(), warns, err
	}
	return sb.String(), warns, nil
}
