// Package fetch prepares the data directory: sequence tables from a local
// LODA installation, exported LODA formulas and the OEIS formulas dump.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const OEISFormulasURL = "https://api.loda-lang.org/v2/sequences/data/oeis/formulas.gz"

const (
	NamesFile        = "names"
	OffsetsFile      = "offsets"
	StrippedFile     = "stripped"
	LODAFormulasFile = "formulas-loda.txt"
	OEISFormulasFile = "formulas-oeis.txt"
)

var coreFiles = []string{NamesFile, OffsetsFile, StrippedFile}

// CommandRunner runs an external command. When stdout is non-nil the
// command's standard output is written to it.
type CommandRunner interface {
	Run(ctx context.Context, stdout io.Writer, name string, args ...string) error
}

// Downloader writes the decompressed OEIS formulas dump to w.
type Downloader interface {
	Download(ctx context.Context, w io.Writer) error
}

type Options struct {
	DataDir string
	// LodaHome defaults to $HOME/loda.
	LodaHome string
	Force    bool
	DryRun   bool

	Runner     CommandRunner
	Downloader Downloader
}

type Report struct {
	Created  []string   `json:"created"`
	Skipped  []string   `json:"skipped"`
	Commands [][]string `json:"commands"`
}

func (r *Report) skip(format string, args ...any) {
	r.Skipped = append(r.Skipped, fmt.Sprintf(format, args...))
}

// Prepare makes sure every data file exists. Only missing files are produced
// unless Force is set. With DryRun nothing is executed or written; the report
// lists what would happen.
func Prepare(ctx context.Context, opts Options) (*Report, error) {
	if opts.DataDir == "" {
		return nil, errors.New("data directory is required")
	}
	if opts.LodaHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		opts.LodaHome = filepath.Join(home, "loda")
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Downloader == nil {
		opts.Downloader = NewHTTPDownloader(OEISFormulasURL)
	}
	if !opts.DryRun {
		if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	report := &Report{}
	if err := prepareCore(ctx, opts, report); err != nil {
		return report, err
	}
	if err := prepareLODAFormulas(ctx, opts, report); err != nil {
		return report, err
	}
	if err := prepareOEISFormulas(ctx, opts, report); err != nil {
		return report, err
	}

	slog.Info("Data prepared", "dir", opts.DataDir, "created", len(report.Created), "skipped", len(report.Skipped))
	return report, nil
}

func prepareCore(ctx context.Context, opts Options, report *Report) error {
	needed := opts.Force
	for _, name := range coreFiles {
		if !exists(filepath.Join(opts.DataDir, name)) {
			needed = true
		}
	}
	if !needed {
		report.skip("core files already present")
		return nil
	}

	seqsDir := filepath.Join(opts.LodaHome, "seqs", "oeis")
	if !exists(seqsDir) {
		return fmt.Errorf("expected OEIS exports under %s; run loda update manually", seqsDir)
	}

	cmd := []string{"loda", "update"}
	report.Commands = append(report.Commands, cmd)
	if !opts.DryRun {
		if err := opts.Runner.Run(ctx, nil, cmd[0], cmd[1:]...); err != nil {
			return fmt.Errorf("run %s: %w", strings.Join(cmd, " "), err)
		}
	}

	for _, name := range coreFiles {
		src := filepath.Join(seqsDir, name)
		dst := filepath.Join(opts.DataDir, name)
		if !exists(src) {
			return fmt.Errorf("missing source file: %s", src)
		}
		if opts.DryRun {
			report.skip("would copy %s -> %s", src, dst)
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
		report.Created = append(report.Created, dst)
	}
	return nil
}

func prepareLODAFormulas(ctx context.Context, opts Options, report *Report) error {
	dst := filepath.Join(opts.DataDir, LODAFormulasFile)
	if !opts.Force && exists(dst) {
		report.skip("%s already present", LODAFormulasFile)
		return nil
	}

	cmd := []string{"loda", "export-formulas"}
	report.Commands = append(report.Commands, cmd)
	if opts.DryRun {
		report.skip("would run %s > %s", strings.Join(cmd, " "), dst)
		return nil
	}

	slog.Info("Exporting LODA formulas, this may take a few minutes", "output", dst)
	err := writeFile(dst, func(w io.Writer) error {
		return opts.Runner.Run(ctx, w, cmd[0], cmd[1:]...)
	})
	if err != nil {
		return fmt.Errorf("run %s: %w", strings.Join(cmd, " "), err)
	}
	report.Created = append(report.Created, dst)
	return nil
}

func prepareOEISFormulas(ctx context.Context, opts Options, report *Report) error {
	dst := filepath.Join(opts.DataDir, OEISFormulasFile)
	if !opts.Force && exists(dst) {
		report.skip("%s already present", OEISFormulasFile)
		return nil
	}
	if opts.DryRun {
		report.skip("would download %s -> %s", OEISFormulasURL, dst)
		return nil
	}

	slog.Info("Downloading OEIS formulas", "url", OEISFormulasURL, "output", dst)
	err := writeFile(dst, func(w io.Writer) error {
		return opts.Downloader.Download(ctx, w)
	})
	if err != nil {
		return fmt.Errorf("download OEIS formulas: %w", err)
	}
	report.Created = append(report.Created, dst)
	return nil
}

// writeFile writes through a temporary file so a failed step never leaves a
// partial target behind.
func writeFile(dst string, fill func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	err = writeFile(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExecRunner runs commands on the host.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
