// Package scaffold embeds the starter configuration file and writes
// it into a target project directory.
package scaffold

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

//go:embed assets/quotient.yaml
var starterConfig []byte

// FileName is the name the starter config is written under.
const FileName = ".quotient.yaml"

// Options configures the scaffold operation.
type Options struct {
	// TargetDir is the directory to write into.
	// Defaults to the current working directory.
	TargetDir string

	// Force overwrites an existing file when true.
	Force bool

	// Version is the quotient version string embedded in the
	// version marker comment. Defaults to "dev".
	Version string

	// Stdout is the writer for summary output.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Result reports what the scaffold operation did. Exactly one field
// is true.
type Result struct {
	Path        string
	Created     bool
	Skipped     bool
	Overwritten bool
}

// versionMarker returns the comment line prepended to the file.
func versionMarker(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("# scaffolded by quotient %s\n", version)
}

// Run writes the starter .quotient.yaml into opts.TargetDir. An
// existing file is left alone unless opts.Force is set.
func Run(opts Options) (*Result, error) {
	if opts.TargetDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		opts.TargetDir = cwd
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	outPath := filepath.Join(opts.TargetDir, FileName)
	result := &Result{Path: outPath}

	_, statErr := os.Stat(outPath)
	exists := statErr == nil
	if exists && !opts.Force {
		result.Skipped = true
		printSummary(opts.Stdout, result)
		return result, nil
	}

	if err := os.MkdirAll(opts.TargetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", opts.TargetDir, err)
	}
	out := append([]byte(versionMarker(opts.Version)), starterConfig...)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return nil, fmt.Errorf("creating %s: %w", FileName, err)
	}

	if exists {
		result.Overwritten = true
	} else {
		result.Created = true
	}
	printSummary(opts.Stdout, result)
	return result, nil
}

func printSummary(w io.Writer, r *Result) {
	switch {
	case r.Created:
		fmt.Fprintf(w, "created: %s\n", FileName)
	case r.Overwritten:
		fmt.Fprintf(w, "overwritten: %s\n", FileName)
	case r.Skipped:
		fmt.Fprintf(w, "skipped: %s (already exists, use --force to overwrite)\n", FileName)
	}
}
