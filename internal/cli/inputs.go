package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/svgo"
	"github.com/aretw0/svgo/pkg/config"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// stdio marks stdin as an input or stdout as an output.
const stdio = "-"

// job is one document to optimize.
type job struct {
	input  string  // file path or stdio
	data   *string // inline data from --string
	output string  // file path or stdio
	name   string  // shown in the report
}

// plan turns the input flags into jobs. Only one input mode may be used.
func (o *optimizeOptions) plan(cmd *cobra.Command, args []string) ([]job, error) {
	files := append(append([]string{}, args...), o.inputs...)

	modes := 0
	for _, set := range []bool{o.str != "", o.folder != "", len(files) > 0} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return nil, errors.New("use only one of --string, --folder or file inputs")
	}

	switch {
	case o.str != "":
		out := stdio
		if len(o.outputs) > 0 {
			out = o.outputs[0]
		}
		return []job{{data: &o.str, output: out, name: "string"}}, nil
	case o.folder != "":
		return o.planFolder()
	case len(files) == 0:
		if !stdinPiped(cmd) {
			return nil, nil
		}
		files = []string{stdio}
	}
	return o.planFiles(files)
}

func (o *optimizeOptions) planFiles(files []string) ([]job, error) {
	jobs := make([]job, 0, len(files))
	toFolder := ""
	if len(o.outputs) == 1 && o.outputs[0] != stdio {
		if info, err := os.Stat(o.outputs[0]); (err == nil && info.IsDir()) || len(files) > 1 {
			toFolder = o.outputs[0]
		}
	}
	if toFolder == "" && len(o.outputs) > 1 && len(o.outputs) != len(files) {
		return nil, fmt.Errorf("got %d outputs for %d inputs", len(o.outputs), len(files))
	}

	for i, in := range files {
		out := in
		switch {
		case len(o.outputs) == 1 && o.outputs[0] == stdio:
			out = stdio
		case toFolder != "":
			if in == stdio {
				return nil, errors.New("stdin cannot be written to an output folder")
			}
			out = filepath.Join(toFolder, filepath.Base(in))
		case len(o.outputs) > 0:
			out = o.outputs[i]
		}
		name := in
		if in == stdio {
			name = "stdin"
		}
		jobs = append(jobs, job{input: in, output: out, name: name})
	}
	return jobs, nil
}

func (o *optimizeOptions) planFolder() ([]job, error) {
	files, err := collectFolder(o.folder, o.recursive, o.exclude)
	if err != nil {
		return nil, err
	}
	if len(o.outputs) > 1 {
		return nil, errors.New("--folder takes a single output folder")
	}

	jobs := make([]job, 0, len(files))
	for _, in := range files {
		rel, err := filepath.Rel(o.folder, in)
		if err != nil {
			return nil, err
		}
		out := in
		if len(o.outputs) == 1 {
			out = o.outputs[0]
			if out != stdio {
				out = filepath.Join(out, rel)
			}
		}
		jobs = append(jobs, job{input: in, output: out, name: rel})
	}
	return jobs, nil
}

// collectFolder lists the *.svg files under folder in lexical order.
func collectFolder(folder string, recursive bool, exclude []string) ([]string, error) {
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid --exclude pattern %q", p)
		}
	}

	var files []string
	err := filepath.WalkDir(folder, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != folder && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".svg") {
			return nil
		}
		rel, err := filepath.Rel(folder, p)
		if err != nil {
			return err
		}
		if excluded(filepath.ToSlash(rel), exclude) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}
	return files, nil
}

// excluded matches rel, and its base name, against the doublestar patterns.
func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

// stdinPiped reports whether stdin carries data rather than a terminal.
func stdinPiped(cmd *cobra.Command) bool {
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return true
}

func (o *optimizeOptions) process(cmd *cobra.Command, cfg *config.Config, jobs []job, rep *reporter, logger *slog.Logger) error {
	limit := o.concurrency
	if limit < 1 {
		limit = 1
	}

	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(limit)
	for _, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := o.processJob(cmd, cfg, j, rep, logger); err != nil {
				return fmt.Errorf("%s: %w", j.name, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

func (o *optimizeOptions) processJob(cmd *cobra.Command, cfg *config.Config, j job, rep *reporter, logger *slog.Logger) error {
	start := time.Now()

	input, err := readInput(cmd.InOrStdin(), j)
	if err != nil {
		return err
	}

	pathForPlugins := j.input
	if j.input == stdio {
		pathForPlugins = ""
	}
	out, err := svgo.Optimize(input, o.optimizerOptions(cfg, pathForPlugins, logger)...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if j.output == stdio {
		return rep.data(out.Data)
	}
	if err := writeOutput(j.output, out.Data); err != nil {
		return err
	}
	logger.Debug("File optimized", "input", j.name, "output", j.output, "elapsed", elapsed)
	rep.result(j.name, elapsed, len(input), len(out.Data))
	return nil
}

func readInput(stdin io.Reader, j job) (string, error) {
	if j.data != nil {
		return *j.data, nil
	}
	if j.input == stdio {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(j.input)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}

func writeOutput(path, data string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
