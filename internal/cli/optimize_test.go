package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/svgo/pkg/config"
	"github.com/aretw0/svgo/pkg/plugins"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ellipse = `<svg><ellipse rx="5" ry="5"/></svg>`

type cliResult struct {
	stdout string
	stderr string
	exits  []int
}

func (r cliResult) ok(t *testing.T) {
	t.Helper()
	require.Empty(t, r.exits, "unexpected failure: %s", r.stderr)
}

// execute runs the real svgo program with argv after the program name.
func execute(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	rec := &exitRecorder{}
	Main(context.Background(), root, Register, append([]string{"svgo"}, args...),
		WithStderr(&stderr),
		WithExit(rec.exit),
		WithProfile(termenv.Ascii),
	)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), exits: rec.calls}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestOptimize_String(t *testing.T) {
	res := execute(t, "", "-s", ellipse, "--pretty=false")
	res.ok(t)
	assert.Equal(t, `<svg><circle r="5"/></svg>`, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestOptimize_Stdin(t *testing.T) {
	res := execute(t, ellipse, "--pretty=false", "--final-newline")
	res.ok(t)
	assert.Equal(t, "<svg><circle r=\"5\"/></svg>\n", res.stdout)
}

func TestOptimize_FileInPlace(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.svg")
	writeFile(t, file, ellipse)

	res := execute(t, "", file, "--pretty=false")
	res.ok(t)
	assert.Equal(t, `<svg><circle r="5"/></svg>`, readFile(t, file))
	assert.Contains(t, res.stdout, "Done in ")
	assert.Contains(t, res.stdout, " KiB - ")
	assert.NotContains(t, res.stdout, "a.svg:", "a single file has no header")
}

func TestOptimize_FileToOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.svg")
	out := filepath.Join(dir, "out", "b.svg")
	writeFile(t, in, ellipse)

	res := execute(t, "", "-i", in, "-o", out, "--pretty=false", "-q")
	res.ok(t)
	assert.Equal(t, ellipse, readFile(t, in))
	assert.Equal(t, `<svg><circle r="5"/></svg>`, readFile(t, out))
	assert.Empty(t, res.stdout)
}

func TestOptimize_FilesToFolder(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.svg"), filepath.Join(dir, "b.svg")
	writeFile(t, a, ellipse)
	writeFile(t, b, `<svg><g><rect/></g></svg>`)
	outDir := filepath.Join(dir, "dist")

	res := execute(t, "", a, b, "-o", outDir, "--pretty=false", "--concurrency", "2")
	res.ok(t)
	assert.Equal(t, `<svg><circle r="5"/></svg>`, readFile(t, filepath.Join(outDir, "a.svg")))
	assert.Equal(t, `<svg><rect/></svg>`, readFile(t, filepath.Join(outDir, "b.svg")))
	assert.Contains(t, res.stdout, a+":")
	assert.Contains(t, res.stdout, b+":")
}

func TestOptimize_FilesToStdout(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.svg")
	writeFile(t, file, ellipse)

	res := execute(t, "", file, "-o", "-", "--pretty=false")
	res.ok(t)
	assert.Equal(t, `<svg><circle r="5"/></svg>`, res.stdout)
	assert.Equal(t, ellipse, readFile(t, file))
}

func TestOptimize_Folder(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "icons")
	writeFile(t, filepath.Join(src, "a.svg"), ellipse)
	writeFile(t, filepath.Join(src, "sub", "b.svg"), ellipse)
	writeFile(t, filepath.Join(src, "sub", "c.min.svg"), ellipse)
	writeFile(t, filepath.Join(src, "readme.txt"), "not svg")

	t.Run("recursive with exclude", func(t *testing.T) {
		out := filepath.Join(dir, "out-r")
		res := execute(t, "", "-f", src, "-r", "--exclude", "**/*.min.svg", "-o", out, "--pretty=false", "-q")
		res.ok(t)
		assert.Equal(t, `<svg><circle r="5"/></svg>`, readFile(t, filepath.Join(out, "a.svg")))
		assert.Equal(t, `<svg><circle r="5"/></svg>`, readFile(t, filepath.Join(out, "sub", "b.svg")))
		assert.NoFileExists(t, filepath.Join(out, "sub", "c.min.svg"))
		assert.NoFileExists(t, filepath.Join(out, "readme.txt"))
		assert.Empty(t, res.stdout)
	})

	t.Run("top level only", func(t *testing.T) {
		out := filepath.Join(dir, "out-flat")
		res := execute(t, "", "-f", src, "-o", out, "--pretty=false")
		res.ok(t)
		assert.FileExists(t, filepath.Join(out, "a.svg"))
		assert.NoDirExists(t, filepath.Join(out, "sub"))
	})
}

func TestCollectFolder_InvalidPattern(t *testing.T) {
	_, err := collectFolder(t.TempDir(), true, []string{"[a-"})
	assert.ErrorContains(t, err, "invalid --exclude pattern")
}

func TestOptimize_Failures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.svg")
	writeFile(t, bad, `<svg><g></svg>`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"malformed file", []string{bad}, "bad.svg: "},
		{"missing file", []string{filepath.Join(dir, "missing.svg")}, "failed to read input"},
		{"unknown plugin", []string{"-s", ellipse, "--enable", "nope"}, "unknown plugin"},
		{"bad eol", []string{"-s", ellipse, "--eol", "cr"}, "unknown eol"},
		{"two modes", []string{"-s", ellipse, "-f", dir}, "use only one of"},
		{"outputs mismatch", []string{bad, bad, "-o", "x.svg,y.svg,z.svg"}, "got 3 outputs for 2 inputs"},
		{"unknown flag", []string{"--nope"}, "unknown flag: --nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", tt.args...)
			assert.Equal(t, []int{1}, res.exits)
			assert.Contains(t, res.stderr, tt.want)
			assert.True(t, strings.HasPrefix(res.stderr, "Error: "), res.stderr)
		})
	}
}

func TestOptimize_DisableAndEnable(t *testing.T) {
	res := execute(t, "", "-s", ellipse, "--pretty=false", "--disable", "convertEllipseToCircle")
	res.ok(t)
	assert.Equal(t, ellipse, res.stdout)

	cfgPath := filepath.Join(t.TempDir(), "svgo.config.yaml")
	writeFile(t, cfgPath, "js2svg:\n  pretty: false\nplugins:\n  - convertColors\n")

	res = execute(t, "", "--config", cfgPath, "-s", `<svg><ellipse fill="rgb(255,0,0)" rx="5" ry="5"/></svg>`, "--enable", "convertEllipseToCircle")
	res.ok(t)
	assert.Equal(t, `<svg><circle fill="red" r="5"/></svg>`, res.stdout)
}

func TestOptimize_ConfigAndPrecision(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "svgo.config.yaml")
	writeFile(t, cfgPath, "floatPrecision: 1\njs2svg:\n  pretty: false\n")
	input := `<svg><rect width="10.123"/></svg>`

	res := execute(t, "", "--config", cfgPath, "-s", input)
	res.ok(t)
	assert.Equal(t, `<svg><rect width="10.1"/></svg>`, res.stdout)

	res = execute(t, "", "--config", cfgPath, "-s", input, "-p", "2")
	res.ok(t)
	assert.Equal(t, `<svg><rect width="10.12"/></svg>`, res.stdout)
}

func TestOptimize_ShowPlugins(t *testing.T) {
	res := execute(t, "", "--show-plugins")
	res.ok(t)
	assert.True(t, strings.HasPrefix(res.stdout, "Currently available plugins:\n"))
	assert.Contains(t, res.stdout, " [ cleanupAttrs ] : ")
}

func TestApplyToggles(t *testing.T) {
	t.Run("disable from preset", func(t *testing.T) {
		cfg := &config.Config{}
		applyToggles(cfg, nil, []string{"collapseGroups"})
		require.Len(t, cfg.Plugins, 1)
		assert.Equal(t, plugins.PresetDefault, cfg.Plugins[0].Name)
		assert.Equal(t, map[string]any{"collapseGroups": false}, cfg.Plugins[0].Params["overrides"])
	})

	t.Run("enable restores a disabled preset plugin", func(t *testing.T) {
		cfg := &config.Config{Plugins: []config.PluginConfig{{
			Name:   plugins.PresetDefault,
			Params: map[string]any{"overrides": map[string]any{"cleanupIds": false}},
		}}}
		applyToggles(cfg, []string{"cleanupIds"}, nil)
		require.Len(t, cfg.Plugins, 1)
		assert.Empty(t, cfg.Plugins[0].Params["overrides"])
	})

	t.Run("enable appends and disable drops entries", func(t *testing.T) {
		cfg := &config.Config{Plugins: []config.PluginConfig{{Name: "convertColors"}, {Name: "cleanupAttrs"}}}
		applyToggles(cfg, []string{"collapseGroups", "convertColors"}, []string{"cleanupAttrs"})
		assert.Equal(t, []config.PluginConfig{{Name: "convertColors"}, {Name: "collapseGroups"}}, cfg.Plugins)
	})

	t.Run("no toggles leaves config untouched", func(t *testing.T) {
		cfg := &config.Config{}
		applyToggles(cfg, nil, nil)
		assert.Nil(t, cfg.Plugins)
	})
}
