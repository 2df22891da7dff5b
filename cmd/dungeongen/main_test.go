package main

import (
	"bytes"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lawnchairsociety/dungeonbuilder/internal/export"
	"github.com/lawnchairsociety/dungeonbuilder/internal/store"
)

const testConfig = `dungeon:
  min_width: 24
  max_width: 32
  min_height: 20
  max_height: 28
render:
  scale: 2
  gif_stride: 25
  gif_delay: 4
`

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dungeon.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		configPath: writeConfig(t, dir),
		seed:       99,
		ascii:      true,
		pngPath:    filepath.Join(dir, "out", "99.png"),
		gifPath:    filepath.Join(dir, "out", "99.gif"),
		yamlPath:   filepath.Join(dir, "out", "99.yaml"),
		dbPath:     filepath.Join(dir, "archive.db"),
	}

	var stdout bytes.Buffer
	if err := run(opts, &stdout); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	layout, err := export.ReadYAML(opts.yamlPath)
	if err != nil {
		t.Fatalf("ReadYAML() failed: %v", err)
	}
	if layout.Seed != 99 {
		t.Errorf("seed = %d, want 99", layout.Seed)
	}
	if got := strings.Join(layout.Rows, "\n") + "\n"; got != stdout.String() {
		t.Error("ascii output differs from the YAML rows")
	}

	f, err := os.Open(opts.pngPath)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != layout.Width*2 || b.Dy() != layout.Height*2 {
		t.Errorf("image = %v, want %dx%d", b, layout.Width*2, layout.Height*2)
	}

	f, err = os.Open(opts.gifPath)
	if err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("gif.DecodeAll() failed: %v", err)
	}
	if len(anim.Image) == 0 || anim.Delay[0] != 4 {
		t.Errorf("gif has %d frames, delay %v", len(anim.Image), anim.Delay)
	}

	st, err := store.OpenSQLite(opts.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if id, err := st.FindByFingerprint(layout.Fingerprint); err != nil || id == 0 {
		t.Errorf("FindByFingerprint() = %d, %v", id, err)
	}
}

func TestRunLoadRendersSameLayout(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	yamlPath := filepath.Join(dir, "layout.yaml")

	var first bytes.Buffer
	if err := run(options{configPath: cfgPath, seed: 5, ascii: true, yamlPath: yamlPath}, &first); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	var second bytes.Buffer
	if err := run(options{configPath: cfgPath, load: yamlPath, ascii: true}, &second); err != nil {
		t.Fatalf("run() with -load failed: %v", err)
	}
	if first.String() != second.String() {
		t.Error("loaded layout renders differently")
	}
}

func TestRunSameSeedIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	var a, b bytes.Buffer
	if err := run(options{configPath: cfgPath, seed: 12, ascii: true}, &a); err != nil {
		t.Fatal(err)
	}
	if err := run(options{configPath: cfgPath, seed: 12, ascii: true}, &b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("equal seeds produced different dungeons")
	}
}

func TestRunRejectsGIFWithLoad(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		configPath: writeConfig(t, dir),
		load:       filepath.Join(dir, "missing.yaml"),
		gifPath:    filepath.Join(dir, "out.gif"),
	}
	if err := run(opts, &bytes.Buffer{}); err == nil {
		t.Error("run() accepted -gif with -load")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("dungeon:\n  passage_width: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := run(options{configPath: path, seed: 1}, &bytes.Buffer{}); err == nil {
		t.Error("run() accepted passage_width 0")
	}
}
