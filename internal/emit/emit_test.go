package emit_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackfinplus/sleighgen/internal/emit"
	"github.com/blackfinplus/sleighgen/internal/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeWritesExpectedLayout(t *testing.T) {
	outdir := t.TempDir()
	families := orchestrator.Default().Build()

	var written []string
	err := emit.Tree(outdir, families, emit.Options{Verbose: true}, func(path string) {
		written = append(written, path)
	})
	require.NoError(t, err)

	rootText, err := os.ReadFile(filepath.Join(outdir, "blackfinplus.slaspec"))
	require.NoError(t, err)
	for _, want := range []string{
		"define endian=little;",
		"define alignment=2;",
		`@include "includes/registers.sinc"`,
		"hw_loop_check",
		`@include "includes/instructions.sinc"`,
		"with: phase=1 {",
	} {
		assert.Contains(t, string(rootText), want)
	}

	_, err = os.Stat(filepath.Join(outdir, "includes", "registers.sinc"))
	require.NoError(t, err)

	indexText, err := os.ReadFile(filepath.Join(outdir, "includes", "instructions.sinc"))
	require.NoError(t, err)
	for _, want := range []string{
		"## 16-bits instructions ##",
		"## 32-bits instructions ##",
		"## 64-bits instructions ##",
		`@include "instr16/nop16.sinc"`,
		`@include "instr64/multi.sinc"`,
	} {
		assert.Contains(t, string(indexText), want)
	}

	for _, path := range []string{
		filepath.Join(outdir, "instr16", "nop16.sinc"),
		filepath.Join(outdir, "instr32", "loopsetup.sinc"),
		filepath.Join(outdir, "instr64", "multi.sinc"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected %s to exist", path)
	}

	assert.NotEmpty(t, written, "expected verbose progress callbacks")
}

// TestTreeOutputIsDeterministic emits the full default model twice from
// independently built family registries and requires the two trees to
// be byte-identical, file for file.
func TestTreeOutputIsDeterministic(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	require.NoError(t, emit.Tree(dirA, orchestrator.Default().Build(), emit.Options{}, nil))
	require.NoError(t, emit.Tree(dirB, orchestrator.Default().Build(), emit.Options{}, nil))

	filesA := treeContents(t, dirA)
	filesB := treeContents(t, dirB)
	require.Equal(t, len(filesA), len(filesB))
	for rel, a := range filesA {
		b, ok := filesB[rel]
		require.True(t, ok, "file %s missing from second run", rel)
		assert.Equal(t, a, b, "file %s differs between runs", rel)
	}
}

func treeContents(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = string(b)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestTreeReusesExistingOutdir(t *testing.T) {
	outdir := t.TempDir()
	families := orchestrator.Default().Build()
	require.NoError(t, emit.Tree(outdir, families, emit.Options{}, nil))
	require.NoError(t, emit.Tree(outdir, families, emit.Options{}, nil))
}
