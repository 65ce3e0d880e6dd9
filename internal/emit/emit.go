// Package emit writes the family models the orchestrator assembles,
// and the static assets beside them, into the on-disk output tree.
// This is the "external collaborator" layer: directory creation, file
// writes, and verbatim asset staging are explicitly out of the core
// instruction model (see internal/family and internal/factory).
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackfinplus/sleighgen/internal/assets"
	"github.com/blackfinplus/sleighgen/internal/orchestrator"
)

// Options controls where static assets are read from and whether
// progress is logged as each file is written.
type Options struct {
	RegistersPath string
	HWLoopPath    string
	Verbose       bool
}

// Progress is called once per file written, when Options.Verbose is
// set; nil is a valid "no logging" callback.
type Progress func(path string)

// Tree writes the complete output tree for families under outdir.
// Directories are created as needed; an existing outdir is reused, not
// cleared, since downstream files are always written or overwritten in
// full, never appended to.
func Tree(outdir string, families []orchestrator.Family, opts Options, progress Progress) error {
	if progress == nil {
		progress = func(string) {}
	}

	includesDir := filepath.Join(outdir, "includes")
	if err := os.MkdirAll(includesDir, 0o755); err != nil {
		return fmt.Errorf("creating includes directory: %w", err)
	}

	registers, err := assets.Registers(opts.RegistersPath)
	if err != nil {
		return fmt.Errorf("loading register bank file: %w", err)
	}
	registersPath := filepath.Join(includesDir, "registers.sinc")
	if err := os.WriteFile(registersPath, registers, 0o644); err != nil {
		return fmt.Errorf("writing registers.sinc: %w", err)
	}
	if opts.Verbose {
		progress(registersPath)
	}

	hwloop, err := assets.HWLoop(opts.HWLoopPath)
	if err != nil {
		return fmt.Errorf("loading hardware-loop preamble: %w", err)
	}

	index, err := writeFamilies(outdir, families, opts, progress)
	if err != nil {
		return err
	}
	indexPath := filepath.Join(includesDir, "instructions.sinc")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		return fmt.Errorf("writing instructions.sinc: %w", err)
	}
	if opts.Verbose {
		progress(indexPath)
	}

	rootPath := filepath.Join(outdir, "blackfinplus.slaspec")
	root := RootSpec(hwloop)
	if err := os.WriteFile(rootPath, []byte(root), 0o644); err != nil {
		return fmt.Errorf("writing blackfinplus.slaspec: %w", err)
	}
	if opts.Verbose {
		progress(rootPath)
	}
	return nil
}

// RootSpec renders the root blackfinplus.slaspec file: address space and
// endianness declarations, the registers include, the hardware-loop
// preamble copied in verbatim, and the phase-1 instruction include.
func RootSpec(hwloop []byte) string {
	var sb strings.Builder
	sb.WriteString("define endian=little;\n")
	sb.WriteString("define alignment=2;\n")
	sb.WriteString("define space ram type=ram_space size=4 default;\n")
	sb.WriteString("define space register type=register_space size=2;\n\n")
	sb.WriteString(`@include "includes/registers.sinc"` + "\n\n")
	sb.Write(hwloop)
	sb.WriteString("\n")
	sb.WriteString("with: phase=1 {\n")
	sb.WriteString(`	@include "includes/instructions.sinc"` + "\n")
	sb.WriteString("}\n")
	return sb.String()
}

func widthDir(w orchestrator.Width) string {
	return fmt.Sprintf("instr%d", int(w))
}

// writeFamilies writes every family's per-width .sinc file (or
// per-sub-family-id files when a family has more than one bucket) and
// returns the includes/instructions.sinc index text referencing them.
func writeFamilies(outdir string, families []orchestrator.Family, opts Options, progress Progress) (string, error) {
	var idx16, idx32, idx64 strings.Builder

	for _, f := range families {
		dir := filepath.Join(outdir, widthDir(f.Width))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating %s directory: %w", widthDir(f.Width), err)
		}

		sections := f.Builder.BuildIDInstrs()
		fname := strings.ToLower(f.Builder.Name())

		var idx *strings.Builder
		switch f.Width {
		case orchestrator.Width16:
			idx = &idx16
		case orchestrator.Width32:
			idx = &idx32
		default:
			idx = &idx64
		}

		if len(sections) == 1 {
			path := filepath.Join(dir, fname+".sinc")
			if err := os.WriteFile(path, []byte(f.Builder.BuildHead()+sections[0].Text), 0o644); err != nil {
				return "", fmt.Errorf("writing %s: %w", path, err)
			}
			if opts.Verbose {
				progress(path)
			}
			fmt.Fprintf(idx, "@include \"%s/%s.sinc\"\n", widthDir(f.Width), fname)
			continue
		}

		famDir := filepath.Join(dir, fname)
		if err := os.MkdirAll(famDir, 0o755); err != nil {
			return "", fmt.Errorf("creating %s directory: %w", famDir, err)
		}
		for i, sec := range sections {
			text := sec.Text
			if i == 0 {
				text = f.Builder.BuildHead() + text
			}
			path := filepath.Join(famDir, fmt.Sprintf("%s-%s.sinc", fname, sec.ID))
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				return "", fmt.Errorf("writing %s: %w", path, err)
			}
			if opts.Verbose {
				progress(path)
			}
			fmt.Fprintf(idx, "@include \"%s/%s/%s-%s.sinc\"\n", widthDir(f.Width), fname, fname, sec.ID)
		}
	}

	var sb strings.Builder
	sb.WriteString("## 16-bits instructions ##\n\n")
	sb.WriteString(idx16.String())
	sb.WriteString("\n## 32-bits instructions ##\n\n")
	sb.WriteString(idx32.String())
	sb.WriteString("\n## 64-bits instructions ##\n\n")
	sb.WriteString(idx64.String())
	return sb.String(), nil
}
