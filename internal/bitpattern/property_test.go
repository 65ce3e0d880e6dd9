package bitpattern_test

import (
	"testing"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"pgregory.net/rapid"
)

// TestPropertyWordAlwaysTiles checks the pattern-tiling property at the
// single-word construction level: any ProtoPattern whose declared
// widths sum to 16 must materialise into a Pattern whose word 0 is an
// exact partition of [0,15].
func TestPropertyWordAlwaysTiles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		remaining := 16
		fields := make([]bitpattern.ProtoField, 0, n)
		for i := 0; i < n; i++ {
			slotsLeft := n - i
			maxWidth := remaining - (slotsLeft - 1)
			if maxWidth < 1 {
				break
			}
			w := rapid.IntRange(1, maxWidth).Draw(t, "w")
			if i == n-1 {
				w = remaining
			}
			fields = append(fields, bitpattern.NewProtoField(
				"f"+string(rune('a'+i)), bitpattern.NewBlank(), w))
			remaining -= w
		}

		p := bitpattern.FromWord(bitpattern.ProtoPattern{Fields: fields})
		if !p.TilesWord(0) {
			t.Fatalf("pattern failed to tile: %+v", fields)
		}
	})
}

// TestPropertySplitFieldPreservesTiling exercises split_field with
// random valid splits and checks the tiling invariant still holds.
func TestPropertySplitFieldPreservesTiling(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(2, 6).Draw(t, "width")
		base := bitpattern.FromWord(bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("reg", bitpattern.NewBlank(), width),
			bitpattern.NewProtoField("sig", bitpattern.NewMask(0), 16-width),
		}})

		// split "reg" into two parts summing back to width
		left := rapid.IntRange(1, width-1).Draw(t, "left")
		right := width - left
		split := bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("regH", bitpattern.NewMask(0), left),
			bitpattern.NewProtoField("regL", bitpattern.NewVariable(bitpattern.DReg), right),
		}}

		refined := base.SplitField("reg", split)
		if !refined.TilesWord(0) {
			t.Fatalf("split result failed to tile: width=%d left=%d", width, left)
		}
	})
}
