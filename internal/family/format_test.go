package family

import (
	"reflect"
	"strings"
	"testing"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"pgregory.net/rapid"
)

func displayTestPattern() bitpattern.Pattern {
	return bitpattern.FromWord(bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
		bitpattern.NewProtoField("sig", bitpattern.NewMask(0), 13),
		bitpattern.NewProtoField("reg", bitpattern.NewVariable(bitpattern.DReg), 3),
	}})
}

func TestScanDisplaySplitsLiteralsAndPlaceholders(t *testing.T) {
	cases := []struct {
		template string
		want     []displayToken
	}{
		{"RTS", []displayToken{{dtLiteral, "RTS"}}},
		{"CLI {reg}", []displayToken{{dtLiteral, "CLI "}, {dtField, "reg"}}},
		{"LSETUP ({$endImm}) {reg}", []displayToken{
			{dtLiteral, "LSETUP ("}, {dtVariable, "endImm"},
			{dtLiteral, ") "}, {dtField, "reg"},
		}},
		{"{{}}", []displayToken{
			{dtLiteral, "{"}, {dtLiteral, "}"},
		}},
	}
	for _, c := range cases {
		got := scanDisplay(c.template)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("scanDisplay(%q) = %v, want %v", c.template, got, c.want)
		}
	}
}

func TestDisplayFormatResolvesFieldAndCountsPlaceholders(t *testing.T) {
	pat := displayTestPattern()

	text, vars := displayFormat("NOP", pat, "nop")
	if text != `"NOP"` || vars != 0 {
		t.Fatalf("literal template: got (%q, %d)", text, vars)
	}

	text, vars = displayFormat("MOVE {reg}", pat, "rf")
	if text != `"MOVE "rfRegDReg` || vars != 1 {
		t.Fatalf("field template: got (%q, %d)", text, vars)
	}

	text, vars = displayFormat("({$endImm})", pat, "lps")
	if text != `"("endImm")"` || vars != 1 {
		t.Fatalf("variable template: got (%q, %d)", text, vars)
	}
}

// reassemble rebuilds a display template from its scanned token list.
func reassemble(tokens []displayToken) string {
	var sb strings.Builder
	for _, tok := range tokens {
		switch tok.kind {
		case dtField:
			sb.WriteString("{" + tok.text + "}")
		case dtVariable:
			sb.WriteString("{$" + tok.text + "}")
		default:
			sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(tok.text, "{", "{{"), "}", "}}"))
		}
	}
	return sb.String()
}

// TestPropertyDisplayRoundTrip checks that scanning a display template,
// reassembling it, and scanning again reproduces the same token list:
// no placeholder or literal run is lost or re-bracketed along the way.
func TestPropertyDisplayRoundTrip(t *testing.T) {
	literalGen := rapid.StringMatching(`[A-Z][A-Z0-9 =+,().-]{0,11}`)
	idGen := rapid.StringMatching(`[a-z][a-zA-Z]{0,5}`)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "n")
		var sb strings.Builder
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "kind") {
			case 0:
				sb.WriteString(literalGen.Draw(t, "lit"))
			case 1:
				sb.WriteString("{" + idGen.Draw(t, "field") + "}")
			default:
				sb.WriteString("{$" + idGen.Draw(t, "var") + "}")
			}
		}
		template := sb.String()

		first := scanDisplay(template)
		second := scanDisplay(reassemble(first))
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("round trip diverged for %q:\n%v\nvs\n%v", template, first, second)
		}
	})
}
