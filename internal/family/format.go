package family

import (
	"fmt"
	"strings"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
)

// displayToken tags one piece of a scanned display-string template.
type displayTokenKind int

const (
	dtLiteral displayTokenKind = iota
	dtField
	dtVariable
)

type displayToken struct {
	kind displayTokenKind
	text string
}

// scanDisplay splits a display template into literal runs and `{field}`
// / `{$variable}` placeholders. `{{` and `}}` escape to literal braces.
func scanDisplay(text string) []displayToken {
	var tokens []displayToken
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		start := i
		c := runes[i]
		switch {
		case c == '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				tokens = append(tokens, displayToken{dtLiteral, "{"})
				i += 2
				continue
			}
			i++
			isVar := i < len(runes) && runes[i] == '$'
			if isVar {
				i++
			}
			contentStart := i
			for i < len(runes) && runes[i] != '}' {
				i++
			}
			if i >= len(runes) {
				panic("missing closing bracket in display template: " + text)
			}
			content := string(runes[contentStart:i])
			i++ // consume '}'
			if isVar {
				tokens = append(tokens, displayToken{dtVariable, content})
			} else {
				tokens = append(tokens, displayToken{dtField, content})
			}
		case c == '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				tokens = append(tokens, displayToken{dtLiteral, "}"})
				i += 2
				continue
			}
			panic("single '}' is not allowed in display template: " + text)
		default:
			for i < len(runes) && runes[i] != '{' {
				i++
			}
			tokens = append(tokens, displayToken{dtLiteral, string(runes[start:i])})
		}
	}
	return tokens
}

// displayFormat renders a display template against pat, returning the
// SLEIGH display-section text and the count of variable/field
// placeholders it contained. A count of zero signals the instruction
// has no operands at all and may use a literal-display token instead
// (see InstructionBuilder.Build).
func displayFormat(text string, pat bitpattern.Pattern, prefix string) (string, int) {
	var out strings.Builder
	varCount := 0
	for _, tok := range scanDisplay(text) {
		switch tok.kind {
		case dtLiteral:
			fmt.Fprintf(&out, "%q", tok.text)
		case dtVariable:
			out.WriteString(tok.text)
			varCount++
		case dtField:
			if f, ok := pat.GetField(tok.text); ok {
				out.WriteString(prefix)
				out.WriteString(f.Name())
			}
			varCount++
		}
	}
	return out.String(), varCount
}
