package ir

import (
	"fmt"
	"strings"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
)

// RenderCode serialises an ordered statement list to SLEIGH action/
// p-code surface syntax. Each statement contributes its own leading
// newline (and, for ordinary statements, a leading tab and trailing
// semicolon); a Line node -- produced by multi-statement snippet
// helpers such as PushVal/PopVal -- flattens into its constituent
// statements with no extra separator of its own. pat resolves Field
// leaves to their token names; prefix is the owning family's short
// token-name prefix.
func RenderCode(code Code, pat bitpattern.Pattern, prefix string) string {
	var out strings.Builder
	for _, s := range code.Stmts {
		out.WriteString(renderStmt(s, pat, prefix))
	}
	return out.String()
}

// renderStmt renders e as it appears in statement position: a Label
// definition gets a bare leading newline, a Line flattens into its
// current/next pair recursively, and everything else gets a leading
// "\n\t" and trailing ";".
func renderStmt(e *Expr, pat bitpattern.Pattern, prefix string) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KLabel:
		return "\n" + render(e, pat, prefix)
	case KLine:
		return renderStmt(e.Current, pat, prefix) + renderStmt(e.Next, pat, prefix)
	default:
		return "\n\t" + render(e, pat, prefix) + ";"
	}
}

// render recursively walks one Expr node to its SLEIGH surface text.
// Field identifiers are resolved against pat; everything else is
// rendered structurally per the operator/kind's fixed surface form.
func render(e *Expr, pat bitpattern.Pattern, prefix string) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KField:
		if f, ok := pat.GetField(e.ID); ok {
			return f.TokenName(prefix)
		}
		return e.ID

	case KVar:
		return e.ID

	case KReg:
		return e.ID

	case KNumber:
		if e.Num < 0 {
			return fmt.Sprintf("-0x%x", -e.Num)
		}
		return fmt.Sprintf("0x%x", e.Num)

	case KLabel:
		return "<" + e.ID + ">"

	case KGroup:
		return "(" + render(e.Inner, pat, prefix) + ")"

	case KUnary:
		return e.Op.String() + render(e.Inner, pat, prefix)

	case KBinary:
		return render(e.LHS, pat, prefix) + " " + e.Op.String() + " " + render(e.RHS, pat, prefix)

	case KLocal:
		return fmt.Sprintf("local %s:%d", render(e.Inner, pat, prefix), e.Size)

	case KSize:
		return fmt.Sprintf("%s:%d", render(e.Inner, pat, prefix), e.Size)

	case KTrunc:
		return fmt.Sprintf("%s(%d)", render(e.Inner, pat, prefix), e.Size)

	case KPtr:
		return fmt.Sprintf("*[%s]:%d %s", e.Space, e.Size, render(e.Addr, pat, prefix))

	case KRef:
		return "&" + render(e.Inner, pat, prefix)

	case KIndirect:
		return "[" + render(e.Inner, pat, prefix) + "]"

	case KReturn:
		// Brackets come from an explicit Indirect wrapper around the
		// operand, not from Return itself -- callers that need
		// `return [REG]` pass Indirect(Reg(...)) as the operand.
		return "return " + render(e.Inner, pat, prefix)

	case KCall:
		return "call " + render(e.Inner, pat, prefix)

	case KGoto:
		return "goto " + render(e.Inner, pat, prefix)

	case KIfGoto:
		return fmt.Sprintf("if (%s) goto %s", render(e.Cond, pat, prefix), render(e.Goto, pat, prefix))

	case KMacro:
		parts := make([]string, len(e.Params))
		for i, p := range e.Params {
			parts[i] = render(p, pat, prefix)
		}
		return e.ID + "(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}
