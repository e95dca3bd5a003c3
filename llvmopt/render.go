package llvmopt

import "strings"

// Render serializes the argument back into tokens suitable for
// forwarding to another tool. The resolved option's canonical spelling
// is used (aliases render as their target), values follow the option's
// kind: joined kinds and options flagged render_joined glue the first
// value to the spelling, everything else emits values as separate
// tokens. CommaJoined values are re-joined with commas.
func (a *ParsedArg) Render(t *Table) []string {
	opt := t.Option(a.Option)
	if opt == nil {
		return append([]string{a.Spelling}, a.Values...)
	}
	spelling := opt.PrimarySpelling()

	switch opt.Kind {
	case KindFlag:
		return []string{spelling}

	case KindCommaJoined:
		return []string{spelling + strings.Join(a.Values, ",")}

	case KindJoined, KindJoinedAndSeparate:
		return renderFirstJoined(spelling, a.Values)

	default:
		if t.EffectiveFlags(a.Option).Has(FlagRenderJoined) {
			return renderFirstJoined(spelling, a.Values)
		}
		out := make([]string, 0, 1+len(a.Values))
		out = append(out, spelling)
		return append(out, a.Values...)
	}
}

func renderFirstJoined(spelling string, values []string) []string {
	if len(values) == 0 {
		return []string{spelling}
	}
	out := make([]string, 0, len(values))
	out = append(out, spelling+values[0])
	return append(out, values[1:]...)
}

// Render serializes the whole parse in consumption order: matched
// options in forwarding form, everything else as the literal tokens.
// Unlike Reconstruct, the output is the canonical respelling of the
// invocation, not a byte-for-byte copy.
func (r *Result) Render() []string {
	out := make([]string, 0, len(r.tokens))
	for _, ref := range r.orderedRanges() {
		switch ref.class {
		case classParsed:
			out = append(out, r.Parsed[ref.index].Render(r.table)...)
		default:
			out = append(out, r.tokens[ref.rng.Start:ref.rng.End]...)
		}
	}
	return out
}
