package llvmopt

import "strings"

// Match is a successful resolution of one cursor position. Option holds
// the id as matched, before alias resolution; the parser rewrites it
// through Table.ResolveAlias when assembling output.
//
// Consumed counts the tokens actually taken from the vector. Missing is
// non-zero when the option required trailing tokens the vector did not
// have: Consumed then covers what was taken and Missing the shortfall,
// which the parser reports as an incomplete-option record.
type Match struct {
	Option   OptionID
	Spelling string // literal matched text, original casing, prefix included
	Values   []string
	Consumed int
	Missing  int
}

// Matcher resolves single argument-vector positions against a Table.
// It only reads the table, so one matcher (or many) can serve
// concurrent parses.
type Matcher struct {
	table *Table
}

// NewMatcher returns a matcher over t.
func NewMatcher(t *Table) *Matcher {
	return &Matcher{table: t}
}

// Match attempts to resolve the token at args[pos]. The second return
// is false when no option matches, leaving the token to the parser's
// Input/UnknownOption classification.
//
// Candidate order realizes the tie-breaking rules: prefixes longest
// first, and within a prefix the declared spellings longest first with
// declaration order deciding equal lengths. The first candidate whose
// kind accepts the token wins.
func (m *Matcher) Match(args []string, pos int) (Match, bool) {
	token := args[pos]
	for _, prefix := range m.table.prefixes {
		if !hasPrefixFold(token, prefix) {
			continue
		}
		for _, id := range m.table.byPrefix[prefix] {
			opt := &m.table.options[id]
			ci := m.table.effFlags[id].Has(FlagCaseInsensitive)
			if prefix != token[:len(prefix)] && !ci {
				// The prefix only matched case-insensitively; this
				// candidate compares case-sensitively.
				continue
			}
			spelling := prefix + opt.Name
			if !matchSpelling(token, spelling, ci) {
				continue
			}
			if match, ok := m.bind(opt, args, pos, token[:len(spelling)], token[len(spelling):]); ok {
				return match, true
			}
		}
	}
	return Match{}, false
}

// matchSpelling reports whether spelling introduces token, folding case
// when ci is set. The literal token text is preserved by the caller.
func matchSpelling(token, spelling string, ci bool) bool {
	if len(token) < len(spelling) {
		return false
	}
	head := token[:len(spelling)]
	if head == spelling {
		return true
	}
	return ci && strings.EqualFold(head, spelling)
}

// hasPrefixFold is a cheap screen: does token start with prefix under
// either comparison? Per-candidate checks settle case sensitivity.
func hasPrefixFold(token, prefix string) bool {
	if strings.HasPrefix(token, prefix) {
		return true
	}
	return len(token) >= len(prefix) && strings.EqualFold(token[:len(prefix)], prefix)
}

// bind applies the option's kind-specific consumption rule. A false
// return means the candidate did not accept the token shape (e.g. a
// Flag with trailing text) and matching falls through to the next
// candidate.
func (m *Matcher) bind(opt *Option, args []string, pos int, spelling, suffix string) (Match, bool) {
	match := Match{Option: opt.ID, Spelling: spelling}

	switch opt.Kind {
	case KindFlag:
		if suffix != "" {
			return Match{}, false
		}
		match.Consumed = 1

	case KindJoined:
		// An empty joined value is legal: "-I" alone binds "".
		match.Values = []string{suffix}
		match.Consumed = 1

	case KindCommaJoined:
		// Empty components are preserved, matching the literal
		// comma-separated spelling.
		match.Values = strings.Split(suffix, ",")
		match.Consumed = 1

	case KindSeparate:
		if suffix != "" {
			return Match{}, false
		}
		if pos+1 >= len(args) {
			match.Consumed = 1
			match.Missing = 1
			return match, true
		}
		match.Values = []string{args[pos+1]}
		match.Consumed = 2

	case KindJoinedOrSeparate:
		if suffix != "" {
			match.Values = []string{suffix}
			match.Consumed = 1
			return match, true
		}
		if pos+1 >= len(args) {
			match.Consumed = 1
			match.Missing = 1
			return match, true
		}
		match.Values = []string{args[pos+1]}
		match.Consumed = 2

	case KindJoinedAndSeparate:
		if pos+1 >= len(args) {
			match.Values = []string{suffix}
			match.Consumed = 1
			match.Missing = 1
			return match, true
		}
		match.Values = []string{suffix, args[pos+1]}
		match.Consumed = 2

	case KindMultiArg:
		if suffix != "" {
			return Match{}, false
		}
		remaining := len(args) - pos - 1
		if remaining < opt.NumArgs {
			match.Values = append([]string(nil), args[pos+1:]...)
			match.Consumed = 1 + remaining
			match.Missing = opt.NumArgs - remaining
			return match, true
		}
		match.Values = append([]string(nil), args[pos+1:pos+1+opt.NumArgs]...)
		match.Consumed = 1 + opt.NumArgs

	case KindRemainingArgs:
		if suffix != "" {
			return Match{}, false
		}
		match.Values = append([]string(nil), args[pos+1:]...)
		match.Consumed = len(args) - pos

	default:
		// Group, Input and Unknown never match.
		return Match{}, false
	}

	return match, true
}
