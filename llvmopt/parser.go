package llvmopt

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dzonerzy/go-llvmopt/internal/intern"
	"github.com/dzonerzy/go-llvmopt/internal/pool"
)

// UnmatchedKind classifies tokens that produced no ParsedArg.
type UnmatchedKind int

const (
	// UnmatchedInput is a bare positional token: no declared prefix
	// introduces it.
	UnmatchedInput UnmatchedKind = iota
	// UnmatchedUnknownOption is a token that looks like an option (it
	// starts with a declared prefix) but matches no spelling.
	UnmatchedUnknownOption
	// UnmatchedUnsupported is a token that matched an option whose
	// effective flags mark it unsupported. Option carries the resolved
	// id so callers can name it in diagnostics.
	UnmatchedUnsupported
)

func (k UnmatchedKind) String() string {
	switch k {
	case UnmatchedInput:
		return "input"
	case UnmatchedUnknownOption:
		return "unknown_option"
	case UnmatchedUnsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// TokenRange is a half-open [Start, End) index range into the parsed
// token vector.
type TokenRange struct {
	Start int
	End   int
}

// ParsedArg is one successfully matched option occurrence. Option is
// the terminal id after alias resolution; Spelling is the literal text
// as typed (aliased spelling, original casing) so the input can be
// reconstructed exactly.
type ParsedArg struct {
	Option   OptionID
	Spelling string
	Values   []string
	Range    TokenRange
}

// UnmatchedArg is a token no option accepted, or an explicitly
// unsupported match. Option is NoOption except for UnmatchedUnsupported.
type UnmatchedArg struct {
	Kind   UnmatchedKind
	Text   string
	Option OptionID
	Range  TokenRange
}

// IncompleteArg reports an option that matched but ran out of trailing
// tokens: a Separate option at the end of the vector, a MultiArg with
// too few followers. Values holds whatever was bound before the vector
// ended and Missing the shortfall.
type IncompleteArg struct {
	Option   OptionID
	Spelling string
	Values   []string
	Missing  int
	Range    TokenRange
}

// Result is the output of one parse: three ordered record sequences,
// each record carrying the token range it consumed. A Result is owned
// by the caller that parsed it and shares nothing with other parses.
type Result struct {
	Parsed     []ParsedArg
	Unmatched  []UnmatchedArg
	Incomplete []IncompleteArg

	tokens []string
	table  *Table
}

// ParseOptions controls optional parser behaviors.
type ParseOptions struct {
	// ExpandResponseFiles enables @file expansion before matching:
	// each token of the form @path is replaced by the tokens of the
	// named file, GNU-style tokenization, recursively.
	ExpandResponseFiles bool

	// MaxResponseDepth bounds response-file recursion. Zero means the
	// default of 8.
	MaxResponseDepth int
}

const defaultResponseDepth = 8

// Parser drives a Matcher across a whole argument vector. A Parser is
// cheap to create and not safe for concurrent use; build one per
// goroutine and share the Table instead.
type Parser struct {
	table   *Table
	matcher *Matcher
	opts    ParseOptions
}

// NewParser returns a parser over t with default options.
func NewParser(t *Table) *Parser {
	return NewParserWithOptions(t, ParseOptions{})
}

// NewParserWithOptions returns a parser over t with explicit options.
func NewParserWithOptions(t *Table, opts ParseOptions) *Parser {
	if opts.MaxResponseDepth == 0 {
		opts.MaxResponseDepth = defaultResponseDepth
	}
	return &Parser{table: t, matcher: NewMatcher(t), opts: opts}
}

// Parse consumes the whole argument vector and returns every parsed,
// unmatched and incomplete record. Unrecognized tokens never abort the
// parse; the only error paths are response-file I/O and recursion
// limits, and only when expansion is enabled.
func (p *Parser) Parse(args []string) (*Result, error) {
	tokens := args
	if p.opts.ExpandResponseFiles {
		expanded, err := expandResponseFiles(args, p.opts.MaxResponseDepth)
		if err != nil {
			return nil, err
		}
		tokens = expanded
	}

	res := &Result{tokens: tokens, table: p.table}
	for pos := 0; pos < len(tokens); {
		match, ok := p.matcher.Match(tokens, pos)
		if !ok {
			res.Unmatched = append(res.Unmatched, p.classify(tokens[pos], pos))
			pos++
			continue
		}

		rng := TokenRange{Start: pos, End: pos + match.Consumed}
		target, fixed := p.table.ResolveAlias(match.Option)

		if match.Missing > 0 {
			res.Incomplete = append(res.Incomplete, IncompleteArg{
				Option:   target,
				Spelling: match.Spelling,
				Values:   prependValues(fixed, match.Values),
				Missing:  match.Missing,
				Range:    rng,
			})
			pos += match.Consumed
			continue
		}

		if p.table.EffectiveFlags(target).Has(FlagUnsupported) {
			res.Unmatched = append(res.Unmatched, UnmatchedArg{
				Kind:   UnmatchedUnsupported,
				Text:   tokens[pos],
				Option: target,
				Range:  rng,
			})
			pos += match.Consumed
			continue
		}

		res.Parsed = append(res.Parsed, ParsedArg{
			Option:   target,
			Spelling: intern.Intern(match.Spelling),
			Values:   prependValues(fixed, match.Values),
			Range:    rng,
		})
		pos += match.Consumed
	}
	return res, nil
}

// classify decides Input versus UnknownOption for a token the matcher
// rejected. A token consisting solely of a declared prefix (the bare
// "-" meaning stdin, for instance) is input, matching LLVM behavior.
func (p *Parser) classify(token string, pos int) UnmatchedArg {
	arg := UnmatchedArg{
		Kind:   UnmatchedInput,
		Text:   token,
		Option: NoOption,
		Range:  TokenRange{Start: pos, End: pos + 1},
	}
	for _, prefix := range p.table.prefixes {
		if token != prefix && strings.HasPrefix(token, prefix) {
			arg.Kind = UnmatchedUnknownOption
			return arg
		}
	}
	return arg
}

// prependValues returns fixed ++ values, allocating only when an alias
// actually contributed fixed values.
func prependValues(fixed, values []string) []string {
	if len(fixed) == 0 {
		return values
	}
	out := make([]string, 0, len(fixed)+len(values))
	out = append(out, fixed...)
	return append(out, values...)
}

// Tokens returns the token vector the records index into. With response
// expansion enabled this is the post-expansion vector.
func (r *Result) Tokens() []string {
	return r.tokens
}

// Has reports whether the option occurred at least once.
func (r *Result) Has(id OptionID) bool {
	for i := range r.Parsed {
		if r.Parsed[i].Option == id {
			return true
		}
	}
	return false
}

// Value returns the first bound value of the last occurrence of id,
// following the last-wins convention of compiler drivers.
func (r *Result) Value(id OptionID) (string, bool) {
	for i := len(r.Parsed) - 1; i >= 0; i-- {
		if r.Parsed[i].Option == id && len(r.Parsed[i].Values) > 0 {
			return r.Parsed[i].Values[0], true
		}
	}
	return "", false
}

// Values concatenates the bound values of every occurrence of id, in
// input order.
func (r *Result) Values(id OptionID) []string {
	var out []string
	for i := range r.Parsed {
		if r.Parsed[i].Option == id {
			out = append(out, r.Parsed[i].Values...)
		}
	}
	return out
}

// Inputs returns the bare positional tokens in input order.
func (r *Result) Inputs() []string {
	var out []string
	for i := range r.Unmatched {
		if r.Unmatched[i].Kind == UnmatchedInput {
			out = append(out, r.Unmatched[i].Text)
		}
	}
	return out
}

type recordClass int

const (
	classParsed recordClass = iota
	classUnmatched
	classIncomplete
)

type recordRef struct {
	rng   TokenRange
	class recordClass
	index int
}

// orderedRanges collects every record sorted by the start of its token
// range. Ranges never overlap, so this recovers the single consumption
// order of the parse.
func (r *Result) orderedRanges() []recordRef {
	refs := make([]recordRef, 0, len(r.Parsed)+len(r.Unmatched)+len(r.Incomplete))
	for i := range r.Parsed {
		refs = append(refs, recordRef{r.Parsed[i].Range, classParsed, i})
	}
	for i := range r.Unmatched {
		refs = append(refs, recordRef{r.Unmatched[i].Range, classUnmatched, i})
	}
	for i := range r.Incomplete {
		refs = append(refs, recordRef{r.Incomplete[i].Range, classIncomplete, i})
	}
	sort.Slice(refs, func(a, b int) bool { return refs[a].rng.Start < refs[b].rng.Start })
	return refs
}

// Reconstruct rebuilds the original token vector from the recorded
// ranges. The result always equals Tokens(): every token is consumed by
// exactly one record.
func (r *Result) Reconstruct() []string {
	out := make([]string, 0, len(r.tokens))
	for _, ref := range r.orderedRanges() {
		out = append(out, r.tokens[ref.rng.Start:ref.rng.End]...)
	}
	return out
}

// expandResponseFiles replaces every @path token with the tokenized
// content of the named file, recursively up to depth levels.
func expandResponseFiles(args []string, depth int) ([]string, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("response files nested too deeply")
	}

	expanded := false
	for _, a := range args {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			expanded = true
			break
		}
	}
	if !expanded {
		return args, nil
	}

	buf := pool.GetStringSlice()
	defer pool.PutStringSlice(buf)

	for _, a := range args {
		if !strings.HasPrefix(a, "@") || len(a) == 1 {
			*buf = append(*buf, a)
			continue
		}
		data, err := os.ReadFile(a[1:])
		if err != nil {
			return nil, fmt.Errorf("reading response file: %w", err)
		}
		inner, err := expandResponseFiles(tokenizeResponse(data), depth-1)
		if err != nil {
			return nil, err
		}
		*buf = append(*buf, inner...)
	}

	out := make([]string, len(*buf))
	copy(out, *buf)
	return out, nil
}

// tokenizeResponse splits response-file content GNU-style: tokens are
// whitespace separated, single and double quotes group text, and a
// backslash escapes the next character.
func tokenizeResponse(data []byte) []string {
	var tokens []string
	scratch := pool.GetBuffer(64)
	defer pool.PutBuffer(scratch)

	tok := (*scratch)[:0]
	inTok := false
	var quote byte

	flush := func() {
		if inTok {
			tokens = append(tokens, intern.InternBytes(tok))
			tok = tok[:0]
			inTok = false
		}
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				tok = append(tok, c)
			}
		case c == '\\' && i+1 < len(data):
			i++
			tok = append(tok, data[i])
			inTok = true
		case c == '\'' || c == '"':
			quote = c
			inTok = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			tok = append(tok, c)
			inTok = true
		}
	}
	flush()
	return tokens
}
