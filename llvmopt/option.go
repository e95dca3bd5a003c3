// Package llvmopt implements table-driven command-line parsing with the
// matching semantics of LLVM-family tools (clang, lld, dsymutil, ...).
//
// Those tools declare their options in tablegen and rely on a matcher
// that understands overlapping prefixes, joined values, aliases and
// option groups. This package consumes a tablegen option dump and
// reimplements the same matching algorithm, so a Go program can accept
// exactly the invocations the original tool accepts.
package llvmopt

import "strings"

// OptionID identifies an option within its Table. IDs are indices into
// the table's flat option array and are only meaningful for the table
// that produced them.
type OptionID int

// NoOption marks an absent option reference (no alias, no group).
const NoOption OptionID = -1

// Kind is the closed enumeration of value-binding behaviors an option
// can declare. Group, Input and Unknown are synthetic: they never match
// a token directly.
type Kind int

const (
	// KindGroup is a non-matchable parent node used for flag propagation.
	KindGroup Kind = iota
	// KindInput marks bare positional tokens in parse output.
	KindInput
	// KindUnknown marks prefixed-but-unrecognized tokens in parse output.
	KindUnknown
	// KindFlag takes no value: -v
	KindFlag
	// KindJoined binds the text following the spelling in the same token: -Ifoo
	KindJoined
	// KindSeparate binds the next whole token: -o out.bin
	KindSeparate
	// KindCommaJoined binds like Joined and splits the value on commas: -Wl,-x,-y
	KindCommaJoined
	// KindMultiArg binds the next NumArgs tokens verbatim.
	KindMultiArg
	// KindJoinedOrSeparate binds joined text if present, else the next token.
	KindJoinedOrSeparate
	// KindJoinedAndSeparate binds the joined text plus the next token, both required.
	KindJoinedAndSeparate
	// KindRemainingArgs binds every token after the spelling to the end.
	KindRemainingArgs
)

var kindNames = map[Kind]string{
	KindGroup:             "group",
	KindInput:             "input",
	KindUnknown:           "unknown",
	KindFlag:              "flag",
	KindJoined:            "joined",
	KindSeparate:          "separate",
	KindCommaJoined:       "comma_joined",
	KindMultiArg:          "multi_arg",
	KindJoinedOrSeparate:  "joined_or_separate",
	KindJoinedAndSeparate: "joined_and_separate",
	KindRemainingArgs:     "remaining_args",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Matchable reports whether options of this kind participate in token
// matching. Group is structural; Input and Unknown only ever appear in
// parse output.
func (k Kind) Matchable() bool {
	switch k {
	case KindGroup, KindInput, KindUnknown:
		return false
	default:
		return true
	}
}

// Flags is the bit-set of option modifiers carried by the schema.
// Effective flags merge an option's own bits with those of every group
// above it in the group forest.
type Flags uint32

const (
	// FlagHelpHidden excludes the option from consumer-rendered listings.
	FlagHelpHidden Flags = 1 << iota
	// FlagCaseInsensitive makes spelling comparison case-insensitive.
	FlagCaseInsensitive
	// FlagRenderJoined keeps the value joined to the spelling when the
	// parsed argument is re-serialized for forwarding.
	FlagRenderJoined
	// FlagUnsupported marks options that match but are rejected explicitly.
	FlagUnsupported
)

var flagNames = []struct {
	bit  Flags
	name string
}{
	{FlagHelpHidden, "help_hidden"},
	{FlagCaseInsensitive, "case_insensitive"},
	{FlagRenderJoined, "render_joined"},
	{FlagUnsupported, "unsupported"},
}

// Has reports whether all bits in mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	parts := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f.Has(fn.bit) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Option is one schema-declared entry. Callers build a slice of these
// (schema loaders do it from tablegen JSON or YAML) and hand it to New;
// the table assigns IDs and declaration order from slice position.
//
// Alias and Group are integer-id edges into the same option slice and
// must be NoOption when absent (the zero value is a valid id). The
// explicit order field exists so that re-sorting an index elsewhere can
// never change match outcomes.
type Option struct {
	ID        OptionID
	Name      string
	Prefixes  []string
	Kind      Kind
	NumArgs   int // arity for KindMultiArg, 0 otherwise
	Alias     OptionID
	AliasArgs []string
	Group     OptionID
	Flags     Flags

	order int // declaration order, the matching tie-break
}

// Order returns the option's position in the original schema. Earlier
// declarations win ties between equal-length spellings.
func (o *Option) Order() int {
	return o.order
}

// IsAlias reports whether the option redirects to another option.
func (o *Option) IsAlias() bool {
	return o.Alias != NoOption
}

// PrimarySpelling returns the option's first declared prefix joined
// with its name, e.g. "-o" or "--output". Options with no prefixes
// return the bare name.
func (o *Option) PrimarySpelling() string {
	if len(o.Prefixes) == 0 {
		return o.Name
	}
	return o.Prefixes[0] + o.Name
}
