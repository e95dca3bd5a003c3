package llvmopt

import (
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/dzonerzy/go-llvmopt/internal/fuzzy"
	"github.com/dzonerzy/go-llvmopt/internal/intern"
)

// Table is the immutable, queryable form of a loaded option schema.
// Build it once with New (or a schema loader) and share it freely: all
// queries are read-only, so any number of parses may run against the
// same table concurrently.
type Table struct {
	options []Option

	// prefixes holds every declared prefix, longest first. Iteration
	// order realizes the longest-prefix preference of the matcher.
	prefixes []string

	// byPrefix maps a prefix to the ids declaring it, sorted by
	// spelling length (longest first) then declaration order.
	byPrefix map[string][]OptionID

	byName map[string]OptionID

	// Flattened alias chains and group-inherited flags, resolved at
	// construction so queries are O(1).
	aliasTarget []OptionID
	aliasArgs   [][]string
	effFlags    []Flags
}

// New builds a Table from schema records. Slice position becomes both
// the OptionID and the declaration order; Alias and Group references
// must already be ids into the same slice (schema loaders resolve def
// names before calling this).
//
// Construction is atomic. On failure the returned error is a multierror
// whose entries are *SchemaError values, one per fault, so a loader can
// report every schema problem at once.
func New(options []Option) (*Table, error) {
	t := &Table{
		options:     make([]Option, len(options)),
		byPrefix:    make(map[string][]OptionID),
		byName:      make(map[string]OptionID, len(options)),
		aliasTarget: make([]OptionID, len(options)),
		aliasArgs:   make([][]string, len(options)),
		effFlags:    make([]Flags, len(options)),
	}
	copy(t.options, options)

	var errs *multierror.Error
	for i := range t.options {
		opt := &t.options[i]
		opt.ID = OptionID(i)
		opt.order = i
		opt.Name = intern.Intern(opt.Name)
		for j, p := range opt.Prefixes {
			opt.Prefixes[j] = intern.Intern(p)
		}
		if err := t.validateRecord(opt); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	// Reference and record faults make graph traversal meaningless;
	// bail before chasing alias chains through bad ids.
	if errs.ErrorOrNil() != nil {
		return nil, errs
	}

	for i := range t.options {
		if err := t.resolveAliasChain(OptionID(i)); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := t.resolveGroupFlags(OptionID(i)); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if errs.ErrorOrNil() != nil {
		return nil, errs
	}

	if err := t.buildIndexes(); err != nil {
		return nil, err
	}
	return t, nil
}

// validateRecord checks one option in isolation: required fields,
// kind parameters, repeated prefixes and reference ranges.
func (t *Table) validateRecord(opt *Option) error {
	var errs *multierror.Error

	if opt.Name == "" && opt.Kind.Matchable() {
		errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, "",
			"record %d has no name", opt.ID))
	}
	if opt.Kind == KindMultiArg && opt.NumArgs < 1 {
		errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, opt.Name,
			"multi_arg option needs a positive arg count, got %d", opt.NumArgs))
	}

	seen := make(map[string]bool, len(opt.Prefixes))
	for _, p := range opt.Prefixes {
		if p == "" {
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, opt.Name,
				"empty prefix string"))
			continue
		}
		if seen[p] {
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, opt.Name,
				"prefix %q declared twice", p))
		}
		seen[p] = true
	}

	if opt.Alias != NoOption {
		if !t.inRange(opt.Alias) {
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeDanglingReference, opt.Name,
				"alias target %d does not exist", opt.Alias))
		} else if opt.Alias == opt.ID {
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeAliasCycle, opt.Name,
				"option aliases itself"))
		}
	}
	if len(opt.AliasArgs) > 0 && opt.Alias == NoOption {
		errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, opt.Name,
			"alias args without an alias target"))
	}

	if opt.Group != NoOption {
		switch {
		case !t.inRange(opt.Group):
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeDanglingReference, opt.Name,
				"group reference %d does not exist", opt.Group))
		case t.options[opt.Group].Kind != KindGroup:
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeDanglingReference, opt.Name,
				"group reference %q is not a group", t.options[opt.Group].Name))
		}
	}

	return errs.ErrorOrNil()
}

// resolveAliasChain flattens the alias chain starting at id to its
// terminal non-alias option, concatenating fixed alias args along the
// way. A chain longer than the table is a cycle.
func (t *Table) resolveAliasChain(id OptionID) error {
	t.aliasTarget[id] = id
	opt := &t.options[id]
	if opt.Alias == NoOption {
		return nil
	}

	var args []string
	cur := id
	for steps := 0; t.options[cur].Alias != NoOption; steps++ {
		if steps > len(t.options) {
			return schemaErrorf(ErrorTypeAliasCycle, opt.Name,
				"alias chain never terminates")
		}
		args = append(args, t.options[cur].AliasArgs...)
		cur = t.options[cur].Alias
	}
	t.aliasTarget[id] = cur
	t.aliasArgs[id] = args
	return nil
}

// resolveGroupFlags merges the option's flags with every ancestor
// group's flags. Groups nest, so walk the parent chain to the root.
func (t *Table) resolveGroupFlags(id OptionID) error {
	flags := t.options[id].Flags
	cur := t.options[id].Group
	for steps := 0; cur != NoOption; steps++ {
		if steps > len(t.options) {
			return schemaErrorf(ErrorTypeGroupCycle, t.options[id].Name,
				"group chain never terminates")
		}
		flags |= t.options[cur].Flags
		cur = t.options[cur].Group
	}
	t.effFlags[id] = flags
	return nil
}

// buildIndexes materializes the prefix buckets and the name lookup.
// Buckets are sorted longest-spelling-first with declaration order as
// the tie-break, which is exactly the order the matcher wants.
func (t *Table) buildIndexes() error {
	var errs *multierror.Error

	spellings := make(map[string]OptionID)
	for i := range t.options {
		opt := &t.options[i]
		if !opt.Kind.Matchable() {
			continue
		}
		if _, dup := t.byName[opt.Name]; !dup {
			t.byName[opt.Name] = opt.ID
		}
		for _, p := range opt.Prefixes {
			full := p + opt.Name
			if prev, dup := spellings[full]; dup {
				// An exact duplicate would leave the later declaration
				// unreachable; the schema is malformed.
				errs = multierror.Append(errs, schemaErrorf(ErrorTypeDuplicateSpelling, opt.Name,
					"spelling %q already declared by %q", full, t.options[prev].Name))
				continue
			}
			spellings[full] = opt.ID
			t.byPrefix[p] = append(t.byPrefix[p], opt.ID)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}

	for p, ids := range t.byPrefix {
		sort.SliceStable(ids, func(a, b int) bool {
			na, nb := t.options[ids[a]].Name, t.options[ids[b]].Name
			if len(na) != len(nb) {
				return len(na) > len(nb)
			}
			return t.options[ids[a]].order < t.options[ids[b]].order
		})
		t.prefixes = append(t.prefixes, p)
	}
	sort.Slice(t.prefixes, func(a, b int) bool {
		if len(t.prefixes[a]) != len(t.prefixes[b]) {
			return len(t.prefixes[a]) > len(t.prefixes[b])
		}
		return t.prefixes[a] < t.prefixes[b]
	})
	return nil
}

func (t *Table) inRange(id OptionID) bool {
	return id >= 0 && int(id) < len(t.options)
}

// Len returns the number of options in the table.
func (t *Table) Len() int {
	return len(t.options)
}

// Option returns the option for id, or nil when id is out of range.
// The returned value points into the table and must not be mutated.
func (t *Table) Option(id OptionID) *Option {
	if !t.inRange(id) {
		return nil
	}
	return &t.options[id]
}

// Options returns the full option slice in declaration order. The slice
// is owned by the table; treat it as read-only.
func (t *Table) Options() []Option {
	return t.options
}

// Prefixes returns every declared prefix, longest first.
func (t *Table) Prefixes() []string {
	return t.prefixes
}

// CandidatesForPrefix returns the ids of options declaring prefix,
// longest spelling first, declaration order breaking ties.
func (t *Table) CandidatesForPrefix(prefix string) []OptionID {
	return t.byPrefix[prefix]
}

// ResolveAlias follows the (pre-flattened) alias chain for id,
// returning the terminal option and any fixed values an alias
// declared. Non-alias options resolve to themselves with no values.
func (t *Table) ResolveAlias(id OptionID) (OptionID, []string) {
	if !t.inRange(id) {
		return NoOption, nil
	}
	return t.aliasTarget[id], t.aliasArgs[id]
}

// EffectiveFlags returns the option's flags merged with those of every
// group above it in the group forest.
func (t *Table) EffectiveFlags(id OptionID) Flags {
	if !t.inRange(id) {
		return 0
	}
	return t.effFlags[id]
}

// Find looks up an option by canonical name. When several options share
// a name (same option under different prefixes was rejected at load, but
// distinct names may collide across groups) the earliest declaration
// wins. Returns NoOption when the name is unknown.
func (t *Table) Find(name string) OptionID {
	if id, ok := t.byName[name]; ok {
		return id
	}
	return NoOption
}

// OptionsByGroup indexes matchable options by the name of their direct
// group. Ungrouped options appear under the empty string.
func (t *Table) OptionsByGroup() map[string][]OptionID {
	out := make(map[string][]OptionID)
	for i := range t.options {
		opt := &t.options[i]
		if !opt.Kind.Matchable() {
			continue
		}
		key := ""
		if opt.Group != NoOption {
			key = t.options[opt.Group].Name
		}
		out[key] = append(out[key], opt.ID)
	}
	return out
}

// OptionsByFlag returns the matchable options whose effective flags
// contain every bit of mask, in declaration order.
func (t *Table) OptionsByFlag(mask Flags) []OptionID {
	var out []OptionID
	for i := range t.options {
		if t.options[i].Kind.Matchable() && t.effFlags[i].Has(mask) {
			out = append(out, OptionID(i))
		}
	}
	return out
}

// Nearest returns the spelling of the declared option closest to text
// within maxDistance edits, or "" when nothing is close enough. Used
// for "did you mean" diagnostics over unknown options.
func (t *Table) Nearest(text string, maxDistance int) string {
	candidates := make([]string, 0, len(t.options))
	for p, ids := range t.byPrefix {
		for _, id := range ids {
			candidates = append(candidates, p+t.options[id].Name)
		}
	}
	return fuzzy.FindBestSpelling(text, candidates, maxDistance)
}
