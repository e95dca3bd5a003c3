package llvmopt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Schema ingestion. The canonical input is the JSON emitted by
// `llvm-tblgen --dump-json` over a tool's Options.td: a flat object of
// defs plus "!instanceof" arrays naming which defs are Options and
// OptionGroups. A flat YAML list is accepted for hand-authored tables.
// Either way the document is treated as already-validated data; only
// decoding and referential integrity are checked here, everything else
// is Table construction's business.

var kindFromTablegen = map[string]Kind{
	"KIND_GROUP":               KindGroup,
	"KIND_INPUT":               KindInput,
	"KIND_UNKNOWN":             KindUnknown,
	"KIND_FLAG":                KindFlag,
	"KIND_JOINED":              KindJoined,
	"KIND_SEPARATE":            KindSeparate,
	"KIND_COMMAJOINED":         KindCommaJoined,
	"KIND_MULTIARG":            KindMultiArg,
	"KIND_JOINED_OR_SEPARATE":  KindJoinedOrSeparate,
	"KIND_JOINED_AND_SEPARATE": KindJoinedAndSeparate,
	"KIND_REMAINING_ARGS":      KindRemainingArgs,
}

var flagFromTablegen = map[string]Flags{
	"HelpHidden":      FlagHelpHidden,
	"CaseInsensitive": FlagCaseInsensitive,
	"RenderJoined":    FlagRenderJoined,
	"Unsupported":     FlagUnsupported,
}

type tablegenRef struct {
	Def string `json:"def"`
}

type tablegenDef struct {
	Name         string        `json:"Name"`
	Prefixes     []string      `json:"Prefixes"`
	Kind         *tablegenRef  `json:"Kind"`
	Alias        *tablegenRef  `json:"Alias"`
	AliasArgs    []string      `json:"AliasArgs"`
	Group        *tablegenRef  `json:"Group"`
	Flags        []tablegenRef `json:"Flags"`
	NumArgs      int           `json:"NumArgs"`
	Superclasses []string      `json:"!superclasses"`
}

type tablegenInstanceOf struct {
	Option      []string `json:"Option"`
	OptionGroup []string `json:"OptionGroup"`
}

// ParseTablegenJSON builds a Table from a tablegen JSON dump. Groups
// are ingested first so option records can reference them, then the
// options in the dump's declared order.
func ParseTablegenJSON(r io.Reader) (*Table, error) {
	var doc map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &SchemaError{Type: ErrorTypeDecode, Message: "decoding tablegen JSON", Err: err}
	}

	groupNames, optionNames, err := tablegenDefNames(doc)
	if err != nil {
		return nil, err
	}

	var errs *multierror.Error
	defs := make(map[string]*tablegenDef, len(groupNames)+len(optionNames))
	ordered := make([]string, 0, len(groupNames)+len(optionNames))
	ids := make(map[string]OptionID, len(groupNames)+len(optionNames))

	for _, name := range append(append([]string(nil), groupNames...), optionNames...) {
		raw, ok := doc[name]
		if !ok {
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeDanglingReference, name,
				"listed in !instanceof but not defined"))
			continue
		}
		var def tablegenDef
		if err := json.Unmarshal(raw, &def); err != nil {
			errs = multierror.Append(errs, &SchemaError{
				Type: ErrorTypeDecode, Option: name, Message: "decoding def", Err: err,
			})
			continue
		}
		defs[name] = &def
		ids[name] = OptionID(len(ordered))
		ordered = append(ordered, name)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	groups := make(map[string]bool, len(groupNames))
	for _, g := range groupNames {
		groups[g] = true
	}

	options := make([]Option, 0, len(ordered))
	for _, name := range ordered {
		def := defs[name]
		opt := Option{
			Name:      def.Name,
			Prefixes:  def.Prefixes,
			NumArgs:   def.NumArgs,
			Alias:     NoOption,
			AliasArgs: def.AliasArgs,
			Group:     NoOption,
		}
		if groups[name] {
			opt.Kind = KindGroup
		} else if def.Kind == nil {
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, name, "def has no Kind"))
		} else if kind, ok := kindFromTablegen[def.Kind.Def]; ok {
			opt.Kind = kind
		} else {
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, name,
				"unrecognized kind %q", def.Kind.Def))
		}

		if def.Alias != nil && def.Alias.Def != "" {
			if id, ok := ids[def.Alias.Def]; ok {
				opt.Alias = id
			} else {
				errs = multierror.Append(errs, schemaErrorf(ErrorTypeDanglingReference, name,
					"alias target %q is not a known option", def.Alias.Def))
			}
		}
		if def.Group != nil && def.Group.Def != "" {
			if id, ok := ids[def.Group.Def]; ok {
				opt.Group = id
			} else {
				errs = multierror.Append(errs, schemaErrorf(ErrorTypeDanglingReference, name,
					"group %q is not a known group", def.Group.Def))
			}
		}
		for _, f := range def.Flags {
			// Tool-specific tablegen flags (DriverOption, CLOption, ...)
			// carry no matching semantics and are skipped.
			if bit, ok := flagFromTablegen[f.Def]; ok {
				opt.Flags |= bit
			}
		}
		options = append(options, opt)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return New(options)
}

// tablegenDefNames extracts the ordered group and option def names,
// preferring the dump's !instanceof arrays and falling back to a
// superclass scan sorted by def name.
func tablegenDefNames(doc map[string]json.RawMessage) (groups, options []string, err error) {
	if raw, ok := doc["!instanceof"]; ok {
		var inst tablegenInstanceOf
		if err := json.Unmarshal(raw, &inst); err != nil {
			return nil, nil, &SchemaError{Type: ErrorTypeDecode, Message: "decoding !instanceof", Err: err}
		}
		if len(inst.Option) > 0 || len(inst.OptionGroup) > 0 {
			return inst.OptionGroup, inst.Option, nil
		}
	}

	for name, raw := range doc {
		if strings.HasPrefix(name, "!") {
			continue
		}
		var def struct {
			Superclasses []string `json:"!superclasses"`
		}
		if err := json.Unmarshal(raw, &def); err != nil {
			continue
		}
		for _, super := range def.Superclasses {
			switch super {
			case "OptionGroup":
				groups = append(groups, name)
			case "Option":
				options = append(options, name)
			}
		}
	}
	sort.Strings(groups)
	sort.Strings(options)
	return groups, options, nil
}

// yamlOption is one record of the hand-authored YAML schema form. List
// order is declaration order; alias and group references are by name.
type yamlOption struct {
	Name      string   `yaml:"name"`
	Prefixes  []string `yaml:"prefixes"`
	Kind      string   `yaml:"kind"`
	NumArgs   int      `yaml:"num_args"`
	Alias     string   `yaml:"alias"`
	AliasArgs []string `yaml:"alias_args"`
	Group     string   `yaml:"group"`
	Flags     []string `yaml:"flags"`
}

var kindFromYAML = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

var flagFromYAML = map[string]Flags{
	"help_hidden":      FlagHelpHidden,
	"case_insensitive": FlagCaseInsensitive,
	"render_joined":    FlagRenderJoined,
	"unsupported":      FlagUnsupported,
}

// ParseYAML builds a Table from a flat YAML option list.
func ParseYAML(r io.Reader) (*Table, error) {
	var records []yamlOption
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		return nil, &SchemaError{Type: ErrorTypeDecode, Message: "decoding YAML schema", Err: err}
	}

	ids := make(map[string]OptionID, len(records))
	for i, rec := range records {
		if _, dup := ids[rec.Name]; !dup {
			ids[rec.Name] = OptionID(i)
		}
	}

	var errs *multierror.Error
	options := make([]Option, 0, len(records))
	for _, rec := range records {
		opt := Option{
			Name:      rec.Name,
			Prefixes:  rec.Prefixes,
			NumArgs:   rec.NumArgs,
			Alias:     NoOption,
			AliasArgs: rec.AliasArgs,
			Group:     NoOption,
		}
		kind, ok := kindFromYAML[rec.Kind]
		if !ok {
			errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, rec.Name,
				"unrecognized kind %q", rec.Kind))
			continue
		}
		opt.Kind = kind

		if rec.Alias != "" {
			if id, ok := ids[rec.Alias]; ok {
				opt.Alias = id
			} else {
				errs = multierror.Append(errs, schemaErrorf(ErrorTypeDanglingReference, rec.Name,
					"alias target %q is not a known option", rec.Alias))
			}
		}
		if rec.Group != "" {
			if id, ok := ids[rec.Group]; ok {
				opt.Group = id
			} else {
				errs = multierror.Append(errs, schemaErrorf(ErrorTypeDanglingReference, rec.Name,
					"group %q is not a known group", rec.Group))
			}
		}
		for _, f := range rec.Flags {
			bit, ok := flagFromYAML[f]
			if !ok {
				errs = multierror.Append(errs, schemaErrorf(ErrorTypeBadRecord, rec.Name,
					"unrecognized flag %q", f))
				continue
			}
			opt.Flags |= bit
		}
		options = append(options, opt)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return New(options)
}

// LoadFile loads a schema document, dispatching on file extension:
// .json is treated as a tablegen dump, .yaml/.yml as the flat list form.
func LoadFile(path string) (*Table, error) {
	var parse func(io.Reader) (*Table, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parse = ParseTablegenJSON
	case ".yaml", ".yml":
		parse = ParseYAML
	default:
		return nil, fmt.Errorf("unrecognized schema format %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening schema: %w", err)
	}
	defer f.Close()
	return parse(f)
}
