package llvmopt

import "fmt"

// ErrorType categorizes load-time schema faults. Parse-time problems are
// never errors: they are reported as records in the Result so a caller
// can surface every bad flag of an invocation in one pass.
type ErrorType string

const (
	ErrorTypeDecode            ErrorType = "decode"
	ErrorTypeBadRecord         ErrorType = "bad_record"
	ErrorTypeDanglingReference ErrorType = "dangling_reference"
	ErrorTypeAliasCycle        ErrorType = "alias_cycle"
	ErrorTypeGroupCycle        ErrorType = "group_cycle"
	ErrorTypeDuplicateSpelling ErrorType = "duplicate_spelling"
)

// SchemaError describes one fault detected while building a Table.
// Construction is atomic: when any SchemaError is produced, no table is
// returned. New collects every fault into a multierror so loaders can
// report all of them at once.
type SchemaError struct {
	Type    ErrorType
	Option  string // canonical name or schema def name, when known
	Message string
	Err     error // underlying decode error, if any
}

func (e *SchemaError) Error() string {
	switch {
	case e.Option != "" && e.Err != nil:
		return fmt.Sprintf("schema: %s: option %q: %s: %v", e.Type, e.Option, e.Message, e.Err)
	case e.Option != "":
		return fmt.Sprintf("schema: %s: option %q: %s", e.Type, e.Option, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("schema: %s: %s: %v", e.Type, e.Message, e.Err)
	default:
		return fmt.Sprintf("schema: %s: %s", e.Type, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

func schemaErrorf(typ ErrorType, option, format string, args ...any) *SchemaError {
	return &SchemaError{
		Type:    typ,
		Option:  option,
		Message: fmt.Sprintf(format, args...),
	}
}
