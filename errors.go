package gomodel

import (
	"errors"
	"strings"

	"github.com/reoring/gomodel/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Schema declaration, raised once at compile time.
	CodeMissingSchema      = "missing_schema"
	CodeReservedPrimaryKey = "reserved_primary_key"
	CodeConflictingOptions = "conflicting_options"
	CodeInvalidValidator   = "invalid_validator"
	CodeInvalidOption      = "invalid_option"
	CodeInvalidSchema      = "invalid_schema"
	CodeUnknownType        = "unknown_type"

	// Structural, raised before coercion.
	CodeUnknownKey = "unknown_key"
	CodeInvalidKey = "invalid_key"

	// Field coercion, raised by Descriptor.Prepare.
	CodeInvalidNumber     = "invalid_number"
	CodeInvalidString     = "invalid_string"
	CodeInvalidBoolean    = "invalid_boolean"
	CodeInvalidDate       = "invalid_date"
	CodeInvalidArray      = "invalid_array"
	CodeInvalidObject     = "invalid_object"
	CodeInvalidModel      = "invalid_model"
	CodeInvalidCollection = "invalid_collection"

	// Field validation, raised by the mutation pipeline.
	CodeInvalidValue = "invalid_value"
	CodeRequired     = "required"
	CodeConst        = "const"
	CodeNotUnique    = "not_unique"

	// Graph, raised by JSON projection only.
	CodeCircular = "circular"

	// Message templates that share a code.
	msgInvalidObjectEntry = "invalid_object_entry"

	// Container access.
	CodeIndexOutOfRange = "index_out_of_range"

	// Entity-level rules (package rules).
	CodeTooShort   = "too_short"
	CodeRuleFailed = "rule_failed"
)

// Issue is a named, caller-visible failure. Nested failures (an array
// element, a map entry, a field of a nested entity) are wrapped: the outer
// Issue names the outer field and embeds the inner message, and Cause keeps
// the inner Issue reachable through errors.Unwrap.
type Issue struct {
	Code    string
	Path    string // JSON Pointer relative to the entity being mutated (for example /managers/0/name).
	Key     string // Field, key or index the Issue was raised for.
	Message string
	// Params carries the structured values used to render Message.
	Params map[string]any
	Cause  error
}

func (i *Issue) Error() string { return i.Message }

// Unwrap returns the inner failure.
func (i *Issue) Unwrap() error { return i.Cause }

// Is matches sentinel issues (issues without a message) by code, so
// errors.Is(err, gomodel.ErrRequired) works at any depth of the chain.
func (i *Issue) Is(target error) bool {
	t, ok := target.(*Issue)
	if !ok || t.Message != "" {
		return false
	}
	return t.Code == i.Code
}

// Sentinels for errors.Is.
var (
	ErrMissingSchema      = &Issue{Code: CodeMissingSchema}
	ErrReservedPrimaryKey = &Issue{Code: CodeReservedPrimaryKey}
	ErrConflictingOptions = &Issue{Code: CodeConflictingOptions}
	ErrInvalidValidator   = &Issue{Code: CodeInvalidValidator}
	ErrInvalidOption      = &Issue{Code: CodeInvalidOption}
	ErrInvalidSchema      = &Issue{Code: CodeInvalidSchema}
	ErrUnknownType        = &Issue{Code: CodeUnknownType}
	ErrUnknownKey         = &Issue{Code: CodeUnknownKey}
	ErrInvalidKey         = &Issue{Code: CodeInvalidKey}
	ErrInvalidNumber      = &Issue{Code: CodeInvalidNumber}
	ErrInvalidString      = &Issue{Code: CodeInvalidString}
	ErrInvalidBoolean     = &Issue{Code: CodeInvalidBoolean}
	ErrInvalidDate        = &Issue{Code: CodeInvalidDate}
	ErrInvalidArray       = &Issue{Code: CodeInvalidArray}
	ErrInvalidObject      = &Issue{Code: CodeInvalidObject}
	ErrInvalidModel       = &Issue{Code: CodeInvalidModel}
	ErrInvalidCollection  = &Issue{Code: CodeInvalidCollection}
	ErrInvalidValue       = &Issue{Code: CodeInvalidValue}
	ErrRequired           = &Issue{Code: CodeRequired}
	ErrConst              = &Issue{Code: CodeConst}
	ErrNotUnique          = &Issue{Code: CodeNotUnique}
	ErrCircular           = &Issue{Code: CodeCircular}
	ErrIndexOutOfRange    = &Issue{Code: CodeIndexOutOfRange}
	ErrTooShort           = &Issue{Code: CodeTooShort}
	ErrRuleFailed         = &Issue{Code: CodeRuleFailed}
)

// AsIssue extracts the outermost Issue from an error using errors.As internally.
func AsIssue(err error) (*Issue, bool) {
	if err == nil {
		return nil, false
	}
	var iss *Issue
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// RootCause walks the Cause chain and returns the innermost Issue.
func RootCause(err error) *Issue {
	iss, ok := AsIssue(err)
	if !ok {
		return nil
	}
	for {
		inner, ok := AsIssue(iss.Cause)
		if !ok {
			return iss
		}
		iss = inner
	}
}

// NewIssue builds an Issue for code with its message rendered through i18n.
// key names the field; params fill the message placeholders.
func NewIssue(code, key string, params map[string]string) *Issue {
	return newIssue(code, key, params)
}

// newIssue renders the message for code through i18n and records key as
// the Issue path.
func newIssue(code, key string, params map[string]string) *Issue {
	return newIssueMessage(code, code, key, params)
}

// newIssueMessage is newIssue with the message template chosen separately
// from the code, for codes that have more than one wording.
func newIssueMessage(code, message, key string, params map[string]string) *Issue {
	data := map[string]string{"key": key}
	for k, v := range params {
		data[k] = v
	}
	p := make(map[string]any, len(data))
	for k, v := range data {
		p[k] = v
	}
	iss := &Issue{Code: code, Key: key, Message: i18n.T(message, data), Params: p}
	if key != "" {
		iss.Path = pointer(key)
	}
	return iss
}

// valueIssue is the common shape of coercion failures: "<code> for <key>: <value>".
func valueIssue(code, key string, value any, params map[string]string) *Issue {
	return valueIssueMessage(code, code, key, value, params)
}

// valueIssueMessage is valueIssue with a separate message template.
func valueIssueMessage(code, message, key string, value any, params map[string]string) *Issue {
	data := map[string]string{"value": Render(value)}
	for k, v := range params {
		data[k] = v
	}
	iss := newIssueMessage(code, message, key, data)
	iss.Params["invalid"] = value
	return iss
}

// wrapIssue nests cause under an outer issue: the outer message gets the
// inner message appended and the path is extended with the inner path.
func wrapIssue(outer *Issue, cause error) *Issue {
	if cause == nil {
		return outer
	}
	outer.Message += ",\n " + cause.Error()
	outer.Cause = cause
	if inner, ok := cause.(*Issue); ok && inner.Path != "" {
		outer.Path = strings.TrimSuffix(outer.Path, "/") + inner.Path
	}
	return outer
}

// pointer renders a single-segment JSON Pointer per RFC6901.
func pointer(key string) string {
	return "/" + strings.ReplaceAll(strings.ReplaceAll(key, "~", "~0"), "/", "~1")
}
