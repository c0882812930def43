// Package errors defines the diagnostic errors produced by the taikocss
// extractor core. Every extraction failure carries a source position and a
// one-line hint, and renders through a single formatting path so that build
// output and editor overlays can print messages as-is.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind discriminates the extraction failure classes.
type Kind string

const (
	// KindDynamicValue marks a style value, template interpolation, or theme
	// arithmetic operand that is not statically resolvable.
	KindDynamicValue Kind = "dynamic_value"
	// KindUnknownThemePath marks a theme member chain that does not resolve
	// to a leaf in the supplied theme.
	KindUnknownThemePath Kind = "unknown_theme_path"
	// KindUnsupportedExpression marks ternaries, computed member access,
	// unsupported operators, and calls to anything other than container()
	// in a spread position.
	KindUnsupportedExpression Kind = "unsupported_expression"
	// KindBadSpread marks a spread of anything other than a recognized
	// container() call.
	KindBadSpread Kind = "bad_spread"
	// KindBadContainerCall marks a container() call with the wrong arity, a
	// non-literal argument, or a type outside the allowed set.
	KindBadContainerCall Kind = "bad_container_call"
	// KindForwardKeyframesReference marks a css() call referencing a
	// keyframes identifier that is defined later in the same source file.
	KindForwardKeyframesReference Kind = "forward_keyframes_reference"
	// KindInvalidCSS marks generated CSS the processor rejected. The
	// position is the start of the originating call expression, the finest
	// location available once lowering has run.
	KindInvalidCSS Kind = "invalid_css"
)

// Subsystem names the authoring primitive a diagnostic originates from. The
// value appears verbatim in the rendered message.
type Subsystem string

const (
	SubsystemCSS       Subsystem = "css()"
	SubsystemGlobalCSS Subsystem = "globalCss"
	SubsystemKeyframes Subsystem = "keyframes"
	SubsystemContainer Subsystem = "container()"
)

// ExtractError is the single error type surfaced by the extractor core. Line
// and column are 1-based, derived from the start span of the offending node.
type ExtractError struct {
	Kind      Kind
	Subsystem Subsystem
	File      string
	Line      int
	Col       int
	Reason    string
	Hint      string
}

// NewExtractError constructs an ExtractError. It is the only constructor the
// core uses; Error() is the only place the message format lives.
func NewExtractError(kind Kind, subsystem Subsystem, file string, line, col int, reason, hint string) error {
	return &ExtractError{
		Kind:      kind,
		Subsystem: subsystem,
		File:      file,
		Line:      line,
		Col:       col,
		Reason:    reason,
		Hint:      hint,
	}
}

// Error renders "<file>:<line>:<col>: <subsystem> — <reason>\nHint: <hint>".
// The message never carries a trailing newline.
func (e *ExtractError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s:%d:%d: %s — %s", e.File, e.Line, e.Col, e.Subsystem, e.Reason)
	if e.Hint != "" {
		msg += "\nHint: " + e.Hint
	}
	return msg
}

// Position reports the 1-based source location the diagnostic points at.
func (e *ExtractError) Position() (file string, line, col int) {
	if e == nil {
		return "", 0, 0
	}
	return e.File, e.Line, e.Col
}

// IsKind reports whether err is an ExtractError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ee *ExtractError
	if !stderrors.As(err, &ee) {
		return false
	}
	return ee.Kind == kind
}

// ParseError represents a failure to read or decode a project configuration
// or theme file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
