package patch

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Format identifies which diff dialect a parse error occurred in.
type Format int8

const (
	// FormatUnified identifies the unified diff dialect.
	FormatUnified Format = iota
	// FormatContext identifies the context diff dialect.
	FormatContext
	// FormatGitBinary identifies the git binary-patch dialect.
	FormatGitBinary
)

func (f Format) String() string {
	switch f {
	case FormatUnified:
		return "unified"
	case FormatContext:
		return "context"
	case FormatGitBinary:
		return "git binary"
	default:
		return "unknown"
	}
}

// ParseError is the tagged error model of the core (§7): every variant
// carries enough to locate the offending line and identify the format in
// which the failure occurred.
type ParseError struct {
	kind   string
	format Format
	line   int
	detail string
	err    error
}

func (e *ParseError) Error() string {
	switch e.kind {
	case "MissingAfterFileData":
		return fmt.Sprintf("patch: missing '+++' line after '---' at line %d", e.line)
	case "ParseNumberError":
		return fmt.Sprintf("patch: invalid number at line %d: %v", e.line, e.err)
	case "UnexpectedEndOfInput":
		return "patch: unexpected end of input"
	case "UnexpectedEndHunk":
		return fmt.Sprintf("patch: unexpected end of %s hunk at line %d", e.format, e.line)
	case "UnexpectedInput":
		return fmt.Sprintf("patch: unexpected input in %s diff: %s", e.format, e.detail)
	case "SyntaxError":
		return fmt.Sprintf("patch: syntax error in %s diff at line %d", e.format, e.line)
	case "Base85Error":
		return fmt.Sprintf("patch: base85 decode error: %s", e.detail)
	case "ZLibInflateError":
		return fmt.Sprintf("patch: zlib inflate error: %s", e.detail)
	case "GitDeltaError":
		return fmt.Sprintf("patch: git delta error: %v", e.err)
	case "IOError":
		return fmt.Sprintf("patch: io error: %v", e.err)
	default:
		return "patch: parse error"
	}
}

func (e *ParseError) Unwrap() error { return e.err }

// Line returns the 1-based line at which the error was detected, when the
// variant carries one.
func (e *ParseError) Line() int { return e.line }

// Format returns the diff dialect in which the error occurred, when the
// variant carries one.
func (e *ParseError) Format() Format { return e.format }

func errMissingAfterFileData(line int) error {
	return &ParseError{kind: "MissingAfterFileData", line: line}
}

func errParseNumber(line int, err error) error {
	return &ParseError{kind: "ParseNumberError", line: line, err: err}
}

func errUnexpectedEndOfInput() error {
	return &ParseError{kind: "UnexpectedEndOfInput"}
}

func errUnexpectedEndHunk(format Format, line int) error {
	return &ParseError{kind: "UnexpectedEndHunk", format: format, line: line}
}

func errUnexpectedInput(format Format, detail string) error {
	return &ParseError{kind: "UnexpectedInput", format: format, detail: detail}
}

func errSyntax(format Format, line int) error {
	return &ParseError{kind: "SyntaxError", format: format, line: line}
}

func errBase85(detail string) error {
	return &ParseError{kind: "Base85Error", detail: detail}
}

func errZlibInflate(detail string) error {
	return &ParseError{kind: "ZLibInflateError", detail: detail}
}

func errGitDelta(err error) error {
	return &ParseError{kind: "GitDeltaError", err: err}
}

func errIO(err error) error {
	return &ParseError{kind: "IOError", err: err}
}

// IsSyntaxError reports whether err is a SyntaxError variant.
func IsSyntaxError(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.kind == "SyntaxError"
}

// IsUnexpectedEndOfInput reports whether err is the UnexpectedEndOfInput
// variant.
func IsUnexpectedEndOfInput(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.kind == "UnexpectedEndOfInput"
}

// tracef logs a diagnostic at the call site and returns a plain error
// carrying the formatted message, mirroring modules/trace's Errorf.
func tracef(format string, a ...any) error {
	pc, _, line, ok := runtime.Caller(1)
	fn := "?"
	if ok {
		if f := runtime.FuncForPC(pc); f != nil {
			fn = f.Name()
		}
	}
	msg := fmt.Sprintf(format, a...)
	logrus.Debugf("%s:%d %s", fn, line, msg)
	return fmt.Errorf("%s", msg)
}
