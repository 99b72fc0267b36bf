package diag

import (
	"errors"
	"fmt"

	"tide/internal/source"
)

// CodegenError is returned by transform passes and the generator when a construct
// cannot be lowered. It aborts generation of the current file only.
type CodegenError struct {
	Code Code
	Span source.Span
	Msg  string
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
}

// Diagnostic converts the error into an error-severity diagnostic.
func (e *CodegenError) Diagnostic() Diagnostic {
	return NewError(e.Code, e.Span, e.Msg)
}

// Codegenf builds a CodegenError with a formatted message.
func Codegenf(code Code, span source.Span, format string, args ...any) *CodegenError {
	return &CodegenError{Code: code, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// AsCodegen unwraps err into a CodegenError if it is one.
func AsCodegen(err error) (*CodegenError, bool) {
	var ce *CodegenError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ReportErr sends err to r: codegen errors keep their code and span, anything else
// becomes an UnknownCode error at span.
func ReportErr(r Reporter, span source.Span, err error) {
	if r == nil || err == nil {
		return
	}
	if ce, ok := AsCodegen(err); ok {
		r.Report(ce.Code, SevError, ce.Span, ce.Msg, nil)
		return
	}
	r.Report(UnknownCode, SevError, span, err.Error(), nil)
}
