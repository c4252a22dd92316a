package psplib

import "fmt"

// ParseError reports an instance file that could not be read or decoded.
type ParseError struct {
	Path string // empty when parsing from a reader
	Line int    // 1-based, 0 when not tied to a line
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("psplib: %s: %s: %v", loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("psplib: %s: %s", loc, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }
