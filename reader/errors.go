package reader

import "fmt"

// ReadError is the error returned when the character stream cannot be
// parsed as a well-formed external representation, following the
// teacher's ParsingError{Message, Span} shape.
type ReadError struct {
	Message string
	Source  string
	Loc     Location
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s @ %s:%d:%d", e.Message, e.Source, e.Loc.Line, e.Loc.Column)
}

func newReadError(src CharSource, format string, args ...any) *ReadError {
	return &ReadError{Message: fmt.Sprintf(format, args...), Source: src.Name(), Loc: src.Loc()}
}
