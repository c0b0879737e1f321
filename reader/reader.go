package reader

import (
	"strconv"
	"strings"

	"github.com/organix/kernel-abe64/heap"
)

// delimiters are the characters that terminate a symbol token without
// being consumable as part of it (§6 of the reader surface note).
const delimiters = "();'`,[]{}|"

// Reader turns one CharSource into a stream of heap.Value data, one
// Read call per datum. It is the Go-native rendition of the original
// kernel.c single-function `read` routine, split out the way the
// teacher splits BaseParser's primitives (Peek/Any/ExpectRune) from
// its higher-level grammar.
type Reader struct {
	h   *heap.Heap
	src CharSource
}

func New(h *heap.Heap, src CharSource) *Reader {
	return &Reader{h: h, src: src}
}

// Read parses and returns the next datum from the source. At true
// end-of-input it returns the reserved #eof singleton with a nil
// error — callers loop `for { v, err := r.Read(); ... }` checking
// heap.Eq(v, h.EOF()) to stop, exactly as the REPL does.
func (r *Reader) Read() (heap.Value, error) {
	r.skipAtmosphere()
	c := r.src.Peek()
	switch {
	case c == eof:
		return r.h.EOF(), nil
	case c == '(':
		r.src.Next()
		return r.readList()
	case c == ')':
		return heap.Value{}, newReadError(r.src, "unexpected `)`")
	case c == '\'':
		return r.readCharLiteral()
	case c == '"':
		return heap.Value{}, newReadError(r.src, "string literals are not part of the external representation")
	case isdigitRune(c), (c == '+' || c == '-') && isdigitRune(r.peekSecond()):
		return r.readNumber()
	default:
		return r.readSymbol()
	}
}

// peekSecond looks one rune past the current one without consuming
// anything. CharSource only offers a one-rune Peek, so this reads the
// rune slice behind a StringSource or FileSource directly; any other
// CharSource reports eof here.
func (r *Reader) peekSecond() rune {
	switch s := r.src.(type) {
	case *StringSource:
		if s.cursor+1 >= len(s.runes) {
			return eof
		}
		return s.runes[s.cursor+1]
	case *FileSource:
		if s.cursor+1 >= len(s.runes) {
			return eof
		}
		return s.runes[s.cursor+1]
	default:
		return eof
	}
}

func (r *Reader) skipAtmosphere() {
	for {
		c := r.src.Peek()
		if c == ';' {
			for c != '\n' && c != eof {
				r.src.Next()
				c = r.src.Peek()
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			r.src.Next()
			continue
		}
		return
	}
}

func (r *Reader) readList() (heap.Value, error) {
	r.skipAtmosphere()
	if r.src.Peek() == ')' {
		r.src.Next()
		return r.h.Nil(), nil
	}
	head, err := r.Read()
	if err != nil {
		return heap.Value{}, err
	}
	r.skipAtmosphere()
	if r.src.Peek() == '.' && isDelimiterOrSpace(r.peekSecond()) {
		r.src.Next()
		tail, err := r.Read()
		if err != nil {
			return heap.Value{}, err
		}
		r.skipAtmosphere()
		if r.src.Peek() != ')' {
			return heap.Value{}, newReadError(r.src, "malformed dotted list: expected `)` after tail")
		}
		r.src.Next()
		return r.h.Cons(head, tail), nil
	}
	rest, err := r.readList()
	if err != nil {
		return heap.Value{}, err
	}
	return r.h.Cons(head, rest), nil
}

func (r *Reader) readCharLiteral() (heap.Value, error) {
	r.src.Next() // consume opening '
	c := r.src.Peek()
	if c == eof {
		return heap.Value{}, newReadError(r.src, "unterminated character literal")
	}
	r.src.Next()
	var value rune
	if c == '\\' {
		esc := r.src.Peek()
		switch esc {
		case '\\', '\'', '"':
			value = esc
		case 'r':
			value = '\r'
		case 'n':
			value = '\n'
		case 't':
			value = '\t'
		case 'b':
			value = '\b'
		default:
			return heap.Value{}, newReadError(r.src, "unrecognized character escape `\\%c`", esc)
		}
		r.src.Next()
	} else if c == '\'' {
		return heap.Value{}, newReadError(r.src, "empty character literal")
	} else {
		value = c
	}
	if r.src.Peek() != '\'' {
		return heap.Value{}, newReadError(r.src, "malformed character literal: expected closing `'`")
	}
	r.src.Next()
	return heap.NewInt(int64(value)), nil
}

func (r *Reader) readNumber() (heap.Value, error) {
	var sb strings.Builder
	c := r.src.Peek()
	if c == '+' || c == '-' {
		sb.WriteRune(c)
		r.src.Next()
		c = r.src.Peek()
	}
	if !isdigitRune(c) {
		return heap.Value{}, newReadError(r.src, "malformed number")
	}
	for isdigitRune(r.src.Peek()) {
		sb.WriteRune(r.src.Peek())
		r.src.Next()
	}
	if !isDelimiterOrSpace(r.src.Peek()) {
		return heap.Value{}, newReadError(r.src, "malformed number: unexpected trailing `%c`", r.src.Peek())
	}
	n, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return heap.Value{}, newReadError(r.src, "malformed number: %v", err)
	}
	return heap.NewInt(n), nil
}

func (r *Reader) readSymbol() (heap.Value, error) {
	var sb strings.Builder
	for {
		c := r.src.Peek()
		if isDelimiterOrSpace(c) {
			break
		}
		sb.WriteRune(c)
		r.src.Next()
	}
	token := strings.ToLower(sb.String())
	if token == "" {
		return heap.Value{}, newReadError(r.src, "unexpected `%c`", r.src.Peek())
	}
	switch token {
	case "#t":
		return r.h.True(), nil
	case "#f":
		return r.h.False(), nil
	case "#inert":
		return r.h.Inert(), nil
	case "#ignore":
		return r.h.Ignore(), nil
	}
	return r.h.Intern(token), nil
}

func isdigitRune(c rune) bool { return c >= '0' && c <= '9' }

func isDelimiterOrSpace(c rune) bool {
	if c == eof || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
		return true
	}
	return strings.ContainsRune(delimiters, c)
}
