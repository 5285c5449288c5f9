package csexp

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Code classifies an Error.
type Code int

const (
	BadNetstringLength Code = iota + 1
	NetstringMissingColon
	TagNotClosed
	TagMissingTag
	TagMissingSymbol
	ListNotClosed
	QuoteNotClosed
	SymbolEscapeNotClosed
	InvalidCharacter
	TrailingGarbage
	NullInput
	TypeMismatch
	StorageMismatch
	AllocationFailure
	DepthExceeded
	IntegerOutOfRange
	CircularList
)

func (c Code) String() string {
	switch c {
	case BadNetstringLength:
		return "bad netstring length"
	case NetstringMissingColon:
		return "netstring missing colon"
	case TagNotClosed:
		return "tag not closed"
	case TagMissingTag:
		return "tag missing tag"
	case TagMissingSymbol:
		return "tag missing symbol"
	case ListNotClosed:
		return "list not closed"
	case QuoteNotClosed:
		return "quote not closed"
	case SymbolEscapeNotClosed:
		return "symbol escape not closed"
	case InvalidCharacter:
		return "invalid character"
	case TrailingGarbage:
		return "trailing garbage"
	case NullInput:
		return "null input"
	case TypeMismatch:
		return "type mismatch"
	case StorageMismatch:
		return "storage mismatch"
	case AllocationFailure:
		return "allocation failure"
	case DepthExceeded:
		return "nesting depth exceeded"
	case IntegerOutOfRange:
		return "integer out of range"
	case CircularList:
		return "circular list"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error is the single error type returned by this package.
//
// Reader errors carry the complete input and the byte offset of the failing
// character. Errors without a location have Offset -1.
type Error struct {
	Code   Code
	Input  string
	Offset int
	// Expected and Actual are set for TypeMismatch.
	Expected Kind
	Actual   Kind
	Detail   string
}

var _ participle.Error = (*Error)(nil)

// Sentinels for errors.Is. Any *Error with the same Code matches.
var (
	ErrBadNetstringLength    = &Error{Code: BadNetstringLength, Offset: -1}
	ErrNetstringMissingColon = &Error{Code: NetstringMissingColon, Offset: -1}
	ErrTagNotClosed          = &Error{Code: TagNotClosed, Offset: -1}
	ErrTagMissingTag         = &Error{Code: TagMissingTag, Offset: -1}
	ErrTagMissingSymbol      = &Error{Code: TagMissingSymbol, Offset: -1}
	ErrListNotClosed         = &Error{Code: ListNotClosed, Offset: -1}
	ErrQuoteNotClosed        = &Error{Code: QuoteNotClosed, Offset: -1}
	ErrSymbolEscapeNotClosed = &Error{Code: SymbolEscapeNotClosed, Offset: -1}
	ErrInvalidCharacter      = &Error{Code: InvalidCharacter, Offset: -1}
	ErrTrailingGarbage       = &Error{Code: TrailingGarbage, Offset: -1}
	ErrNullInput             = &Error{Code: NullInput, Offset: -1}
	ErrTypeMismatch          = &Error{Code: TypeMismatch, Offset: -1}
	ErrStorageMismatch       = &Error{Code: StorageMismatch, Offset: -1}
	ErrAllocationFailure     = &Error{Code: AllocationFailure, Offset: -1}
	ErrDepthExceeded         = &Error{Code: DepthExceeded, Offset: -1}
	ErrIntegerOutOfRange     = &Error{Code: IntegerOutOfRange, Offset: -1}
	ErrCircularList          = &Error{Code: CircularList, Offset: -1}
)

func errAt(code Code, input string, offset int, detail string) *Error {
	return &Error{Code: code, Input: input, Offset: offset, Detail: detail}
}

func newError(code Code, detail string) *Error {
	return &Error{Code: code, Offset: -1, Detail: detail}
}

func typeMismatch(expected, actual Kind) *Error {
	return &Error{Code: TypeMismatch, Offset: -1, Expected: expected, Actual: actual}
}

// Message returns the error text without position information.
func (e *Error) Message() string {
	msg := e.Code.String()
	if e.Code == TypeMismatch && e.Expected != e.Actual {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Position returns the 1-based line and column of the failing character.
// The zero Position is returned for errors without a location.
func (e *Error) Position() lexer.Position {
	if !e.located() {
		return lexer.Position{}
	}
	off := e.offset()
	line := 1 + strings.Count(e.Input[:off], "\n")
	col := off - (strings.LastIndexByte(e.Input[:off], '\n') + 1) + 1
	return lexer.Position{Offset: off, Line: line, Column: col}
}

func (e *Error) Error() string {
	if !e.located() {
		return "csexp: " + e.Message()
	}
	pos := e.Position()
	return fmt.Sprintf("csexp: %d:%d: %s", pos.Line, pos.Column, e.Message())
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Caret renders the input line holding the failure with a '^' under the
// failing character.
func (e *Error) Caret() string {
	if !e.located() {
		return e.Error()
	}
	off := e.offset()
	start := strings.LastIndexByte(e.Input[:off], '\n') + 1
	end := strings.IndexByte(e.Input[off:], '\n')
	if end < 0 {
		end = len(e.Input)
	} else {
		end += off
	}

	var pad strings.Builder
	for _, c := range []byte(e.Input[start:off]) {
		if c == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	return e.Input[start:end] + "\n" + pad.String() + "^"
}

func (e *Error) located() bool {
	return e.Offset >= 0
}

func (e *Error) offset() int {
	if e.Offset > len(e.Input) {
		return len(e.Input)
	}
	return e.Offset
}
