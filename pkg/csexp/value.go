package csexp

import (
	"strconv"
	"strings"
)

// Sexp is a node of the tree representation. The set of implementations is
// closed: Nil, *Cons, Symbol, String, Integer and *Tagged.
type Sexp interface {
	Kind() Kind
	// String returns the canonical text, or a marked error if the node
	// cannot be printed.
	String() string
	sexp()
}

type nilValue struct{}

// Nil is the empty list.
var Nil Sexp = nilValue{}

func (nilValue) Kind() Kind     { return KindNil }
func (nilValue) String() string { return "()" }
func (nilValue) sexp()          {}

// Cons is a pair. Lists are chains of conses whose last cdr is Nil.
// The zero Cons reads as a pair of Nils, i.e. the list (()).
type Cons struct {
	car Sexp
	cdr Sexp
}

func (c *Cons) first() Sexp {
	if c.car == nil {
		return Nil
	}
	return c.car
}

func (c *Cons) rest() Sexp {
	if c.cdr == nil {
		return Nil
	}
	return c.cdr
}

// NewCons returns a fresh pair. Neither argument may be a nil interface.
func NewCons(car, cdr Sexp) (*Cons, error) {
	if car == nil || cdr == nil {
		return nil, newError(NullInput, "cons of a nil interface")
	}
	return &Cons{car: car, cdr: cdr}, nil
}

func (c *Cons) Kind() Kind     { return KindCons }
func (c *Cons) String() string { return display(c) }
func (c *Cons) sexp()          {}

// Symbol is an identifier. Comparison through Is ignores case.
type Symbol string

// NewSymbol returns name as a symbol. The name is kept as given; only the
// reader folds bare symbols to upper case.
func NewSymbol(name string) Symbol { return Symbol(name) }

func (s Symbol) Kind() Kind { return KindSymbol }
func (s Symbol) String() string {
	return string(appendSymbol(nil, string(s)))
}
func (s Symbol) sexp() {}

// Is reports whether s names the same symbol as name, ignoring case.
func (s Symbol) Is(name string) bool {
	return strings.EqualFold(string(s), name)
}

// String is a quoted string atom.
type String string

func NewString(s string) String { return String(s) }

func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return `"` + string(s) + `"` }
func (s String) sexp()          {}

// Integer is a 32-bit signed integer atom.
type Integer int32

func NewInteger(v int32) Integer { return Integer(v) }

func (i Integer) Kind() Kind     { return KindInteger }
func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Integer) sexp()          {}

// Tagged is a [tag]atom pair.
type Tagged struct {
	tag  Symbol
	atom Sexp
}

// NewTagged pairs a non-empty symbol tag with a symbol or string atom.
func NewTagged(tag Symbol, atom Sexp) (*Tagged, error) {
	if tag == "" {
		return nil, newError(TagMissingTag, "empty tag")
	}
	if atom == nil {
		return nil, newError(NullInput, "tagged atom of a nil interface")
	}
	switch atom.(type) {
	case Symbol, String:
	default:
		return nil, &Error{Code: TagMissingSymbol, Offset: -1, Detail: "atom is a " + atom.Kind().String()}
	}
	return &Tagged{tag: tag, atom: atom}, nil
}

func (t *Tagged) Kind() Kind     { return KindTagged }
func (t *Tagged) String() string { return display(t) }
func (t *Tagged) sexp()          {}

// Tag returns the tag symbol.
func (t *Tagged) Tag() Symbol { return t.tag }

// Atom returns the tagged value, a Symbol or a String.
func (t *Tagged) Atom() Sexp { return t.atom }

// IsNil reports whether s is the empty list or the symbol NIL in any case.
// A nil interface is not the empty list.
func IsNil(s Sexp) bool {
	switch v := s.(type) {
	case nilValue:
		return true
	case Symbol:
		return v.Is("nil")
	}
	return false
}

// Equal reports whether a and b have the same structure and atoms. Symbols
// compare case-insensitively and every nil form equals every other. Equal does
// not terminate on structures made circular through SetCar.
func Equal(a, b Sexp) bool {
	for {
		if a == nil || b == nil {
			return a == b
		}
		if IsNil(a) || IsNil(b) {
			return IsNil(a) && IsNil(b)
		}
		switch x := a.(type) {
		case *Cons:
			y, ok := b.(*Cons)
			if !ok {
				return false
			}
			if x == y {
				return true
			}
			if !Equal(x.first(), y.first()) {
				return false
			}
			a, b = x.rest(), y.rest()
			continue
		case Symbol:
			y, ok := b.(Symbol)
			return ok && x.Is(string(y))
		case String:
			y, ok := b.(String)
			return ok && x == y
		case Integer:
			y, ok := b.(Integer)
			return ok && x == y
		case *Tagged:
			y, ok := b.(*Tagged)
			return ok && x.tag.Is(string(y.tag)) && Equal(x.atom, y.atom)
		}
		return false
	}
}

func display(s Sexp) string {
	text, err := Serialize(s)
	if err != nil {
		return "!!(" + err.Error() + ")!!"
	}
	return text
}
