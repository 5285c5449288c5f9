package csexp

import (
	"errors"
	"strings"

	"github.com/ethanxxxl/ProgrammableTanks2-sub000/internal/vec"
)

// Ref addresses a node inside a *Linear arena. Refs stay valid across arena
// growth but mean nothing to any other arena.
type Ref int32

// NilRef is the empty list of every arena.
const NilRef Ref = 0

// cell is one arena slot. For conses a and b are the car and cdr refs, for
// symbols and strings they are the payload offset and length, for integers a
// is the value, and for tagged atoms they are the tag and atom refs.
type cell struct {
	kind Kind
	a, b int32
}

// Linear is a document whose nodes all live in a single arena. The *Linear is
// the only handle ever given out. Nodes are reached through Ref values; no
// method returns a pointer into the arena.
type Linear struct {
	cells *vec.Vec[cell]
	bytes *vec.Vec[byte]
	root  Ref
}

// NewLinear returns an empty arena whose root is nil.
func NewLinear() *Linear {
	l := &Linear{
		cells: vec.New[cell](16),
		bytes: vec.New[byte](64),
	}
	l.cells.Push(cell{kind: KindNil})
	return l
}

// Reset drops every node and sets the root back to nil.
func (l *Linear) Reset() {
	l.cells.Truncate(1)
	l.bytes.Truncate(0)
	l.root = NilRef
}

// Root returns the document's top-level node.
func (l *Linear) Root() Ref { return l.root }

// SetRoot makes r the document's top-level node.
func (l *Linear) SetRoot(r Ref) error {
	if err := l.check(r); err != nil {
		return err
	}
	l.root = r
	return nil
}

// Cells returns the number of allocated nodes, including the nil node.
func (l *Linear) Cells() int { return l.cells.Len() }

func (l *Linear) check(r Ref) error {
	if r < 0 || int(r) >= l.cells.Len() {
		return newError(NullInput, "reference outside the arena")
	}
	return nil
}

func (l *Linear) at(r Ref) cell { return l.cells.At(int(r)) }

func (l *Linear) alloc(c cell) (Ref, error) {
	idx, err := l.cells.Push(c)
	if err != nil {
		return NilRef, allocErr(err)
	}
	return Ref(idx), nil
}

func (l *Linear) addText(s string) (int32, error) {
	if len(s) > vec.MaxLen {
		return 0, newError(AllocationFailure, "payload too large")
	}
	off, err := l.bytes.Extend([]byte(s))
	if err != nil {
		return 0, allocErr(err)
	}
	return int32(off), nil
}

func allocErr(err error) error {
	if errors.Is(err, vec.ErrCapacity) {
		return newError(AllocationFailure, err.Error())
	}
	return err
}

func (l *Linear) text(c cell) string {
	return string(l.bytes.Slice(int(c.a), int(c.a)+int(c.b)))
}

// mark and rollback bracket a group of allocations that must vanish
// together on failure.
type mark struct{ cells, bytes int }

func (l *Linear) mark() mark { return mark{l.cells.Len(), l.bytes.Len()} }

func (l *Linear) rollback(m mark) {
	l.cells.Truncate(m.cells)
	l.bytes.Truncate(m.bytes)
}

// NewCons allocates a pair.
func (l *Linear) NewCons(car, cdr Ref) (Ref, error) {
	if err := l.check(car); err != nil {
		return NilRef, err
	}
	if err := l.check(cdr); err != nil {
		return NilRef, err
	}
	return l.alloc(cell{kind: KindCons, a: int32(car), b: int32(cdr)})
}

// NewSymbol allocates a symbol holding name verbatim.
func (l *Linear) NewSymbol(name string) (Ref, error) {
	return l.newText(KindSymbol, name)
}

// NewString allocates a string atom.
func (l *Linear) NewString(s string) (Ref, error) {
	return l.newText(KindString, s)
}

func (l *Linear) newText(kind Kind, s string) (Ref, error) {
	m := l.mark()
	off, err := l.addText(s)
	if err != nil {
		return NilRef, err
	}
	r, err := l.alloc(cell{kind: kind, a: off, b: int32(len(s))})
	if err != nil {
		l.rollback(m)
		return NilRef, err
	}
	return r, nil
}

// NewInteger allocates an integer atom.
func (l *Linear) NewInteger(v int32) (Ref, error) {
	return l.alloc(cell{kind: KindInteger, a: v})
}

// NewTagged allocates a [tag]atom pair. tag must be a non-empty symbol and
// atom a symbol or string.
func (l *Linear) NewTagged(tag, atom Ref) (Ref, error) {
	if err := l.check(tag); err != nil {
		return NilRef, err
	}
	if err := l.check(atom); err != nil {
		return NilRef, err
	}
	t := l.at(tag)
	if t.kind != KindSymbol || t.b == 0 {
		return NilRef, newError(TagMissingTag, "tag is not a non-empty symbol")
	}
	if k := l.at(atom).kind; k != KindSymbol && k != KindString {
		return NilRef, newError(TagMissingSymbol, "atom is a "+k.String())
	}
	return l.alloc(cell{kind: KindTagged, a: int32(tag), b: int32(atom)})
}

// Kind returns the variant of r.
func (l *Linear) Kind(r Ref) (Kind, error) {
	if err := l.check(r); err != nil {
		return KindNil, err
	}
	return l.at(r).kind, nil
}

// IsNil reports whether r is the empty list or the symbol NIL in any case.
// An invalid reference is not nil.
func (l *Linear) IsNil(r Ref) bool {
	if l.check(r) != nil {
		return false
	}
	c := l.at(r)
	switch c.kind {
	case KindNil:
		return true
	case KindSymbol:
		return c.b == 3 && strings.EqualFold(l.text(c), "nil")
	}
	return false
}

// SymbolName returns the bytes of a symbol.
func (l *Linear) SymbolName(r Ref) (string, error) {
	return l.textOf(r, KindSymbol)
}

// StringValue returns the contents of a string atom.
func (l *Linear) StringValue(r Ref) (string, error) {
	return l.textOf(r, KindString)
}

func (l *Linear) textOf(r Ref, kind Kind) (string, error) {
	if err := l.check(r); err != nil {
		return "", err
	}
	c := l.at(r)
	if c.kind != kind {
		return "", typeMismatch(kind, c.kind)
	}
	return l.text(c), nil
}

// Int returns the value of an integer atom.
func (l *Linear) Int(r Ref) (int32, error) {
	if err := l.check(r); err != nil {
		return 0, err
	}
	c := l.at(r)
	if c.kind != KindInteger {
		return 0, typeMismatch(KindInteger, c.kind)
	}
	return c.a, nil
}

// TagParts returns the tag and atom of a tagged atom.
func (l *Linear) TagParts(r Ref) (tag, atom Ref, err error) {
	if err := l.check(r); err != nil {
		return NilRef, NilRef, err
	}
	c := l.at(r)
	if c.kind != KindTagged {
		return NilRef, NilRef, typeMismatch(KindTagged, c.kind)
	}
	return Ref(c.a), Ref(c.b), nil
}

// Car returns the first element of a list. The car of nil is nil.
func (l *Linear) Car(r Ref) (Ref, error) {
	c, err := l.pair(r)
	if err != nil {
		return NilRef, err
	}
	return Ref(c.a), nil
}

// Cdr returns the rest of a list. The cdr of nil is nil.
func (l *Linear) Cdr(r Ref) (Ref, error) {
	c, err := l.pair(r)
	if err != nil {
		return NilRef, err
	}
	return Ref(c.b), nil
}

// pair resolves r as a cons, reading nil as a cons of nils.
func (l *Linear) pair(r Ref) (cell, error) {
	if err := l.check(r); err != nil {
		return cell{}, err
	}
	c := l.at(r)
	if c.kind == KindCons {
		return c, nil
	}
	if l.IsNil(r) {
		return cell{kind: KindCons}, nil
	}
	return cell{}, typeMismatch(KindCons, c.kind)
}

// SetCar replaces the car of the cons r.
func (l *Linear) SetCar(r, v Ref) error {
	return l.set(r, v, true)
}

// SetCdr replaces the cdr of the cons r.
func (l *Linear) SetCdr(r, v Ref) error {
	return l.set(r, v, false)
}

func (l *Linear) set(r, v Ref, car bool) error {
	if err := l.check(r); err != nil {
		return err
	}
	if err := l.check(v); err != nil {
		return err
	}
	c := l.at(r)
	if c.kind != KindCons {
		return typeMismatch(KindCons, c.kind)
	}
	if car {
		c.a = int32(v)
	} else {
		c.b = int32(v)
	}
	l.cells.Set(int(r), c)
	return nil
}

// Nth returns the element at index n, or NilRef when the list is shorter.
func (l *Linear) Nth(list Ref, n int) (Ref, error) {
	if err := l.check(list); err != nil {
		return NilRef, err
	}
	if n < 0 {
		return NilRef, nil
	}
	cur := list
	for i := 0; i < n; i++ {
		if l.IsNil(cur) {
			return NilRef, nil
		}
		c := l.at(cur)
		if c.kind != KindCons {
			return NilRef, typeMismatch(KindCons, c.kind)
		}
		cur = Ref(c.b)
	}
	return l.Car(cur)
}

// Length counts the conses of a proper list.
func (l *Linear) Length(list Ref) (int, error) {
	if err := l.check(list); err != nil {
		return 0, err
	}
	n := 0
	slow, fast := list, list
	for {
		if l.IsNil(fast) {
			return n, nil
		}
		c := l.at(fast)
		if c.kind != KindCons {
			return 0, typeMismatch(KindCons, c.kind)
		}
		fast = Ref(c.b)
		n++
		if n%2 == 0 {
			slow = Ref(l.at(slow).b)
			if slow == fast {
				return 0, newError(CircularList, "")
			}
		}
	}
}

func (l *Linear) lastCons(list Ref) (Ref, error) {
	if _, err := l.Length(list); err != nil {
		return NilRef, err
	}
	cur := list
	for {
		next := Ref(l.at(cur).b)
		if l.at(next).kind != KindCons {
			return cur, nil
		}
		cur = next
	}
}

// Append adds item to the end of list and returns the head of the result.
// Appending to nil allocates a new list.
func (l *Linear) Append(list, item Ref) (Ref, error) {
	if err := l.check(list); err != nil {
		return NilRef, err
	}
	if err := l.check(item); err != nil {
		return NilRef, err
	}
	if !l.IsNil(list) && l.at(list).kind != KindCons {
		return NilRef, typeMismatch(KindCons, l.at(list).kind)
	}
	var last Ref
	if !l.IsNil(list) {
		var err error
		if last, err = l.lastCons(list); err != nil {
			return NilRef, err
		}
	}
	c, err := l.NewCons(item, NilRef)
	if err != nil {
		return NilRef, err
	}
	if l.IsNil(list) {
		return c, nil
	}
	return list, l.SetCdr(last, c)
}

// Push is Append.
func (l *Linear) Push(list, item Ref) (Ref, error) {
	return l.Append(list, item)
}

// Concat destructively links tail onto the end of list. A tail sharing cells
// with list is a CircularList.
func (l *Linear) Concat(list, tail Ref) (Ref, error) {
	if err := l.check(list); err != nil {
		return NilRef, err
	}
	if _, err := l.Length(tail); err != nil {
		return NilRef, err
	}
	if l.IsNil(list) {
		return tail, nil
	}
	if k := l.at(list).kind; k != KindCons {
		return NilRef, typeMismatch(KindCons, k)
	}
	last, err := l.lastCons(list)
	if err != nil {
		return NilRef, err
	}
	for cur := tail; !l.IsNil(cur); cur = Ref(l.at(cur).b) {
		if cur == last {
			return NilRef, newError(CircularList, "concat tail shares cells with the list")
		}
	}
	return list, l.SetCdr(last, tail)
}

// ListOf builds a fresh proper list of items.
func (l *Linear) ListOf(items ...Ref) (Ref, error) {
	for _, r := range items {
		if err := l.check(r); err != nil {
			return NilRef, err
		}
	}
	m := l.mark()
	list := NilRef
	for i := len(items) - 1; i >= 0; i-- {
		c, err := l.alloc(cell{kind: KindCons, a: int32(items[i]), b: int32(list)})
		if err != nil {
			l.rollback(m)
			return NilRef, err
		}
		list = c
	}
	return list, nil
}

// ToSlice returns the elements of a proper list.
func (l *Linear) ToSlice(list Ref) ([]Ref, error) {
	n, err := l.Length(list)
	if err != nil {
		return nil, err
	}
	items := make([]Ref, 0, n)
	for cur := list; !l.IsNil(cur); {
		c := l.at(cur)
		items = append(items, Ref(c.a))
		cur = Ref(c.b)
	}
	return items, nil
}

// Import copies the subtree at r of src into l and returns the copy's
// reference. src may be l itself. Nothing is kept on failure.
func (l *Linear) Import(src *Linear, r Ref) (Ref, error) {
	if src == nil {
		return NilRef, newError(NullInput, "import from a nil arena")
	}
	m := l.mark()
	out, err := l.importRef(src, r, 0)
	if err != nil {
		l.rollback(m)
		return NilRef, err
	}
	return out, nil
}

func (l *Linear) importRef(src *Linear, r Ref, depth int) (Ref, error) {
	if depth > MaxDepthLimit {
		return NilRef, newError(DepthExceeded, "")
	}
	if err := src.check(r); err != nil {
		return NilRef, err
	}
	c := src.at(r)
	switch c.kind {
	case KindNil:
		return NilRef, nil
	case KindSymbol, KindString:
		return l.newText(c.kind, src.text(c))
	case KindInteger:
		return l.NewInteger(c.a)
	case KindTagged:
		tag, err := l.importRef(src, Ref(c.a), depth+1)
		if err != nil {
			return NilRef, err
		}
		atom, err := l.importRef(src, Ref(c.b), depth+1)
		if err != nil {
			return NilRef, err
		}
		return l.NewTagged(tag, atom)
	}

	items, err := src.ToSlice(r)
	if err != nil {
		return NilRef, err
	}
	copies := make([]Ref, len(items))
	for i, item := range items {
		if copies[i], err = l.importRef(src, item, depth+1); err != nil {
			return NilRef, err
		}
	}
	return l.ListOf(copies...)
}

// Store copies a tree into the arena.
func (l *Linear) Store(s Sexp) (Ref, error) {
	m := l.mark()
	r, err := l.store(s, 0)
	if err != nil {
		l.rollback(m)
		return NilRef, err
	}
	return r, nil
}

func (l *Linear) store(s Sexp, depth int) (Ref, error) {
	if depth > MaxDepthLimit {
		return NilRef, newError(DepthExceeded, "")
	}
	switch v := s.(type) {
	case nil:
		return NilRef, newError(NullInput, "store of a nil interface")
	case nilValue:
		return NilRef, nil
	case Symbol:
		return l.NewSymbol(string(v))
	case String:
		return l.NewString(string(v))
	case Integer:
		return l.NewInteger(int32(v))
	case *Tagged:
		tag, err := l.NewSymbol(string(v.tag))
		if err != nil {
			return NilRef, err
		}
		atom, err := l.store(v.atom, depth+1)
		if err != nil {
			return NilRef, err
		}
		return l.NewTagged(tag, atom)
	}

	items, err := ToSlice(s)
	if err != nil {
		return NilRef, err
	}
	refs := make([]Ref, len(items))
	for i, item := range items {
		if refs[i], err = l.store(item, depth+1); err != nil {
			return NilRef, err
		}
	}
	return l.ListOf(refs...)
}

// ToTree copies the subtree at r out of the arena.
func (l *Linear) ToTree(r Ref) (Sexp, error) {
	return l.toTree(r, 0)
}

func (l *Linear) toTree(r Ref, depth int) (Sexp, error) {
	if depth > MaxDepthLimit {
		return nil, newError(DepthExceeded, "")
	}
	if err := l.check(r); err != nil {
		return nil, err
	}
	c := l.at(r)
	switch c.kind {
	case KindNil:
		return Nil, nil
	case KindSymbol:
		return Symbol(l.text(c)), nil
	case KindString:
		return String(l.text(c)), nil
	case KindInteger:
		return Integer(c.a), nil
	case KindTagged:
		atom, err := l.toTree(Ref(c.b), depth+1)
		if err != nil {
			return nil, err
		}
		return NewTagged(Symbol(l.text(l.at(Ref(c.a)))), atom)
	}

	items, err := l.ToSlice(r)
	if err != nil {
		return nil, err
	}
	out := make([]Sexp, len(items))
	for i, item := range items {
		if out[i], err = l.toTree(item, depth+1); err != nil {
			return nil, err
		}
	}
	return ListOf(out...)
}
