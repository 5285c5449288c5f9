package csexp

import (
	"fmt"
	"strconv"
)

const (
	// DefaultMaxDepth bounds list nesting when no WithMaxDepth option is given.
	DefaultMaxDepth = 512
	// MaxDepthLimit is the deepest nesting any operation will recurse into.
	MaxDepthLimit = 1 << 16
)

// Option configures a read.
type Option func(*config)

type config struct {
	maxDepth int
}

func newConfig(opts []Option) config {
	cfg := config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxDepth sets how deeply lists may nest before DepthExceeded is
// returned. Values outside 1..MaxDepthLimit are clamped.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		switch {
		case n < 1:
			n = 1
		case n > MaxDepthLimit:
			n = MaxDepthLimit
		}
		c.maxDepth = n
	}
}

// builder receives the productions recognised by the reader. Each storage
// strategy supplies one.
type builder[N any] interface {
	symbol(name string) (N, error)
	str(s string) (N, error)
	integer(v int32) (N, error)
	tagged(tag, atom N) (N, error)
	list(items []N) (N, error)
	isTagName(n N) bool
	isTagValue(n N) bool
}

type reader[N any] struct {
	input    string
	pos      int
	depth    int
	maxDepth int
	b        builder[N]
}

// Read parses one canonical S-expression into a document of the requested
// storage. The whole input must be consumed apart from trailing whitespace.
func Read(input string, storage Storage, opts ...Option) (Document, error) {
	switch storage {
	case StorageTree:
		t, err := ReadTree(input, opts...)
		if err != nil {
			return nil, err
		}
		return t, nil
	case StorageLinear:
		l, err := ReadLinear(input, opts...)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, newError(StorageMismatch, fmt.Sprintf("unknown storage %d", int(storage)))
}

// ReadTree parses input into pointer-linked nodes.
func ReadTree(input string, opts ...Option) (*Tree, error) {
	cfg := newConfig(opts)
	r := &reader[Sexp]{input: input, maxDepth: cfg.maxDepth, b: treeBuilder{}}
	root, err := r.readTop()
	if err != nil {
		return nil, err
	}
	return &Tree{root: root}, nil
}

// ReadPrefix parses the first S-expression of input and returns it with the
// offset just past it. Whatever follows is left unread.
func ReadPrefix(input string, opts ...Option) (Sexp, int, error) {
	cfg := newConfig(opts)
	r := &reader[Sexp]{input: input, maxDepth: cfg.maxDepth, b: treeBuilder{}}
	r.skipSpace()
	if r.peek() == 0 {
		_, err := r.fail(NullInput, r.pos, "empty input")
		return nil, 0, err
	}
	n, err := r.readSexp()
	if err != nil {
		return nil, 0, err
	}
	return n, r.pos, nil
}

// ReadLinear parses input into a fresh arena.
func ReadLinear(input string, opts ...Option) (*Linear, error) {
	l := NewLinear()
	root, err := l.Parse(input, opts...)
	if err != nil {
		return nil, err
	}
	l.root = root
	return l, nil
}

// Parse reads input into the arena and returns the new subtree's reference
// without changing the root. On failure every node allocated by the parse is
// released.
func (l *Linear) Parse(input string, opts ...Option) (Ref, error) {
	cfg := newConfig(opts)
	m := l.mark()
	r := &reader[Ref]{input: input, maxDepth: cfg.maxDepth, b: linearBuilder{l}}
	root, err := r.readTop()
	if err != nil {
		l.rollback(m)
		return NilRef, err
	}
	return root, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isDelimiter reports whether c ends a bare symbol.
func isDelimiter(c byte) bool {
	switch c {
	case 0, '(', ')', '[', ']', '"':
		return true
	}
	return isSpace(c)
}

func upperASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'a' && c <= 'z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'a' && b[j] <= 'z' {
					b[j] -= 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// peek returns the current byte, or 0 at the end of input.
func (r *reader[N]) peek() byte {
	if r.pos >= len(r.input) {
		return 0
	}
	return r.input[r.pos]
}

func (r *reader[N]) skipSpace() {
	for r.pos < len(r.input) && isSpace(r.input[r.pos]) {
		r.pos++
	}
}

func (r *reader[N]) fail(code Code, offset int, detail string) (N, error) {
	var zero N
	return zero, errAt(code, r.input, offset, detail)
}

func (r *reader[N]) readTop() (N, error) {
	r.skipSpace()
	if r.peek() == 0 {
		return r.fail(NullInput, r.pos, "empty input")
	}
	n, err := r.readSexp()
	if err != nil {
		return n, err
	}
	r.skipSpace()
	if r.peek() != 0 {
		return r.fail(TrailingGarbage, r.pos, "")
	}
	return n, nil
}

// readSexp dispatches on the first non-space byte.
func (r *reader[N]) readSexp() (N, error) {
	r.skipSpace()
	switch r.peek() {
	case '(':
		return r.readList()
	case '[':
		return r.readTagged()
	}
	return r.readAtom()
}

func (r *reader[N]) readList() (N, error) {
	if r.depth >= r.maxDepth {
		return r.fail(DepthExceeded, r.pos, fmt.Sprintf("limit is %d", r.maxDepth))
	}
	r.depth++
	defer func() { r.depth-- }()

	r.pos++ // (
	var items []N
	for {
		r.skipSpace()
		switch r.peek() {
		case 0:
			return r.fail(ListNotClosed, r.pos, "")
		case ')':
			r.pos++
			return r.b.list(items)
		}
		item, err := r.readSexp()
		if err != nil {
			return item, err
		}
		items = append(items, item)
	}
}

func (r *reader[N]) readTagged() (N, error) {
	r.pos++ // [
	r.skipSpace()
	tagStart := r.pos
	switch r.peek() {
	case 0, ']', '(', '[', ')':
		return r.fail(TagMissingTag, tagStart, "")
	}
	tag, err := r.readAtom()
	if err != nil {
		return tag, err
	}
	if !r.b.isTagName(tag) {
		return r.fail(TagMissingTag, tagStart, "tag must be a non-empty symbol")
	}

	r.skipSpace()
	if r.peek() != ']' {
		return r.fail(TagNotClosed, r.pos, "")
	}
	r.pos++

	r.skipSpace()
	atomStart := r.pos
	switch r.peek() {
	case 0, ']', '(', '[', ')':
		return r.fail(TagMissingSymbol, atomStart, "")
	}
	atom, err := r.readAtom()
	if err != nil {
		return atom, err
	}
	if !r.b.isTagValue(atom) {
		return r.fail(TagMissingSymbol, atomStart, "value must be a symbol or string")
	}
	return r.b.tagged(tag, atom)
}

func (r *reader[N]) readAtom() (N, error) {
	c := r.peek()
	switch {
	case c == 0:
		return r.fail(NullInput, r.pos, "unexpected end of input")
	case c == '(' || c == ')' || c == '[' || c == ']':
		return r.fail(InvalidCharacter, r.pos, fmt.Sprintf("unexpected %q", c))
	case isDigit(c):
		return r.readNumber()
	case c == '|':
		return r.readDelimited('|', SymbolEscapeNotClosed, r.b.symbol)
	case c == '"':
		return r.readDelimited('"', QuoteNotClosed, r.b.str)
	}
	return r.readBare()
}

// readNumber reads a netstring or an integer. The byte after the digit run
// decides which without consuming anything.
func (r *reader[N]) readNumber() (N, error) {
	start := r.pos
	end := start
	for end < len(r.input) && isDigit(r.input[end]) {
		end++
	}
	digits := r.input[start:end]

	var next byte
	if end < len(r.input) {
		next = r.input[end]
	}

	switch {
	case next == ':':
		n, err := strconv.Atoi(digits)
		if err != nil {
			return r.fail(BadNetstringLength, start, err.Error())
		}
		body := end + 1
		if n > len(r.input)-body {
			return r.fail(BadNetstringLength, start,
				fmt.Sprintf("declares %d bytes, %d available", n, len(r.input)-body))
		}
		r.pos = body + n
		return r.b.symbol(r.input[body : body+n])
	case next == 0 || next == ')' || next == ']' || isSpace(next):
		v, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			return r.fail(IntegerOutOfRange, start, digits)
		}
		r.pos = end
		return r.b.integer(int32(v))
	}
	return r.fail(NetstringMissingColon, end, fmt.Sprintf("unexpected %q after length", next))
}

// readDelimited reads raw bytes up to the closing delimiter.
func (r *reader[N]) readDelimited(delim byte, unclosed Code, build func(string) (N, error)) (N, error) {
	start := r.pos + 1
	for i := start; i < len(r.input); i++ {
		switch r.input[i] {
		case delim:
			r.pos = i + 1
			return build(r.input[start:i])
		case 0:
			return r.fail(unclosed, i, "")
		}
	}
	return r.fail(unclosed, len(r.input), "")
}

func (r *reader[N]) readBare() (N, error) {
	start := r.pos
	for r.pos < len(r.input) && !isDelimiter(r.input[r.pos]) {
		r.pos++
	}
	return r.b.symbol(upperASCII(r.input[start:r.pos]))
}

type treeBuilder struct{}

func (treeBuilder) symbol(name string) (Sexp, error) { return NewSymbol(name), nil }
func (treeBuilder) str(s string) (Sexp, error)       { return NewString(s), nil }
func (treeBuilder) integer(v int32) (Sexp, error)    { return NewInteger(v), nil }
func (treeBuilder) list(items []Sexp) (Sexp, error)  { return ListOf(items...) }

func (treeBuilder) tagged(tag, atom Sexp) (Sexp, error) {
	return NewTagged(tag.(Symbol), atom)
}

func (treeBuilder) isTagName(n Sexp) bool {
	s, ok := n.(Symbol)
	return ok && s != ""
}

func (treeBuilder) isTagValue(n Sexp) bool {
	switch n.(type) {
	case Symbol, String:
		return true
	}
	return false
}

type linearBuilder struct{ l *Linear }

func (b linearBuilder) symbol(name string) (Ref, error) { return b.l.NewSymbol(name) }
func (b linearBuilder) str(s string) (Ref, error)       { return b.l.NewString(s) }
func (b linearBuilder) integer(v int32) (Ref, error)    { return b.l.NewInteger(v) }
func (b linearBuilder) list(items []Ref) (Ref, error)   { return b.l.ListOf(items...) }
func (b linearBuilder) tagged(tag, atom Ref) (Ref, error) {
	return b.l.NewTagged(tag, atom)
}

func (b linearBuilder) isTagName(n Ref) bool {
	c := b.l.at(n)
	return c.kind == KindSymbol && c.b > 0
}

func (b linearBuilder) isTagValue(n Ref) bool {
	k := b.l.at(n).kind
	return k == KindSymbol || k == KindString
}
