package csexp

import (
	"io"
	"strconv"
)

// flushSize is how much output the streaming printer buffers before writing.
const flushSize = 4096

type symbolForm int

const (
	formBare symbolForm = iota
	formEscaped
	formNetstring
)

// formOf picks the output form of a symbol from its bytes alone.
func formOf(name string) symbolForm {
	if name == "" {
		return formEscaped
	}
	form := formBare
	if isDigit(name[0]) {
		form = formEscaped
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '|' || c == 0:
			return formNetstring
		case c >= 'a' && c <= 'z', isDelimiter(c):
			form = formEscaped
		}
	}
	return form
}

func appendSymbol(buf []byte, name string) []byte {
	switch formOf(name) {
	case formBare:
		return append(buf, name...)
	case formEscaped:
		buf = append(buf, '|')
		buf = append(buf, name...)
		return append(buf, '|')
	}
	buf = strconv.AppendInt(buf, int64(len(name)), 10)
	buf = append(buf, ':')
	return append(buf, name...)
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	buf = append(buf, s...)
	return append(buf, '"')
}

type printer struct {
	buf []byte
	w   io.Writer
}

func (p *printer) flush() error {
	if p.w == nil || len(p.buf) == 0 {
		return nil
	}
	_, err := p.w.Write(p.buf)
	p.buf = p.buf[:0]
	return err
}

func (p *printer) maybeFlush() error {
	if p.w != nil && len(p.buf) >= flushSize {
		return p.flush()
	}
	return nil
}

func (p *printer) print(s Sexp, depth int) error {
	if depth > MaxDepthLimit {
		return newError(DepthExceeded, "")
	}
	switch v := s.(type) {
	case nil:
		return newError(NullInput, "print of a nil interface")
	case nilValue:
		p.buf = append(p.buf, '(', ')')
	case Symbol:
		p.buf = appendSymbol(p.buf, string(v))
	case String:
		p.buf = appendString(p.buf, string(v))
	case Integer:
		p.buf = strconv.AppendInt(p.buf, int64(v), 10)
	case *Tagged:
		p.buf = append(p.buf, '[')
		p.buf = appendSymbol(p.buf, string(v.tag))
		p.buf = append(p.buf, ']')
		return p.print(v.atom, depth+1)
	case *Cons:
		if _, err := Length(v); err != nil {
			return err
		}
		p.buf = append(p.buf, '(')
		for cur := Sexp(v); !IsNil(cur); {
			c := cur.(*Cons)
			if c != v {
				p.buf = append(p.buf, ' ')
			}
			if err := p.print(c.first(), depth+1); err != nil {
				return err
			}
			cur = c.rest()
		}
		p.buf = append(p.buf, ')')
	}
	return p.maybeFlush()
}

// Serialize renders s in canonical form.
func Serialize(s Sexp) (string, error) {
	buf, err := AppendText(nil, s)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// AppendText appends the canonical form of s to buf.
func AppendText(buf []byte, s Sexp) ([]byte, error) {
	p := printer{buf: buf}
	err := p.print(s, 0)
	return p.buf, err
}

// Fprint streams the canonical form of s to w. On error, output already
// written to w is not retracted.
func Fprint(w io.Writer, s Sexp) error {
	p := printer{buf: make([]byte, 0, flushSize), w: w}
	if err := p.print(s, 0); err != nil {
		return err
	}
	return p.flush()
}

func (p *printer) printRef(l *Linear, r Ref, depth int) error {
	if depth > MaxDepthLimit {
		return newError(DepthExceeded, "")
	}
	if err := l.check(r); err != nil {
		return err
	}
	c := l.at(r)
	switch c.kind {
	case KindNil:
		p.buf = append(p.buf, '(', ')')
	case KindSymbol:
		p.buf = appendSymbol(p.buf, l.text(c))
	case KindString:
		p.buf = appendString(p.buf, l.text(c))
	case KindInteger:
		p.buf = strconv.AppendInt(p.buf, int64(c.a), 10)
	case KindTagged:
		p.buf = append(p.buf, '[')
		p.buf = appendSymbol(p.buf, l.text(l.at(Ref(c.a))))
		p.buf = append(p.buf, ']')
		return p.printRef(l, Ref(c.b), depth+1)
	case KindCons:
		if _, err := l.Length(r); err != nil {
			return err
		}
		p.buf = append(p.buf, '(')
		for cur := r; !l.IsNil(cur); {
			cc := l.at(cur)
			if cur != r {
				p.buf = append(p.buf, ' ')
			}
			if err := p.printRef(l, Ref(cc.a), depth+1); err != nil {
				return err
			}
			cur = Ref(cc.b)
		}
		p.buf = append(p.buf, ')')
	}
	return p.maybeFlush()
}

// SerializeRef renders the subtree at r in canonical form.
func (l *Linear) SerializeRef(r Ref) (string, error) {
	buf, err := l.AppendRef(nil, r)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// AppendRef appends the canonical form of the subtree at r to buf.
func (l *Linear) AppendRef(buf []byte, r Ref) ([]byte, error) {
	p := printer{buf: buf}
	err := p.printRef(l, r, 0)
	return p.buf, err
}

// FprintRef streams the canonical form of the subtree at r to w.
func (l *Linear) FprintRef(w io.Writer, r Ref) error {
	p := printer{buf: make([]byte, 0, flushSize), w: w}
	if err := p.printRef(l, r, 0); err != nil {
		return err
	}
	return p.flush()
}
