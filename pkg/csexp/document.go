package csexp

import (
	"fmt"
	"io"
)

// Document is a parsed S-expression together with the storage that holds
// it. The implementations are *Tree and *Linear.
type Document interface {
	Storage() Storage
	// Len returns the number of elements of the root list.
	Len() (int, error)
	Serialize() (string, error)
	String() string
	io.WriterTo
	document()
}

var (
	_ Document = (*Tree)(nil)
	_ Document = (*Linear)(nil)
)

// Tree is a document of pointer-linked nodes.
type Tree struct {
	root Sexp
}

// NewTree wraps root. A nil root is read as the empty list.
func NewTree(root Sexp) *Tree {
	if root == nil {
		root = Nil
	}
	return &Tree{root: root}
}

// Root returns the top-level node.
func (t *Tree) Root() Sexp { return t.root }

// SetRoot replaces the top-level node.
func (t *Tree) SetRoot(root Sexp) error {
	if root == nil {
		return newError(NullInput, "nil root")
	}
	t.root = root
	return nil
}

func (t *Tree) Storage() Storage           { return StorageTree }
func (t *Tree) Len() (int, error)          { return Length(t.root) }
func (t *Tree) Serialize() (string, error) { return Serialize(t.root) }
func (t *Tree) String() string             { return display(t.root) }
func (t *Tree) document()                  {}

// WriteTo streams the canonical form of the tree to w.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := Fprint(cw, t.root)
	return cw.n, err
}

func (l *Linear) Storage() Storage           { return StorageLinear }
func (l *Linear) Len() (int, error)          { return l.Length(l.root) }
func (l *Linear) Serialize() (string, error) { return l.SerializeRef(l.root) }
func (l *Linear) document()                  {}

func (l *Linear) String() string {
	text, err := l.SerializeRef(l.root)
	if err != nil {
		return "!!(" + err.Error() + ")!!"
	}
	return text
}

// WriteTo streams the canonical form of the root to w.
func (l *Linear) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := l.FprintRef(cw, l.root)
	return cw.n, err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// AppendDocument adds item's root as the last element of dst's root list.
// Both documents must use the same storage; on a StorageMismatch neither is
// touched. The item is copied, so later changes to item do not reach dst.
func AppendDocument(dst, item Document) error {
	if dst == nil || item == nil {
		return newError(NullInput, "append of a nil document")
	}
	if dst.Storage() != item.Storage() {
		return newError(StorageMismatch, fmt.Sprintf("%s document cannot take a %s element", dst.Storage(), item.Storage()))
	}

	switch d := dst.(type) {
	case *Tree:
		if _, err := Length(d.root); err != nil {
			return err
		}
		elem, err := Copy(item.(*Tree).root)
		if err != nil {
			return err
		}
		root, err := Append(d.root, elem)
		if err != nil {
			return err
		}
		d.root = root
		return nil
	case *Linear:
		src := item.(*Linear)
		if _, err := d.Length(d.root); err != nil {
			return err
		}
		m := d.mark()
		copied, err := d.Import(src, src.root)
		if err != nil {
			return err
		}
		root, err := d.Append(d.root, copied)
		if err != nil {
			d.rollback(m)
			return err
		}
		d.root = root
		return nil
	}
	return newError(StorageMismatch, fmt.Sprintf("unsupported document %T", dst))
}

// Convert returns doc held in the requested storage. A document already in
// that storage is returned as is; otherwise the result is an independent copy.
func Convert(doc Document, storage Storage) (Document, error) {
	if doc == nil {
		return nil, newError(NullInput, "convert of a nil document")
	}
	switch d := doc.(type) {
	case *Tree:
		if storage == StorageTree {
			return d, nil
		}
		l := NewLinear()
		root, err := l.Store(d.root)
		if err != nil {
			return nil, err
		}
		l.root = root
		return l, nil
	case *Linear:
		if storage == StorageLinear {
			return d, nil
		}
		root, err := d.ToTree(d.root)
		if err != nil {
			return nil, err
		}
		return &Tree{root: root}, nil
	}
	return nil, newError(StorageMismatch, fmt.Sprintf("unsupported document %T", doc))
}
