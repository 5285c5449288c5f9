package csexp

import (
	"bytes"
	"errors"
	"testing"
)

func TestAppendDocument(t *testing.T) {
	t.Run("tree", func(t *testing.T) {
		dst, _ := ReadTree("(A)")
		item, _ := ReadTree("B")
		if err := AppendDocument(dst, item); err != nil {
			t.Fatalf("AppendDocument() unexpected error: %v", err)
		}
		if got := dst.String(); got != "(A B)" {
			t.Errorf("AppendDocument() = %q, want %q", got, "(A B)")
		}
	})

	t.Run("tree into empty", func(t *testing.T) {
		dst, _ := ReadTree("()")
		item, _ := ReadTree("(X)")
		if err := AppendDocument(dst, item); err != nil {
			t.Fatalf("AppendDocument() unexpected error: %v", err)
		}
		if n, _ := dst.Len(); n != 1 {
			t.Errorf("Len() = %d, want 1", n)
		}
	})

	t.Run("linear", func(t *testing.T) {
		dst, _ := ReadLinear("(A)")
		item, _ := ReadLinear("(B C)")
		if err := AppendDocument(dst, item); err != nil {
			t.Fatalf("AppendDocument() unexpected error: %v", err)
		}
		if got := dst.String(); got != "(A (B C))" {
			t.Errorf("AppendDocument() = %q, want %q", got, "(A (B C))")
		}
		if got := item.String(); got != "(B C)" {
			t.Errorf("item changed to %q", got)
		}
	})

	t.Run("item is copied", func(t *testing.T) {
		for _, storage := range []Storage{StorageTree, StorageLinear} {
			dst, _ := Read("()", storage)
			item, _ := Read("(X)", storage)
			if err := AppendDocument(dst, item); err != nil {
				t.Fatalf("%s: AppendDocument() unexpected error: %v", storage, err)
			}
			switch it := item.(type) {
			case *Tree:
				if err := SetCar(it.Root(), Symbol("CHANGED")); err != nil {
					t.Fatal(err)
				}
			case *Linear:
				changed, _ := it.NewSymbol("CHANGED")
				if err := it.SetCar(it.Root(), changed); err != nil {
					t.Fatal(err)
				}
			}
			if got := dst.String(); got != "((X))" {
				t.Errorf("%s: dst = %q after changing item, want %q", storage, got, "((X))")
			}
		}
	})

	t.Run("tree onto itself", func(t *testing.T) {
		dst, _ := ReadTree("(A)")
		if err := AppendDocument(dst, dst); err != nil {
			t.Fatalf("AppendDocument() unexpected error: %v", err)
		}
		if got, err := dst.Serialize(); err != nil || got != "(A (A))" {
			t.Errorf("Serialize() = %q, %v; want %q", got, err, "(A (A))")
		}
	})

	t.Run("linear onto atom", func(t *testing.T) {
		dst, _ := ReadLinear("A")
		item, _ := ReadLinear("B")
		before := dst.Cells()
		if err := AppendDocument(dst, item); !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("AppendDocument() error = %v, want TypeMismatch", err)
		}
		if dst.Cells() != before {
			t.Errorf("failed append left %d cells behind", dst.Cells()-before)
		}
	})

	t.Run("storage mismatch", func(t *testing.T) {
		tree, _ := ReadTree("(A)")
		lin, _ := ReadLinear("(B)")
		cells := lin.Cells()

		if err := AppendDocument(tree, lin); !errors.Is(err, ErrStorageMismatch) {
			t.Errorf("AppendDocument(tree, linear) error = %v, want StorageMismatch", err)
		}
		if err := AppendDocument(lin, tree); !errors.Is(err, ErrStorageMismatch) {
			t.Errorf("AppendDocument(linear, tree) error = %v, want StorageMismatch", err)
		}
		if tree.String() != "(A)" || lin.String() != "(B)" {
			t.Errorf("operands changed: %q, %q", tree.String(), lin.String())
		}
		if lin.Cells() != cells {
			t.Errorf("linear arena grew from %d to %d cells", cells, lin.Cells())
		}
	})

	t.Run("nil document", func(t *testing.T) {
		tree, _ := ReadTree("(A)")
		if err := AppendDocument(tree, nil); !errors.Is(err, ErrNullInput) {
			t.Errorf("AppendDocument(nil) error = %v, want NullInput", err)
		}
	})
}

func TestConvert(t *testing.T) {
	const input = `(CMD [T]"x" (1 2) |q|)`
	tree, err := ReadTree(input)
	if err != nil {
		t.Fatalf("ReadTree() unexpected error: %v", err)
	}

	lin, err := Convert(tree, StorageLinear)
	if err != nil {
		t.Fatalf("Convert(linear) unexpected error: %v", err)
	}
	if lin.Storage() != StorageLinear {
		t.Errorf("Convert() storage = %v, want linear", lin.Storage())
	}
	if got := lin.String(); got != input {
		t.Errorf("Convert(linear) = %q, want %q", got, input)
	}

	back, err := Convert(lin, StorageTree)
	if err != nil {
		t.Fatalf("Convert(tree) unexpected error: %v", err)
	}
	if !Equal(back.(*Tree).Root(), tree.Root()) {
		t.Errorf("Convert(tree) = %v, want %v", back, tree)
	}

	same, _ := Convert(tree, StorageTree)
	if same != Document(tree) {
		t.Error("Convert() to the same storage should return the document itself")
	}
}

func TestDocumentWriteTo(t *testing.T) {
	for _, storage := range []Storage{StorageTree, StorageLinear} {
		doc, err := Read("(fire 3 [AT]\"north\")", storage)
		if err != nil {
			t.Fatalf("Read(%s) unexpected error: %v", storage, err)
		}
		var buf bytes.Buffer
		n, err := doc.WriteTo(&buf)
		if err != nil {
			t.Fatalf("WriteTo(%s) unexpected error: %v", storage, err)
		}
		want := `(FIRE 3 [AT]"north")`
		if buf.String() != want {
			t.Errorf("WriteTo(%s) wrote %q, want %q", storage, buf.String(), want)
		}
		if n != int64(len(want)) {
			t.Errorf("WriteTo(%s) = %d, want %d", storage, n, len(want))
		}
		if l, err := doc.Len(); err != nil || l != 3 {
			t.Errorf("Len(%s) = %d, %v; want 3", storage, l, err)
		}
	}
}

func TestTreeRoot(t *testing.T) {
	tree := NewTree(nil)
	if !IsNil(tree.Root()) {
		t.Errorf("NewTree(nil) root = %v, want nil", tree.Root())
	}
	if err := tree.SetRoot(nil); !errors.Is(err, ErrNullInput) {
		t.Errorf("SetRoot(nil) error = %v, want NullInput", err)
	}
	if err := tree.SetRoot(Symbol("X")); err != nil {
		t.Fatalf("SetRoot() unexpected error: %v", err)
	}
	if tree.String() != "X" {
		t.Errorf("String() = %q, want X", tree.String())
	}
}
