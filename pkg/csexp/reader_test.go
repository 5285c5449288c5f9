package csexp

import (
	"errors"
	"strings"
	"testing"
)

// readBoth parses input with both storages and checks they agree.
func readBoth(t *testing.T, input string) string {
	t.Helper()
	tree, err := ReadTree(input)
	if err != nil {
		t.Fatalf("ReadTree(%q) unexpected error: %v", input, err)
	}
	lin, err := ReadLinear(input)
	if err != nil {
		t.Fatalf("ReadLinear(%q) unexpected error: %v", input, err)
	}
	treeText, err := tree.Serialize()
	if err != nil {
		t.Fatalf("tree Serialize() unexpected error: %v", err)
	}
	linText, err := lin.Serialize()
	if err != nil {
		t.Fatalf("linear Serialize() unexpected error: %v", err)
	}
	if treeText != linText {
		t.Fatalf("storages disagree on %q: tree %q, linear %q", input, treeText, linText)
	}
	return treeText
}

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty list", input: "()", want: "()"},
		{name: "nested integers", input: "(1 2 (3 4))", want: "(1 2 (3 4))"},
		{name: "bare symbol", input: "ABC", want: "ABC"},
		{name: "bare symbol folded", input: "abc", want: "ABC"},
		{name: "netstring keeps case", input: "3:abc", want: "|abc|"},
		{name: "netstring upper", input: "3:ABC", want: "ABC"},
		{name: "integer", input: "123", want: "123"},
		{name: "leading zeros", input: "007", want: "7"},
		{name: "escaped symbol", input: "|Hello World|", want: "|Hello World|"},
		{name: "quoted string", input: `"hi there"`, want: `"hi there"`},
		{name: "tagged netstrings", input: "[3:foo]3:bar", want: "[|foo|]|bar|"},
		{name: "tagged string", input: `[MIME]"text"`, want: `[MIME]"text"`},
		{name: "tagged with spaces", input: "[ t ] v", want: "[T]V"},
		{name: "whitespace inside list", input: "( a  b\t)", want: "(A B)"},
		{name: "surrounding whitespace", input: "  x \n", want: "X"},
		{name: "netstring with pipe", input: "3:a|b", want: "3:a|b"},
		{name: "netstring with delimiters", input: "5:(a b)", want: "|(a b)|"},
		{name: "empty netstring", input: "(0:)", want: "(||)"},
		{name: "digit symbol", input: "2:12", want: "|12|"},
		{name: "command", input: "(move 10 20)", want: "(MOVE 10 20)"},
		{name: "tags in list", input: `([A]B [C]"d")`, want: `([A]B [C]"d")`},
		{name: "netstring raw bytes", input: "4:\x01\n)(", want: "|\x01\n)(|"},
		{name: "bare pipe inside", input: "a|b", want: "3:A|B"},
		{name: "nul ends input", input: "(A)\x00junk", want: "(A)"},
		{name: "integer before paren", input: "(1)", want: "(1)"},
		{name: "integer before bracket", input: "([A]B 1)", want: "([A]B 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := readBoth(t, tt.input); got != tt.want {
				t.Errorf("Serialize(Read(%q)) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   Code
		offset int
	}{
		{name: "list not closed", input: "(a b", code: ListNotClosed, offset: 4},
		{name: "lone open paren", input: "(", code: ListNotClosed, offset: 1},
		{name: "lone close paren", input: ")", code: InvalidCharacter, offset: 0},
		{name: "bracket in list", input: "(a ]", code: InvalidCharacter, offset: 3},
		{name: "tag not closed", input: "[a b", code: TagNotClosed, offset: 3},
		{name: "empty tag", input: "[]x", code: TagMissingTag, offset: 1},
		{name: "integer tag", input: "[12]x", code: TagMissingTag, offset: 1},
		{name: "empty escaped tag", input: "[||]x", code: TagMissingTag, offset: 1},
		{name: "tag without value", input: "[A]", code: TagMissingSymbol, offset: 3},
		{name: "tag with list value", input: "[A](B)", code: TagMissingSymbol, offset: 3},
		{name: "tag with integer value", input: "[A]12", code: TagMissingSymbol, offset: 3},
		{name: "quote not closed", input: `"abc`, code: QuoteNotClosed, offset: 4},
		{name: "quote cut by nul", input: "\"a\x00b\"", code: QuoteNotClosed, offset: 2},
		{name: "escape not closed", input: "|abc", code: SymbolEscapeNotClosed, offset: 4},
		{name: "missing colon", input: "12a", code: NetstringMissingColon, offset: 2},
		{name: "short netstring", input: "5:abc", code: BadNetstringLength, offset: 0},
		{name: "huge netstring length", input: "99999999999999999999:x", code: BadNetstringLength, offset: 0},
		{name: "integer overflow", input: "99999999999", code: IntegerOutOfRange, offset: 0},
		{name: "trailing symbol", input: "A B", code: TrailingGarbage, offset: 2},
		{name: "integer then integer", input: "123 456", code: TrailingGarbage, offset: 4},
		{name: "trailing paren", input: "(A) )", code: TrailingGarbage, offset: 4},
		{name: "empty input", input: "", code: NullInput, offset: 0},
		{name: "blank input", input: "   ", code: NullInput, offset: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, storage := range []Storage{StorageTree, StorageLinear} {
				doc, err := Read(tt.input, storage)
				if err == nil {
					t.Fatalf("Read(%q, %s) = %v, want error", tt.input, storage, doc)
				}
				var perr *Error
				if !errors.As(err, &perr) {
					t.Fatalf("Read(%q, %s) error %T is not *Error", tt.input, storage, err)
				}
				if perr.Code != tt.code {
					t.Errorf("Read(%q, %s) code = %v, want %v", tt.input, storage, perr.Code, tt.code)
				}
				if perr.Offset != tt.offset {
					t.Errorf("Read(%q, %s) offset = %d, want %d", tt.input, storage, perr.Offset, tt.offset)
				}
				if perr.Input != tt.input {
					t.Errorf("Read(%q, %s) error input = %q", tt.input, storage, perr.Input)
				}
			}
		})
	}
}

func TestReadStructure(t *testing.T) {
	tree, err := ReadTree("(1 2 (3 4))")
	if err != nil {
		t.Fatalf("ReadTree() unexpected error: %v", err)
	}
	inner, _ := ListOf(Integer(3), Integer(4))
	want, _ := ListOf(Integer(1), Integer(2), inner)
	if !Equal(tree.Root(), want) {
		t.Errorf("ReadTree() = %v, want %v", tree.Root(), want)
	}

	tagged, err := ReadTree("[3:foo]3:bar")
	if err != nil {
		t.Fatalf("ReadTree() unexpected error: %v", err)
	}
	tg, ok := tagged.Root().(*Tagged)
	if !ok {
		t.Fatalf("root is %T, want *Tagged", tagged.Root())
	}
	if tg.Tag() != "foo" || tg.Atom() != Symbol("bar") {
		t.Errorf("tagged = [%s]%v, want [foo]bar", string(tg.Tag()), tg.Atom())
	}

	num, err := ReadTree("3:abc")
	if err != nil {
		t.Fatalf("ReadTree() unexpected error: %v", err)
	}
	if num.Root() != Symbol("abc") {
		t.Errorf("ReadTree(3:abc) = %#v, want Symbol(abc)", num.Root())
	}

	i, err := ReadTree("123")
	if err != nil {
		t.Fatalf("ReadTree() unexpected error: %v", err)
	}
	if i.Root() != Integer(123) {
		t.Errorf("ReadTree(123) = %#v, want Integer(123)", i.Root())
	}
}

func TestReadPrefix(t *testing.T) {
	s, next, err := ReadPrefix("123 456")
	if err != nil {
		t.Fatalf("ReadPrefix() unexpected error: %v", err)
	}
	if s != Integer(123) {
		t.Errorf("ReadPrefix() = %#v, want Integer(123)", s)
	}
	if next != 3 {
		t.Errorf("ReadPrefix() offset = %d, want 3", next)
	}

	if _, _, err := ReadPrefix("  "); !errors.Is(err, ErrNullInput) {
		t.Errorf("ReadPrefix(blank) error = %v, want NullInput", err)
	}
}

func TestReadDepth(t *testing.T) {
	deep := strings.Repeat("(", 600) + strings.Repeat(")", 600)

	_, err := ReadTree(deep)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("ReadTree(600 deep) error = %v, want DepthExceeded", err)
	}
	var perr *Error
	errors.As(err, &perr)
	if perr.Offset != DefaultMaxDepth {
		t.Errorf("DepthExceeded offset = %d, want %d", perr.Offset, DefaultMaxDepth)
	}

	if _, err := ReadLinear(deep, WithMaxDepth(1000)); err != nil {
		t.Errorf("ReadLinear(600 deep, max 1000) unexpected error: %v", err)
	}
	if _, err := ReadTree("(())", WithMaxDepth(1)); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("ReadTree((()), max 1) error = %v, want DepthExceeded", err)
	}
	if _, err := ReadTree("()", WithMaxDepth(0)); err != nil {
		t.Errorf("ReadTree((), max clamped to 1) unexpected error: %v", err)
	}
}

func TestReadUnknownStorage(t *testing.T) {
	if _, err := Read("A", Storage(7)); !errors.Is(err, ErrStorageMismatch) {
		t.Errorf("Read(unknown storage) error = %v, want StorageMismatch", err)
	}
}

func TestReadDoesNotAliasFolding(t *testing.T) {
	input := "(abc)"
	if _, err := ReadTree(input); err != nil {
		t.Fatalf("ReadTree() unexpected error: %v", err)
	}
	if input != "(abc)" {
		t.Errorf("input modified to %q", input)
	}
	if got := upperASCII("a\xffb"); got != "A\xffB" {
		t.Errorf("upperASCII() = %q, want %q", got, "A\xffB")
	}
}
