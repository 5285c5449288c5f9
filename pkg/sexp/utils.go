// Package sexp provides navigation helpers for consumers of canonical
// S-expression messages. Messages are lists whose first element is a symbol
// naming the message, e.g. (MOVE 10 20) or (STATE (POS 1 2) (HP 30)).
package sexp

import (
	"fmt"

	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/csexp"
)

// Parse reads one canonical S-expression into a tree.
func Parse(input string, opts ...csexp.Option) (csexp.Sexp, error) {
	tree, err := csexp.ReadTree(input, opts...)
	if err != nil {
		return nil, err
	}
	return tree.Root(), nil
}

// SexpToSlice converts a list to a Go slice. Atoms, improper and circular
// lists yield an empty slice.
func SexpToSlice(s csexp.Sexp) []csexp.Sexp {
	if s == nil || s.Kind() != csexp.KindCons {
		return nil
	}
	items, err := csexp.ToSlice(s)
	if err != nil {
		return nil
	}
	return items
}

// headIs reports whether s is a list starting with the symbol key.
func headIs(s csexp.Sexp, key string) bool {
	if s == nil || s.Kind() != csexp.KindCons {
		return false
	}
	head, err := csexp.Car(s)
	if err != nil {
		return false
	}
	sym, ok := head.(csexp.Symbol)
	return ok && sym.Is(key)
}

// FindNode searches the elements of s for a sub-list whose head is the symbol
// key, or for the symbol key itself. Symbols match case-insensitively.
// Example: FindNode(sexp, "pos") finds (POS 1 2) in (STATE (POS 1 2) (HP 30)).
func FindNode(s csexp.Sexp, key string) (csexp.Sexp, bool) {
	for _, item := range SexpToSlice(s) {
		if sym, ok := item.(csexp.Symbol); ok && sym.Is(key) {
			return item, true
		}
		if headIs(item, key) {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes finds every sub-list of s whose head is the symbol key.
func FindAllNodes(s csexp.Sexp, key string) []csexp.Sexp {
	var results []csexp.Sexp
	for _, item := range SexpToSlice(s) {
		if headIs(item, key) {
			results = append(results, item)
		}
	}
	return results
}

// FindDeep walks s depth-first and returns every list whose head is the
// symbol key, including s itself.
func FindDeep(s csexp.Sexp, key string) []csexp.Sexp {
	var results []csexp.Sexp
	var walk func(n csexp.Sexp, depth int)
	walk = func(n csexp.Sexp, depth int) {
		if depth > csexp.MaxDepthLimit {
			return
		}
		if headIs(n, key) {
			results = append(results, n)
		}
		for _, item := range SexpToSlice(n) {
			walk(item, depth+1)
		}
	}
	walk(s, 0)
	return results
}

// GetListItems returns the items of a list after its head.
// Example: GetListItems((POS 1 2)) returns [1 2].
func GetListItems(s csexp.Sexp) []csexp.Sexp {
	items := SexpToSlice(s)
	if len(items) <= 1 {
		return []csexp.Sexp{}
	}
	return items[1:]
}

func itemAt(s csexp.Sexp, index int) (csexp.Sexp, error) {
	if s == nil || s.Kind() != csexp.KindCons {
		return nil, fmt.Errorf("expected list, got %v", kindOf(s))
	}
	items, err := csexp.ToSlice(s)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	return items[index], nil
}

func kindOf(s csexp.Sexp) string {
	if s == nil {
		return "nothing"
	}
	return s.Kind().String()
}

// GetSymbol extracts the symbol at the given index in a list.
// Index 0 is the head, 1 is the first value, etc.
func GetSymbol(s csexp.Sexp, index int) (string, error) {
	item, err := itemAt(s, index)
	if err != nil {
		return "", err
	}
	if sym, ok := item.(csexp.Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at index %d, got %s", index, item.Kind())
}

// GetString extracts the text at index from either a string or a symbol.
func GetString(s csexp.Sexp, index int) (string, error) {
	item, err := itemAt(s, index)
	if err != nil {
		return "", err
	}
	switch v := item.(type) {
	case csexp.String:
		return string(v), nil
	case csexp.Symbol:
		return string(v), nil
	}
	return "", fmt.Errorf("expected string at index %d, got %s", index, item.Kind())
}

// GetInt extracts an integer value at the given index.
func GetInt(s csexp.Sexp, index int) (int32, error) {
	item, err := itemAt(s, index)
	if err != nil {
		return 0, err
	}
	if v, ok := item.(csexp.Integer); ok {
		return int32(v), nil
	}
	return 0, fmt.Errorf("expected integer at index %d, got %s", index, item.Kind())
}

// GetTagged extracts the tag and value text of a [tag]atom at index.
func GetTagged(s csexp.Sexp, index int) (tag, value string, err error) {
	item, err := itemAt(s, index)
	if err != nil {
		return "", "", err
	}
	t, ok := item.(*csexp.Tagged)
	if !ok {
		return "", "", fmt.Errorf("expected tagged atom at index %d, got %s", index, item.Kind())
	}
	switch v := t.Atom().(type) {
	case csexp.Symbol:
		value = string(v)
	case csexp.String:
		value = string(v)
	}
	return string(t.Tag()), value, nil
}

// HasSymbol checks if a list contains a specific symbol.
func HasSymbol(s csexp.Sexp, symbol string) bool {
	for _, item := range SexpToSlice(s) {
		if sym, ok := item.(csexp.Symbol); ok && sym.Is(symbol) {
			return true
		}
	}
	return false
}

// GetNodeName returns the first symbol of a list (the message name), or the
// symbol itself for a bare symbol.
func GetNodeName(s csexp.Sexp) (string, error) {
	if sym, ok := s.(csexp.Symbol); ok {
		return string(sym), nil
	}
	if s == nil || s.Kind() != csexp.KindCons {
		return "", fmt.Errorf("expected symbol or list, got %v", kindOf(s))
	}
	head, err := csexp.Car(s)
	if err != nil {
		return "", err
	}
	if sym, ok := head.(csexp.Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at head of list, got %s", head.Kind())
}

// GetPair extracts two integers from a (KEY X Y) node.
func GetPair(s csexp.Sexp) (x, y int32, err error) {
	x, err = GetInt(s, 1)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse X: %w", err)
	}
	y, err = GetInt(s, 2)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse Y: %w", err)
	}
	return x, y, nil
}
