// Package importer converts generic S-expressions, as produced by
// github.com/chewxy/sexp, into canonical csexp trees. It lets tools accept
// hand-written or legacy configuration files and re-emit them in canonical
// form.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	chewxy "github.com/chewxy/sexp"

	"github.com/ethanxxxl/ProgrammableTanks2-sub000/pkg/csexp"
)

// marker is written after every '(' before parsing. The generic parser folds a
// one-element list into its element and drops a leading (), so every list is
// given a head atom that keeps it at least one element long. Converted lists
// drop the marker again; a bare marker is the empty list.
const marker = "\x00"

// ErrUnbalanced is returned for text whose parentheses do not pair up.
var ErrUnbalanced = errors.New("importer: unbalanced parentheses")

// ImportString parses text with the generic parser and converts every
// top-level list. Bare atoms outside any list are ignored by the parser.
func ImportString(text string) ([]csexp.Sexp, error) {
	if strings.Contains(text, marker) {
		return nil, fmt.Errorf("importer: input contains a NUL byte")
	}
	if err := checkBalance(text); err != nil {
		return nil, err
	}
	// Leading blanks would be read as an empty symbol that swallows the
	// first list.
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	parsed, err := chewxy.ParseString(strings.ReplaceAll(text, "(", "("+marker+" "))
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	out := make([]csexp.Sexp, 0, len(parsed))
	for i, s := range parsed {
		v, err := convert(s, 0, true)
		if err != nil {
			return nil, fmt.Errorf("expression %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ImportReader is ImportString over an io.Reader.
func ImportReader(r io.Reader) ([]csexp.Sexp, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read s-expression: %w", err)
	}
	return ImportString(string(data))
}

// Import converts one generic expression built by the caller.
//
// Symbols made only of digits become integers, quoted symbols become strings
// and everything else becomes an upper-cased symbol.
func Import(s chewxy.Sexp) (csexp.Sexp, error) {
	return convert(s, 0, false)
}

func checkBalance(text string) error {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return fmt.Errorf("%w: unexpected ) at offset %d", ErrUnbalanced, i)
			}
			depth--
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: %d list(s) not closed", ErrUnbalanced, depth)
	}
	return nil
}

func convert(s chewxy.Sexp, depth int, marked bool) (csexp.Sexp, error) {
	if depth > csexp.MaxDepthLimit {
		return nil, fmt.Errorf("nesting deeper than %d", csexp.MaxDepthLimit)
	}
	switch v := s.(type) {
	case nil:
		return csexp.Nil, nil
	case chewxy.Symbol:
		if marked && string(v) == marker {
			return csexp.Nil, nil
		}
		return leaf(string(v))
	case chewxy.List:
		items := []chewxy.Sexp(v)
		if marked && len(items) > 0 && isMarker(items[0]) {
			items = items[1:]
		}
		return convertList(items, depth, marked)
	}
	// The parser's placeholder for a list with no elements yet.
	if fmt.Sprintf("%T", s) == "sexp.dummy" {
		return csexp.Nil, nil
	}
	if s.IsLeaf() {
		return leaf(fmt.Sprint(s))
	}
	return nil, fmt.Errorf("unsupported node %T", s)
}

func isMarker(s chewxy.Sexp) bool {
	sym, ok := s.(chewxy.Symbol)
	return ok && string(sym) == marker
}

func convertList(items []chewxy.Sexp, depth int, marked bool) (csexp.Sexp, error) {
	out := make([]csexp.Sexp, 0, len(items))
	for i := 0; i < len(items); i++ {
		sym, ok := items[i].(chewxy.Symbol)
		text := string(sym)
		// The generic parser splits quoted text on whitespace;
		// rejoin the pieces up to the closing quote.
		if ok && strings.HasPrefix(text, `"`) && !closedQuote(text) {
			parts := []string{strings.TrimPrefix(text, `"`)}
			for i+1 < len(items) {
				next, ok := items[i+1].(chewxy.Symbol)
				if !ok {
					break
				}
				i++
				part := string(next)
				if strings.HasSuffix(part, `"`) {
					parts = append(parts, strings.TrimSuffix(part, `"`))
					break
				}
				parts = append(parts, part)
			}
			out = append(out, csexp.String(strings.Join(parts, " ")))
			continue
		}
		v, err := convert(items[i], depth+1, marked)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return csexp.ListOf(out...)
}

func closedQuote(text string) bool {
	return len(text) >= 2 && strings.HasSuffix(text, `"`)
}

func leaf(text string) (csexp.Sexp, error) {
	if text == "" {
		return csexp.Nil, nil
	}
	if strings.HasPrefix(text, `"`) {
		return csexp.String(strings.TrimSuffix(strings.TrimPrefix(text, `"`), `"`)), nil
	}
	if allDigits(text) {
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("integer %q out of range: %w", text, err)
		}
		return csexp.Integer(v), nil
	}
	return csexp.Symbol(upperASCII(text)), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func upperASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, s)
}
