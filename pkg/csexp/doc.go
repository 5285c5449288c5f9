// Package csexp reads and writes canonical S-expressions.
//
// Two storage strategies are provided. The tree strategy links nodes by
// pointer (Sexp values). The linear strategy keeps every node of a document in
// one relocatable arena owned by a *Linear handle and refers to nodes by Ref
// index, so growing the arena never invalidates a caller's reference.
//
// Grammar:
//
//	sexp      := list | tagged | atom
//	list      := "(" sexp* ")"
//	tagged    := "[" atom "]" atom
//	atom      := netstring | integer | escaped | quoted | symbol
//	netstring := DIGIT+ ":" <N bytes>
//	integer   := DIGIT+                      ; only when not followed by ':'
//	escaped   := "|" <bytes except "|"> "|"
//	quoted    := "\"" <bytes except "\""> "\""
//	symbol    := <bytes except NUL,space,(,),[,],">+
//
// Bare symbols are folded to upper case (ASCII only) when read. Netstring and
// escaped symbols keep their bytes. On output a symbol is printed bare when it
// has no lower-case letters, whitespace or delimiters and does not start with a
// digit; it is wrapped in pipes otherwise, and written as a netstring when it
// contains a pipe or NUL. Strings are written between double quotes with no
// escaping, so a string holding '"' does not survive a round trip. The
// grammar has no sign for integers: a negative Integer prints as -5, which
// reads back as the symbol -5.
//
// A NUL byte ends the input outside of netstring payloads.
//
// Nothing in this package is safe for concurrent mutation. Callers sharing a
// document across goroutines must provide their own locking.
package csexp
