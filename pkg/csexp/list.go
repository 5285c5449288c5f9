package csexp

// Car returns the first element of a list. The car of nil is nil.
func Car(s Sexp) (Sexp, error) {
	switch v := s.(type) {
	case nil:
		return nil, newError(NullInput, "car of a nil interface")
	case *Cons:
		return v.first(), nil
	}
	if IsNil(s) {
		return Nil, nil
	}
	return nil, typeMismatch(KindCons, s.Kind())
}

// Cdr returns the rest of a list. The cdr of nil is nil.
func Cdr(s Sexp) (Sexp, error) {
	switch v := s.(type) {
	case nil:
		return nil, newError(NullInput, "cdr of a nil interface")
	case *Cons:
		return v.rest(), nil
	}
	if IsNil(s) {
		return Nil, nil
	}
	return nil, typeMismatch(KindCons, s.Kind())
}

// SetCar replaces the car of a cons. The empty list has no cell to modify,
// so setting the car of nil is a TypeMismatch.
func SetCar(s, v Sexp) error {
	c, err := asCons(s, v)
	if err != nil {
		return err
	}
	c.car = v
	return nil
}

// SetCdr replaces the cdr of a cons.
func SetCdr(s, v Sexp) error {
	c, err := asCons(s, v)
	if err != nil {
		return err
	}
	c.cdr = v
	return nil
}

func asCons(s, v Sexp) (*Cons, error) {
	if s == nil || v == nil {
		return nil, newError(NullInput, "set on a nil interface")
	}
	c, ok := s.(*Cons)
	if !ok {
		return nil, typeMismatch(KindCons, s.Kind())
	}
	return c, nil
}

// Nth returns the element at index n, or Nil when the list is shorter.
// Negative indices also yield Nil.
func Nth(list Sexp, n int) (Sexp, error) {
	if list == nil {
		return nil, newError(NullInput, "nth of a nil interface")
	}
	if n < 0 {
		return Nil, nil
	}
	cur := list
	for i := 0; i < n; i++ {
		if IsNil(cur) {
			return Nil, nil
		}
		c, ok := cur.(*Cons)
		if !ok {
			return nil, typeMismatch(KindCons, cur.Kind())
		}
		cur = c.rest()
	}
	return Car(cur)
}

// Length counts the conses of a proper list. A spine ending in anything but
// nil is a TypeMismatch and a spine that loops back on itself is a
// CircularList.
func Length(list Sexp) (int, error) {
	if list == nil {
		return 0, newError(NullInput, "length of a nil interface")
	}
	n := 0
	slow, fast := list, list
	for {
		if IsNil(fast) {
			return n, nil
		}
		c, ok := fast.(*Cons)
		if !ok {
			return 0, typeMismatch(KindCons, fast.Kind())
		}
		fast = c.rest()
		n++
		if n%2 == 0 {
			slow = slow.(*Cons).rest()
			if slow == fast && !IsNil(fast) {
				return 0, newError(CircularList, "")
			}
		}
	}
}

// lastCons returns the final cons of a non-empty proper list.
func lastCons(list Sexp) (*Cons, error) {
	if _, err := Length(list); err != nil {
		return nil, err
	}
	c := list.(*Cons)
	for {
		next, ok := c.rest().(*Cons)
		if !ok {
			return c, nil
		}
		c = next
	}
}

// Append adds item to the end of list and returns the head of the result.
// A non-empty list is modified in place; appending to nil returns a new list.
func Append(list, item Sexp) (Sexp, error) {
	if list == nil || item == nil {
		return nil, newError(NullInput, "append of a nil interface")
	}
	cell := &Cons{car: item, cdr: Nil}
	if IsNil(list) {
		return cell, nil
	}
	if _, ok := list.(*Cons); !ok {
		return nil, typeMismatch(KindCons, list.Kind())
	}
	last, err := lastCons(list)
	if err != nil {
		return nil, err
	}
	last.cdr = cell
	return list, nil
}

// Push is Append.
func Push(list, item Sexp) (Sexp, error) {
	return Append(list, item)
}

// Concat destructively links tail onto the end of list. Both must be proper
// lists. A tail that shares conses with list would close a loop, so it is
// rejected with CircularList and neither list is changed.
func Concat(list, tail Sexp) (Sexp, error) {
	if list == nil || tail == nil {
		return nil, newError(NullInput, "concat of a nil interface")
	}
	if _, err := Length(tail); err != nil {
		return nil, err
	}
	if IsNil(list) {
		return tail, nil
	}
	if _, ok := list.(*Cons); !ok {
		return nil, typeMismatch(KindCons, list.Kind())
	}
	last, err := lastCons(list)
	if err != nil {
		return nil, err
	}
	for cur := tail; !IsNil(cur); cur = cur.(*Cons).rest() {
		if cur == Sexp(last) {
			return nil, newError(CircularList, "concat tail shares conses with the list")
		}
	}
	last.cdr = tail
	return list, nil
}

// ListOf builds a fresh proper list of items.
func ListOf(items ...Sexp) (Sexp, error) {
	var list Sexp = Nil
	for i := len(items) - 1; i >= 0; i-- {
		if items[i] == nil {
			return nil, newError(NullInput, "list element is a nil interface")
		}
		list = &Cons{car: items[i], cdr: list}
	}
	return list, nil
}

// ToSlice returns the elements of a proper list.
func ToSlice(list Sexp) ([]Sexp, error) {
	n, err := Length(list)
	if err != nil {
		return nil, err
	}
	items := make([]Sexp, 0, n)
	for cur := list; !IsNil(cur); {
		c := cur.(*Cons)
		items = append(items, c.first())
		cur = c.rest()
	}
	return items, nil
}

// Copy returns a deep copy of s. Symbols, strings and integers are values and
// are shared; conses and tagged atoms are fresh.
func Copy(s Sexp) (Sexp, error) {
	return copySexp(s, 0)
}

func copySexp(s Sexp, depth int) (Sexp, error) {
	if depth > MaxDepthLimit {
		return nil, newError(DepthExceeded, "")
	}
	switch v := s.(type) {
	case nil:
		return nil, newError(NullInput, "copy of a nil interface")
	case *Tagged:
		atom, err := copySexp(v.atom, depth+1)
		if err != nil {
			return nil, err
		}
		return &Tagged{tag: v.tag, atom: atom}, nil
	case *Cons:
		items, err := ToSlice(v)
		if err != nil {
			return nil, err
		}
		for i, item := range items {
			if items[i], err = copySexp(item, depth+1); err != nil {
				return nil, err
			}
		}
		return ListOf(items...)
	}
	return s, nil
}
