package vec

import (
	"errors"
	"testing"
)

func TestPushPop(t *testing.T) {
	v := New[int](0)
	for i := 0; i < 10; i++ {
		idx, err := v.Push(i * 10)
		if err != nil {
			t.Fatalf("Push(%d) unexpected error: %v", i, err)
		}
		if idx != i {
			t.Errorf("Push() index = %d, want %d", idx, i)
		}
	}
	if v.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", v.Len())
	}
	if v.Cap() < v.Len() {
		t.Errorf("Cap() = %d is below Len() = %d", v.Cap(), v.Len())
	}
	if got := v.At(3); got != 30 {
		t.Errorf("At(3) = %d, want 30", got)
	}

	x, ok := v.Pop()
	if !ok || x != 90 {
		t.Errorf("Pop() = %d, %v; want 90, true", x, ok)
	}
	if v.Len() != 9 {
		t.Errorf("Len() after Pop = %d, want 9", v.Len())
	}

	empty := New[string](0)
	if _, ok := empty.Pop(); ok {
		t.Error("Pop() on empty vec reported ok")
	}
}

func TestReserveDoubles(t *testing.T) {
	v := New[byte](4)
	for i := 0; i < 4; i++ {
		v.Push(byte(i))
	}
	if err := v.Reserve(1); err != nil {
		t.Fatalf("Reserve() unexpected error: %v", err)
	}
	if v.Cap() != 8 {
		t.Errorf("Cap() after growth = %d, want 8", v.Cap())
	}

	if err := v.Reserve(100); err != nil {
		t.Fatalf("Reserve(100) unexpected error: %v", err)
	}
	if v.Cap() < 104 {
		t.Errorf("Cap() = %d, want at least 104", v.Cap())
	}

	if err := v.Reserve(MaxLen); !errors.Is(err, ErrCapacity) {
		t.Errorf("Reserve(MaxLen) error = %v, want ErrCapacity", err)
	}
	if err := v.Reserve(-1); err == nil {
		t.Error("Reserve(-1) expected error, got nil")
	}
}

func TestResizeTruncate(t *testing.T) {
	v := New[int](0)
	if err := v.Resize(5); err != nil {
		t.Fatalf("Resize(5) unexpected error: %v", err)
	}
	if v.Len() != 5 || v.At(4) != 0 {
		t.Errorf("Resize(5) gave len %d, last %d", v.Len(), v.At(4))
	}
	v.Set(1, 7)
	if err := v.Resize(2); err != nil {
		t.Fatalf("Resize(2) unexpected error: %v", err)
	}
	if v.Len() != 2 || v.At(1) != 7 {
		t.Errorf("Resize(2) gave len %d, [1]=%d", v.Len(), v.At(1))
	}

	v.Truncate(10)
	if v.Len() != 2 {
		t.Errorf("Truncate past end changed len to %d", v.Len())
	}
	v.Truncate(0)
	if v.Len() != 0 {
		t.Errorf("Truncate(0) left len %d", v.Len())
	}
	if err := v.Resize(-1); err == nil {
		t.Error("Resize(-1) expected error, got nil")
	}
}

func TestSlice(t *testing.T) {
	v := New[byte](0)
	for _, b := range []byte("hello") {
		v.Push(b)
	}
	if got := string(v.Slice(1, 4)); got != "ell" {
		t.Errorf("Slice(1, 4) = %q, want %q", got, "ell")
	}
}

func TestExtend(t *testing.T) {
	v := New[byte](2)
	v.Push('a')
	start, err := v.Extend([]byte("bcdef"))
	if err != nil {
		t.Fatalf("Extend() unexpected error: %v", err)
	}
	if start != 1 {
		t.Errorf("Extend() start = %d, want 1", start)
	}
	if got := string(v.Slice(0, v.Len())); got != "abcdef" {
		t.Errorf("contents = %q, want %q", got, "abcdef")
	}
}
