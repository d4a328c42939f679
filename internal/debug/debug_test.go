//go:build !release

package debug

import (
	"errors"
	"testing"
)

func TestAssert(t *testing.T) {
	Assert("holds", func() bool { return true })

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if r != "assertion failed: broken" {
			t.Errorf("unexpected panic value %v", r)
		}
	}()
	Assert("broken", func() bool { return false })
}

func TestCheck(t *testing.T) {
	sentinel := errors.New("sentinel")
	Check(true, func() error {
		t.Fatal("error built for a passing check")
		return nil
	})

	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, sentinel) {
			t.Errorf("expected panic with sentinel, got %v", err)
		}
	}()
	Check(false, func() error { return sentinel })
}
