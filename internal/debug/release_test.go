//go:build release

package debug

import (
	"errors"
	"testing"
)

func TestReleaseChecksAreNoOps(t *testing.T) {
	if Enabled {
		t.Fatal("Enabled is true in a release build")
	}
	Assert("broken", func() bool {
		t.Error("assertion evaluated in a release build")
		return false
	})
	Check(false, func() error {
		t.Error("error built in a release build")
		return errors.New("sentinel")
	})
}
