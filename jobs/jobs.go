// Package jobs is the minimal fork-join scheduler the parallel list is driven
// by. It fixes the process-wide number of worker slots, hands every
// concurrently running worker goroutine a distinct slot index in
// [0, ThreadIndexCount()), and returns from each dispatch only after all of
// its workers have exited. That return is the barrier after which the
// written containers may be read.
package jobs

import (
	"runtime"
	"sync"
)

// MaxThreadIndexCount caps the number of worker slots regardless of how many
// CPUs the machine reports.
const MaxThreadIndexCount = 256

var threadIndexCount = sync.OnceValue(func() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	if n > MaxThreadIndexCount {
		n = MaxThreadIndexCount
	}
	return n
})

// ThreadIndexCount returns the number of worker slots N. It is computed once
// per process and never changes afterwards.
func ThreadIndexCount() int {
	return threadIndexCount()
}
