//go:build !release

// Package debug holds the validation layer of the module. It is compiled in
// by default and removed with -tags release, where every check below turns
// into an empty, inlined call.
package debug

// Enabled reports whether validation is compiled in. Guard expensive checks
// with it so release builds drop them entirely.
const Enabled = true

// Assert panics with an assertion failure when fn reports false.
func Assert(info string, fn func() bool) {
	if !fn() {
		panic("assertion failed: " + info)
	}
}

// Check panics with the error built by fn when ok is false.
func Check(ok bool, fn func() error) {
	if !ok {
		panic(fn())
	}
}
