// Package d provides the assertion helpers used throughout this repository
// to fail fast on programming errors, mirroring the teacher's go/store/d.
package d

import "fmt"

// PanicIfTrue panics if b is true.
func PanicIfTrue(b bool) {
	if b {
		panic("d.PanicIfTrue")
	}
}

// PanicIfFalse panics if b is false.
func PanicIfFalse(b bool) {
	if !b {
		panic("d.PanicIfFalse")
	}
}

// PanicIfError panics if err is non-nil.
func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

// Panic panics with a formatted message.
func Panic(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}
