// Package main provides the pebble CLI, a shop catalog kept in a pebble
// record store.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks errors caused by bad input on the command line.
var errUsage = errors.New("usage error")

// userErrors are the library errors a user can fix by changing the input.
var userErrors = []error{
	errUsage,
	types.ErrUnknownField,
	types.ErrInvalidLimit,
	types.ErrSerialization,
	types.ErrDriverEmpty,
	types.ErrDriverUnknown,
	types.ErrCoercionUnknown,
	types.ErrDSNInvalid,
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pebble:", err)
	}
	os.Exit(exitCode(err))
}
