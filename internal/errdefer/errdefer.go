// Package errdefer provides functions for running operations
// that must be deferred until the end of a function,
// but which may return errors that should be returned from the function.
package errdefer

import "errors"

// Run calls f and joins any error it returns with the given error.
//
// Use it inside a defer statement with a named return:
//
//	defer errdefer.Run(&err, closeDebug)
func Run(err *error, f func() error) {
	*err = errors.Join(*err, f())
}
