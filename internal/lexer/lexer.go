// Package lexer resolves fence language identifiers
// to token-boundary backends.
//
// A backend reports where the meaningful token boundaries of a piece
// of code lie as byte-range spans. Backends may leave gaps between
// spans (whitespace is not a token); callers are expected to close
// those gaps themselves.
package lexer

import (
	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/text/cases"

	"github.com/tokenprep/fencesplit/internal/span"
)

// Backend turns code into token-boundary spans.
type Backend interface {
	// Lex reports the token boundaries of code as absolute byte
	// ranges, offset being code's start in the enclosing text.
	// The ranges are ascending and non-overlapping but need not be
	// contiguous.
	//
	// Errors are recoverable: the caller falls back to treating
	// code as a single opaque range.
	Lex(code string, offset int) ([]span.Span, error)
}

// Registry maps language identifiers to backends.
// Identifiers are matched case-insensitively.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry returns a registry with the built-in backends wired:
// Python under both "python" and "py".
func NewRegistry() *Registry {
	r := &Registry{backends: make(map[string]Backend)}

	py := &chromaBackend{lexer: lexers.Get("python")}
	r.Register("python", py)
	r.Register("py", py)

	return r
}

// Register adds a backend under the given language identifier,
// replacing any backend previously registered for it.
func (r *Registry) Register(lang string, b Backend) {
	r.backends[Fold(lang)] = b
}

// Lookup returns the backend for a language identifier, if any.
func (r *Registry) Lookup(lang string) (Backend, bool) {
	b, ok := r.backends[Fold(lang)]
	return b, ok
}

// Fold case-folds a language identifier for comparison.
func Fold(lang string) string {
	return cases.Fold().String(lang)
}
