package splitter

import (
	"log"

	"github.com/tokenprep/fencesplit/internal/lexer"
)

// Config configures a [Splitter].
// Its JSON form carries only the language list,
// so a Config can be stored alongside other pipeline settings.
type Config struct {
	// Languages lists the fence language tags whose bodies are
	// refined by a lexer backend. Matching is case-insensitive.
	// Empty means [DefaultLanguages].
	Languages []string `json:"languages,omitempty"`

	// Registry resolves language tags to backends.
	// Nil means the built-in registry.
	Registry *lexer.Registry `json:"-"`

	// Log receives notes about blocks that could not be refined:
	// a configured language without a backend, or a backend lex
	// failure. Nil discards them.
	Log *log.Logger `json:"-"`
}

// DefaultLanguages returns the language set used
// when none is configured.
func DefaultLanguages() []string {
	return []string{"python", "py"}
}
