package lexer

import (
	"strings"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"

	"github.com/tokenprep/fencesplit/internal/span"
)

// chromaBackend builds a [Backend] from a Chroma lexer.
//
// The lexer is deliberately not coalesced: keeping adjacent
// same-type tokens apart gives the caller finer boundaries and lets
// line terminators be handled separately from indentation.
type chromaBackend struct{ lexer chroma.Lexer }

var _ Backend = (*chromaBackend)(nil)

// Lex tokenizes code with Chroma and converts the token stream into
// boundary spans. Chroma tokens concatenate back to the input
// exactly, so offsets are recovered by accumulating value lengths.
//
// Two kinds of tokens are not reported as boundaries of their own:
//
//   - A bare line terminator extends the span before it. With no
//     span before it, it is dropped and left for the caller to
//     absorb into whatever follows.
//   - Other all-whitespace tokens (indentation, spacing) are
//     withheld so that the caller folds them into the next token.
//
// An Error-typed token aborts lexing; the block is then treated as
// opaque by the caller.
func (b *chromaBackend) Lex(code string, offset int) ([]span.Span, error) {
	tokens, err := chroma.Tokenise(b.lexer, nil, code)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var spans []span.Span
	pos, limit := offset, offset+len(code)
	for _, tok := range tokens {
		start, end := pos, pos+len(tok.Value)
		pos = end

		// Chroma synthesizes a trailing newline for lexers
		// configured with EnsureNL. Anything past the input
		// is not ours to report.
		if start >= limit {
			break
		}
		if end > limit {
			end = limit
		}

		switch {
		case tok.Type == chroma.Error:
			return nil, errtrace.Errorf("invalid token at byte %d: %q", start-offset, tok.Value)

		case tok.Value == "":
			// No bytes, no boundary.

		case lineTerminator(tok.Value):
			if n := len(spans); n > 0 {
				spans[n-1].End = end
			}

		case strings.TrimSpace(tok.Value) == "":
			// Withheld; becomes a gap.

		default:
			spans = append(spans, span.Span{Start: start, End: end})
		}
	}

	return spans, nil
}

// lineTerminator reports whether s consists only of
// newline and carriage return characters.
func lineTerminator(s string) bool {
	return strings.Trim(s, "\r\n") == ""
}
