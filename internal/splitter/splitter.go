// Package splitter segments text containing fenced code blocks
// (```lang\n...\n```) into an ordered list of non-overlapping
// byte-range spans.
//
// Surrounding prose is passed through as single spans. The body of a
// block tagged with a configured language is refined into token-level
// spans by a lexer backend; any other body stays a single opaque
// span. The output always partitions the input: concatenating the
// addressed slices in order reproduces the text exactly.
package splitter

import (
	"log"
	"regexp"

	"braces.dev/errtrace"

	"github.com/tokenprep/fencesplit/internal/lexer"
	"github.com/tokenprep/fencesplit/internal/span"
)

// fencePattern matches one fenced code block: three backticks, an
// optional word-character language tag ended by a newline, then the
// shortest body reaching the next three backticks.
//
// An opening fence with no closing fence never matches and is left
// as ordinary text. Fences do not nest: the first ``` after the tag
// line closes the block, even if it sits inside a string literal of
// the fenced code.
const fencePattern = "```" + `(\w+)?\n((?s:.*?))` + "```"

// Splitter splits documents around fenced code blocks.
// Construct it with [New]; a Splitter is immutable afterwards and
// safe for concurrent use on independent documents.
type Splitter struct {
	languages []string // case-folded
	fence     *regexp.Regexp
	registry  *lexer.Registry
	log       *log.Logger
}

// New builds a Splitter from the given configuration.
// It fails only if the fence pattern does not compile,
// which indicates a defect rather than bad configuration.
func New(cfg Config) (*Splitter, error) {
	fence, err := regexp.Compile(fencePattern)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	langs := cfg.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages()
	}
	folded := make([]string, len(langs))
	for i, l := range langs {
		folded[i] = lexer.Fold(l)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = lexer.NewRegistry()
	}

	return &Splitter{
		languages: folded,
		fence:     fence,
		registry:  registry,
		log:       cfg.Log,
	}, nil
}

// Split returns spans that partition text: strictly ascending,
// non-overlapping, never empty, and covering every byte.
//
// Split does not fail. Code blocks that cannot be refined - an
// unconfigured or unimplemented language, or a backend lex error -
// degrade to a single opaque span for the body, with a note on the
// configured logger.
func (s *Splitter) Split(text string) []span.Span {
	var out []span.Span
	cursor := 0
	for _, m := range s.scan(text) {
		if m.whole.Start > cursor {
			out = appendSpan(out, span.Span{Start: cursor, End: m.whole.Start})
		}
		out = appendSpan(out, m.open)
		for _, sp := range s.splitBody(text, m) {
			out = appendSpan(out, sp)
		}
		out = appendSpan(out, m.close)
		cursor = m.whole.End
	}
	if cursor < len(text) {
		out = appendSpan(out, span.Span{Start: cursor, End: len(text)})
	}
	return out
}

// appendSpan adds sp to spans unless it is empty.
func appendSpan(spans []span.Span, sp span.Span) []span.Span {
	if sp.Empty() {
		return spans
	}
	return append(spans, sp)
}

// fenceMatch is one fenced code block located in a document.
type fenceMatch struct {
	whole span.Span // opening backticks through closing backticks
	tag   string    // language tag, "" if none
	open  span.Span // ```lang\n
	body  span.Span // may be empty
	close span.Span // ```
}

// scan locates every fenced code block in text, in document order.
func (s *Splitter) scan(text string) []fenceMatch {
	idxs := s.fence.FindAllStringSubmatchIndex(text, -1)
	matches := make([]fenceMatch, 0, len(idxs))
	for _, idx := range idxs {
		m := fenceMatch{
			whole: span.Span{Start: idx[0], End: idx[1]},
			body:  span.Span{Start: idx[4], End: idx[5]},
		}
		if idx[2] >= 0 {
			m.tag = text[idx[2]:idx[3]]
		}
		m.open = span.Span{Start: m.whole.Start, End: m.body.Start}
		m.close = span.Span{Start: m.body.End, End: m.whole.End}
		matches = append(matches, m)
	}
	return matches
}

// splitBody returns the spans for a block's body: token-level spans
// covering the body end to end when a backend handles the language,
// or the body as one opaque span.
func (s *Splitter) splitBody(text string, m fenceMatch) []span.Span {
	if m.body.Empty() {
		return nil
	}
	opaque := []span.Span{m.body}

	if m.tag == "" || !s.configured(m.tag) {
		return opaque
	}

	backend, ok := s.registry.Lookup(m.tag)
	if !ok {
		s.logf("no lexer for language %q, leaving code block opaque", m.tag)
		return opaque
	}

	parts, err := backend.Lex(m.body.Text(text), m.body.Start)
	if err != nil {
		s.logf("lexing %q code block: %v", m.tag, err)
		return opaque
	}
	return stitch(m.body, parts)
}

// configured reports whether tag is in the configured language set.
func (s *Splitter) configured(tag string) bool {
	folded := lexer.Fold(tag)
	for _, l := range s.languages {
		if l == folded {
			return true
		}
	}
	return false
}

// stitch closes the gaps in an ascending list of token spans so that
// the result covers body end to end: whitespace between tokens is
// folded into the token that follows it, and anything left between
// the last token and the end of the body becomes a final span.
func stitch(body span.Span, parts []span.Span) []span.Span {
	out := make([]span.Span, 0, len(parts)+1)
	cursor := body.Start
	for _, p := range parts {
		if p.End > body.End {
			p.End = body.End
		}
		if p.End <= cursor {
			continue
		}
		// Every kept span starts exactly at the cursor; a span
		// that started later absorbs the gap before it.
		p.Start = cursor
		out = append(out, p)
		cursor = p.End
	}
	if cursor < body.End {
		out = append(out, span.Span{Start: cursor, End: body.End})
	}
	return out
}

func (s *Splitter) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}
