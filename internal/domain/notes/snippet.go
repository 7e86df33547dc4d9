package notes

import (
	"github.com/chartnote/chartnote/internal/domain/macros"
)

// DefaultSuggestionLimit caps the suggestion list shown for a dot-phrase
// prefix.
const DefaultSuggestionLimit = 10

// Expander turns ".." dot-phrase triggers typed inline into their macro
// templates. It is stateless; the per-keystroke suggestion state lives in
// the Prompt it returns.
type Expander struct {
	table *macros.Table
	limit int
}

func NewExpander(table *macros.Table) *Expander {
	return &Expander{table: table, limit: DefaultSuggestionLimit}
}

// Prompt is the suggestion state for an in-progress dot-phrase: the matched
// trigger span, the candidate macros, and the highlighted index.
type Prompt struct {
	Active      bool           `json:"active"`
	Start       int            `json:"start"`
	Prefix      string         `json:"prefix"`
	Suggestions []macros.Macro `json:"suggestions,omitempty"`
	Highlight   int            `json:"highlight"`
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

// Detect inspects the text ending at cursor for a dot-phrase trigger: two
// literal dots followed by a non-empty run of word characters reaching the
// cursor. It returns the prefix (the word run) and the offset of the first
// dot. A bare ".." with nothing typed after it is not a trigger.
func (e *Expander) Detect(text string, cursor int) (prefix string, start int, ok bool) {
	if cursor < 0 || cursor > len(text) {
		return "", 0, false
	}
	i := cursor
	for i > 0 && isWordChar(text[i-1]) {
		i--
	}
	if i == cursor || i < 2 || text[i-2:i] != ".." {
		return "", 0, false
	}
	return text[i:cursor], i - 2, true
}

// Evaluate recomputes the suggestion prompt for the buffer and cursor. It is
// called on every change event; an inactive prompt means no trigger is under
// the cursor or nothing matches.
func (e *Expander) Evaluate(text string, cursor int) Prompt {
	prefix, start, ok := e.Detect(text, cursor)
	if !ok {
		return Prompt{}
	}
	suggestions := e.table.MatchPrefix(prefix, e.limit)
	if len(suggestions) == 0 {
		return Prompt{}
	}
	return Prompt{
		Active:      true,
		Start:       start,
		Prefix:      prefix,
		Suggestions: suggestions,
	}
}

// MoveDown advances the highlight, clamped to the last suggestion.
func (p *Prompt) MoveDown() {
	if p.Highlight < len(p.Suggestions)-1 {
		p.Highlight++
	}
}

// MoveUp retreats the highlight, clamped to the first suggestion.
func (p *Prompt) MoveUp() {
	if p.Highlight > 0 {
		p.Highlight--
	}
}

// Dismiss deactivates the prompt without touching the buffer.
func (p *Prompt) Dismiss() {
	*p = Prompt{}
}

// Highlighted returns the currently highlighted macro.
func (p *Prompt) Highlighted() (macros.Macro, bool) {
	if !p.Active || p.Highlight < 0 || p.Highlight >= len(p.Suggestions) {
		return macros.Macro{}, false
	}
	return p.Suggestions[p.Highlight], true
}

// Expand commits the highlighted suggestion: the span from the ".." through
// the cursor is replaced with the macro template, and the new cursor lands
// immediately after the inserted text. When the prompt is inactive the
// buffer is returned unchanged.
func (e *Expander) Expand(text string, cursor int, p Prompt) (string, int) {
	m, ok := p.Highlighted()
	if !ok || p.Start < 0 || p.Start > cursor || cursor > len(text) {
		return text, cursor
	}
	out := text[:p.Start] + m.Template + text[cursor:]
	return out, p.Start + len(m.Template)
}
