// Package macros holds the dot-phrase table: short trigger words that
// expand to canned blocks of clinical text while a note is being typed.
// The table is populated once at startup and read-only afterwards.
package macros

import "strings"

// Macro maps a trigger word to its expansion template. Templates may
// contain "***" placeholder markers for fields the clinician must fill in.
type Macro struct {
	Trigger  string `json:"trigger"`
	Template string `json:"template"`
	Category string `json:"category,omitempty"`
}

// Table is an ordered collection of macros. Insertion order is preserved
// because suggestion lists are ranked by it.
type Table struct {
	entries   []Macro
	byTrigger map[string]int
}

func NewTable(entries ...Macro) *Table {
	t := &Table{byTrigger: make(map[string]int)}
	for _, m := range entries {
		t.Add(m)
	}
	return t
}

// Add appends a macro. A macro with a trigger already present replaces the
// existing template in place, keeping its original position.
func (t *Table) Add(m Macro) {
	key := strings.ToLower(m.Trigger)
	if i, ok := t.byTrigger[key]; ok {
		t.entries[i] = m
		return
	}
	t.byTrigger[key] = len(t.entries)
	t.entries = append(t.entries, m)
}

func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the macro for an exact trigger match, case-insensitive.
func (t *Table) Lookup(trigger string) (Macro, bool) {
	i, ok := t.byTrigger[strings.ToLower(trigger)]
	if !ok {
		return Macro{}, false
	}
	return t.entries[i], true
}

// MatchPrefix returns macros whose trigger starts with prefix
// (case-insensitive), in insertion order. A limit <= 0 means no cap.
func (t *Table) MatchPrefix(prefix string, limit int) []Macro {
	prefix = strings.ToLower(prefix)
	var out []Macro
	for _, m := range t.entries {
		if strings.HasPrefix(strings.ToLower(m.Trigger), prefix) {
			out = append(out, m)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// All returns the macros in insertion order. The returned slice is a copy.
func (t *Table) All() []Macro {
	out := make([]Macro, len(t.entries))
	copy(out, t.entries)
	return out
}
