package notes

import (
	"fmt"
	"strings"

	"github.com/chartnote/chartnote/internal/domain/chart"
)

// SectionID names one renderable section of an assembled note.
type SectionID string

const (
	SectionSubjective     SectionID = "subjective"
	SectionObjective      SectionID = "objective"
	SectionLabs           SectionID = "labs"
	SectionAssessmentPlan SectionID = "assessment_plan"
	SectionDiet           SectionID = "diet"
	SectionProphylaxis    SectionID = "prophylaxis"
	SectionDisposition    SectionID = "disposition"
	SectionEquipment      SectionID = "equipment"
	SectionBilling        SectionID = "billing"
)

// FormState is the structured editor state a note is assembled from. Fields
// left empty render as placeholder bodies so the sign gate catches them.
type FormState struct {
	Subjective     string   `json:"subjective"`
	Exam           string   `json:"exam"`
	AssessmentPlan []string `json:"assessment_plan"`
	Diet           string   `json:"diet"`
	Prophylaxis    string   `json:"prophylaxis"`
	Disposition    string   `json:"disposition"`
	Equipment      string   `json:"equipment"`
	BillingCode    string   `json:"billing_code"`
}

type sectionRenderer func(FormState, *chart.Snapshot) string

// Assembler serializes form state and chart data into one text document.
// Sections render in an explicit, reorderable list; optional sections can be
// toggled off without disturbing the order.
type Assembler struct {
	order    []SectionID
	enabled  map[SectionID]bool
	renderer map[SectionID]sectionRenderer
}

// DefaultOrder is the standard progress-note section order.
func DefaultOrder() []SectionID {
	return []SectionID{
		SectionSubjective,
		SectionObjective,
		SectionLabs,
		SectionAssessmentPlan,
		SectionDiet,
		SectionProphylaxis,
		SectionDisposition,
		SectionEquipment,
		SectionBilling,
	}
}

func NewAssembler() *Assembler {
	a := &Assembler{
		order:   DefaultOrder(),
		enabled: make(map[SectionID]bool),
		renderer: map[SectionID]sectionRenderer{
			SectionSubjective:     renderSubjective,
			SectionObjective:      renderObjective,
			SectionLabs:           renderLabs,
			SectionAssessmentPlan: renderAssessmentPlan,
			SectionDiet:           renderDiet,
			SectionProphylaxis:    renderProphylaxis,
			SectionDisposition:    renderDisposition,
			SectionEquipment:      renderEquipment,
			SectionBilling:        renderBilling,
		},
	}
	for _, id := range a.order {
		a.enabled[id] = true
	}
	return a
}

// Order returns a copy of the current section order.
func (a *Assembler) Order() []SectionID {
	out := make([]SectionID, len(a.order))
	copy(out, a.order)
	return out
}

// SetEnabled toggles a section without changing its position.
func (a *Assembler) SetEnabled(id SectionID, on bool) {
	if _, ok := a.renderer[id]; ok {
		a.enabled[id] = on
	}
}

func (a *Assembler) indexOf(id SectionID) int {
	for i, s := range a.order {
		if s == id {
			return i
		}
	}
	return -1
}

// MoveUp swaps the section one position earlier. Moving the first section is
// a no-op.
func (a *Assembler) MoveUp(id SectionID) {
	i := a.indexOf(id)
	if i <= 0 {
		return
	}
	a.order[i-1], a.order[i] = a.order[i], a.order[i-1]
}

// MoveDown swaps the section one position later. Moving the last section is
// a no-op.
func (a *Assembler) MoveDown(id SectionID) {
	i := a.indexOf(id)
	if i < 0 || i >= len(a.order)-1 {
		return
	}
	a.order[i], a.order[i+1] = a.order[i+1], a.order[i]
}

// Render concatenates the enabled sections in order. It always returns a
// document; missing data renders as placeholder bodies, so the result feeds
// directly into the placeholder sign gate.
func (a *Assembler) Render(form FormState, snap *chart.Snapshot) string {
	var b strings.Builder
	for _, id := range a.order {
		if !a.enabled[id] {
			continue
		}
		render, ok := a.renderer[id]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(render(form, snap))
	}
	return b.String()
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return PlaceholderToken + " " + PlaceholderToken
	}
	return s
}

func renderSubjective(f FormState, _ *chart.Snapshot) string {
	return "SUBJECTIVE:\n" + orPlaceholder(f.Subjective) + "\n"
}

func renderObjective(f FormState, snap *chart.Snapshot) string {
	var b strings.Builder
	b.WriteString("OBJECTIVE:\n")
	if snap != nil && len(snap.Vitals) > 0 {
		b.WriteString("Vitals:\n")
		for _, v := range snap.Vitals {
			line := fmt.Sprintf("  %s: %s", v.Name, v.Value)
			if v.Unit != nil {
				line += " " + *v.Unit
			}
			if v.Flag != nil {
				line += " (" + *v.Flag + ")"
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("Exam:\n" + orPlaceholder(f.Exam) + "\n")
	return b.String()
}

func renderLabs(_ FormState, snap *chart.Snapshot) string {
	var b strings.Builder
	b.WriteString("LABS:\n")
	if snap == nil || len(snap.Labs) == 0 {
		b.WriteString(orPlaceholder("") + "\n")
		return b.String()
	}
	for _, l := range snap.Labs {
		line := fmt.Sprintf("  %s: %s", l.Name, l.Value)
		if l.Unit != nil {
			line += " " + *l.Unit
		}
		if l.Flag != nil {
			line += " [" + *l.Flag + "]"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderAssessmentPlan(f FormState, snap *chart.Snapshot) string {
	var b strings.Builder
	b.WriteString("ASSESSMENT & PLAN:\n")
	entries := f.AssessmentPlan
	if len(entries) == 0 && snap != nil {
		for _, c := range snap.Conditions {
			if c.Status == "active" {
				entries = append(entries, c.Display+": "+PlaceholderToken+" plan "+PlaceholderToken)
			}
		}
	}
	if len(entries) == 0 {
		b.WriteString(orPlaceholder("") + "\n")
		return b.String()
	}
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, e))
	}
	return b.String()
}

func renderDiet(f FormState, _ *chart.Snapshot) string {
	return "DIET:\n" + orPlaceholder(f.Diet) + "\n"
}

func renderProphylaxis(f FormState, _ *chart.Snapshot) string {
	return "DVT PROPHYLAXIS:\n" + orPlaceholder(f.Prophylaxis) + "\n"
}

func renderDisposition(f FormState, _ *chart.Snapshot) string {
	return "DISPOSITION:\n" + orPlaceholder(f.Disposition) + "\n"
}

func renderEquipment(f FormState, _ *chart.Snapshot) string {
	return "EQUIPMENT:\n" + orPlaceholder(f.Equipment) + "\n"
}

func renderBilling(f FormState, _ *chart.Snapshot) string {
	return "BILLING:\n" + orPlaceholder(f.BillingCode) + "\n"
}
