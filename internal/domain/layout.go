package domain

import (
	"fmt"
	"sort"
)

// SeatingLayout maps a section name to its seat grid. The layout is fixed at
// show creation; seat labels are derived from it exactly once.
type SeatingLayout map[string]SectionLayout

type SectionLayout struct {
	Rows        int        `json:"rows"`
	Cols        int        `json:"cols"`
	Category    string     `json:"category,omitempty"`
	Unavailable []GridCell `json:"unavailable,omitempty"`
}

// GridCell addresses one cell of a section grid, zero-based.
type GridCell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SeatLabels derives the full seat universe from the layout. Labels take the
// form "{section}-{rowLetter}{colNumber}" with row letters A, B, C, ... and
// one-based column numbers; cells on a section's unavailable list are skipped.
// Sections are walked in name order so the result is deterministic.
func (l SeatingLayout) SeatLabels() []string {
	sections := make([]string, 0, len(l))
	for name := range l {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	var labels []string

	for _, name := range sections {
		section := l[name]

		excluded := make(map[GridCell]bool, len(section.Unavailable))
		for _, cell := range section.Unavailable {
			excluded[cell] = true
		}

		for row := 0; row < section.Rows; row++ {
			for col := 0; col < section.Cols; col++ {
				if excluded[GridCell{Row: row, Col: col}] {
					continue
				}

				labels = append(labels, fmt.Sprintf("%s-%c%d", name, 'A'+row, col+1))
			}
		}
	}

	return labels
}

// Contains reports whether every given seat label belongs to the layout's
// derived universe, returning the labels that do not.
func (l SeatingLayout) Contains(seats []string) (missing []string) {
	universe := make(map[string]bool)
	for _, label := range l.SeatLabels() {
		universe[label] = true
	}

	for _, seat := range seats {
		if !universe[seat] {
			missing = append(missing, seat)
		}
	}

	return missing
}
