package symbol

import (
	"slices"
	"strconv"
)

// LabelSet holds the statement labels declared during one compilation run.
// It is flat: a label declared in any block is visible to every statement
// parsed after the declaration.
type LabelSet struct {
	labels map[string]int // label -> declaring line
}

// Add records label as declared on line. Redeclaring a label keeps the first line.
func (ls *LabelSet) Add(label string, line int) {
	if ls.labels == nil {
		ls.labels = make(map[string]int)
	}
	if _, ok := ls.labels[label]; !ok {
		ls.labels[label] = line
	}
}

// Has reports whether label was declared.
func (ls *LabelSet) Has(label string) bool {
	_, ok := ls.labels[label]
	return ok
}

// Line returns the line label was first declared on.
func (ls *LabelSet) Line(label string) (int, bool) {
	line, ok := ls.labels[label]
	return line, ok
}

// Len returns the number of declared labels.
func (ls *LabelSet) Len() int { return len(ls.labels) }

// Sorted returns the declared labels in ascending numeric order.
func (ls *LabelSet) Sorted() []string {
	out := make([]string, 0, len(ls.labels))
	for label := range ls.labels {
		out = append(out, label)
	}
	slices.SortFunc(out, func(a, b string) int {
		na, errA := strconv.Atoi(a)
		nb, errB := strconv.Atoi(b)
		if errA == nil && errB == nil && na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	})
	return out
}

// Reset forgets all labels.
func (ls *LabelSet) Reset() {
	clear(ls.labels)
}
