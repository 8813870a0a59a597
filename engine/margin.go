package engine

// Match-play result vocabulary. The value is the tiebreak weight a win
// of that magnitude carries in the standings, not a hole differential.
var marginTable = []struct {
	label string
	value int
}{
	{"1 up", 1},
	{"2 and 1", 3},
	{"3 and 2", 5},
	{"4 and 3", 7},
	{"5 and 4", 9},
	{"6 and 5", 11},
	{"7 and 6", 13},
	{"8 and 7", 15},
	{"9 and 8", 17},
}

// MarginValue returns the standings weight for a result label.
func MarginValue(label string) (int, bool) {
	for _, m := range marginTable {
		if m.label == label {
			return m.value, true
		}
	}
	return 0, false
}

// MarginLabel returns the result label for a standings weight.
func MarginLabel(value int) (string, bool) {
	for _, m := range marginTable {
		if m.value == value {
			return m.label, true
		}
	}
	return "", false
}

// MarginLabels lists the valid result labels in ascending order of
// margin.
func MarginLabels() []string {
	labels := make([]string, len(marginTable))
	for i, m := range marginTable {
		labels[i] = m.label
	}
	return labels
}
