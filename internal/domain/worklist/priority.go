package worklist

// Priority is the urgency level of a work item. Lower value = more urgent;
// the numeric value doubles as the sort order.
type Priority int

const (
	PriorityUber Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
	PriorityMeh
)

var priorityNames = [...]string{"uber", "high", "normal", "low", "meh"}

// Valid reports whether p lies in the closed enumeration {0..4}.
// Anything outside is treated as an absent override, never an error.
func (p Priority) Valid() bool {
	return p >= PriorityUber && p <= PriorityMeh
}

func (p Priority) Name() string {
	if !p.Valid() {
		return ""
	}
	return priorityNames[p]
}

// PriorityNames returns the level names in fixed display order,
// most urgent first.
func PriorityNames() []string {
	out := make([]string, len(priorityNames))
	copy(out, priorityNames[:])
	return out
}
