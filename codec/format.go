package codec

import (
	"sort"
	"strings"
)

// Parameter is one key/value pair in a VideoFormat's ordered parameter
// list. Order matters for wire round-tripping even though it is
// irrelevant to equality and sorting.
type Parameter struct {
	Key   string
	Value string
}

// VideoFormat identifies a codec by name plus an ordered set of
// parameters (for example H264's profile-level-id). Two formats are equal
// iff their name and parameter set (regardless of parameter order) match.
type VideoFormat struct {
	Name       string
	Parameters []Parameter
}

// Equal reports whether f and other name the same codec with the same
// parameter set, ignoring parameter order.
func (f VideoFormat) Equal(other VideoFormat) bool {
	if f.Name != other.Name || len(f.Parameters) != len(other.Parameters) {
		return false
	}
	a := sortedParams(f.Parameters)
	b := sortedParams(other.Parameters)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortKey returns a deterministic string used to order VideoFormat values
// by (name, parameters) as the specification requires.
func (f VideoFormat) sortKey() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte(0)
	for _, p := range sortedParams(f.Parameters) {
		b.WriteString(p)
		b.WriteByte(0)
	}
	return b.String()
}

func sortedParams(params []Parameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Key + "=" + p.Value
	}
	sort.Strings(out)
	return out
}

// SortFormats sorts formats in place by (name, parameters), the ordering
// ComputeCommonFormats and payload-type assignment both require.
func SortFormats(formats []VideoFormat) {
	sort.SliceStable(formats, func(i, j int) bool {
		return formats[i].sortKey() < formats[j].sortKey()
	})
}

// indexOf returns the index of target in formats using Equal, or -1.
func indexOf(formats []VideoFormat, target VideoFormat) int {
	for i, f := range formats {
		if f.Equal(target) {
			return i
		}
	}
	return -1
}
