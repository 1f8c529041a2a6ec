package app

import "sort"

type ranked struct {
	value string
	count int
	first int
}

// rankByFrequency orders the distinct non-nil values by descending count;
// equal counts keep first-appearance order.
func rankByFrequency(vals []*string) []ranked {
	idx := make(map[string]int)
	var out []ranked
	for i, v := range vals {
		if v == nil {
			continue
		}
		if j, ok := idx[*v]; ok {
			out[j].count++
			continue
		}
		idx[*v] = len(out)
		out = append(out, ranked{value: *v, count: 1, first: i})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].count > out[b].count })
	return out
}

func ptrStr(s string) *string { return &s }
