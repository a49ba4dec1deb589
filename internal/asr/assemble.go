package asr

import (
	"fmt"
	"strings"
)

// regroup walks the per-source chunk counts in order, slices the flat
// transcript list into consecutive groups, and joins each group with a
// single space. Every source yields at least one chunk, so groups are never
// empty.
func regroup(texts []string, plan []int) ([]string, error) {
	total := 0
	for _, n := range plan {
		total += n
	}
	if total != len(texts) {
		return nil, fmt.Errorf("chunk plan covers %d chunks but pipeline returned %d transcripts", total, len(texts))
	}

	out := make([]string, 0, len(plan))
	next := 0
	for _, n := range plan {
		out = append(out, strings.Join(texts[next:next+n], " "))
		next += n
	}

	return out, nil
}
