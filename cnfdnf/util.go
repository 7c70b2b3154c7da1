package cnfdnf

import (
	"sort"
	"strconv"
	"strings"
)

// CNFString renders a CNF formula as "(0|1) & (2|3)"-style text.
func CNFString(cnf []uint64) string {
	return toString(cnf, true)
}

// DNFString renders a DNF formula as "(0&1) | (2&3)"-style text.
func DNFString(dnf []uint64) string {
	return toString(dnf, false)
}

func toString(terms []uint64, isCNF bool) string {
	sorted := append([]uint64(nil), terms...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	outerSep, innerSep := " | ", "&"
	if isCNF {
		outerSep, innerSep = " & ", "|"
	}

	var groups []string
	for _, term := range sorted {
		var lits []string
		for i := 0; i < 64; i++ {
			if term&(uint64(1)<<uint(i)) != 0 {
				lits = append(lits, strconv.Itoa(i))
			}
		}
		groups = append(groups, "("+strings.Join(lits, innerSep)+")")
	}
	return strings.Join(groups, outerSep)
}
