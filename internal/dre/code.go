package dre

import (
	"strconv"
	"strings"
)

// NextCode returns the code for a new item under parentCode, or for a new
// top-level item when parentCode is empty. Numbering continues after the
// highest existing number; gaps left by deletions are not reused.
//
// Under a parent every code in the forest that starts with parentCode+"." is
// considered, and the number after its last dot is what counts. Segments that
// are not non-negative integers are skipped.
func (b *Budget) NextCode(parentCode string) string {
	if parentCode == "" {
		highest := 0
		for _, root := range b.roots {
			if n, ok := parseSegment(root.Code); ok && n > highest {
				highest = n
			}
		}
		return strconv.Itoa(highest + 1)
	}

	prefix := parentCode + "."
	highest := 0
	b.walk(func(item, _ *Item) {
		if !strings.HasPrefix(item.Code, prefix) {
			return
		}
		if n, ok := parseSegment(lastSegment(item.Code)); ok && n > highest {
			highest = n
		}
	})
	return prefix + strconv.Itoa(highest+1)
}

// renumberChildren recodes every descendant of item from its parent's code,
// numbering siblings from 1 in their current order.
func renumberChildren(item *Item) {
	for i, child := range item.Children {
		child.Code = item.Code + "." + strconv.Itoa(i+1)
		renumberChildren(child)
	}
}

func lastSegment(code string) string {
	if i := strings.LastIndexByte(code, '.'); i >= 0 {
		return code[i+1:]
	}
	return code
}

func parseSegment(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
