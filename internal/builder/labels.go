package builder

import (
	"fmt"
	"strings"

	"riskform/internal/model"
)

// EnsureLabels assigns every group a unique display label in place. Explicit
// labels are kept when free; empty labels default to "Group N" by position;
// collisions get a " (2)", " (3)" suffix. Runs after every structural edit
// so two groups never share a label.
func EnsureLabels(groups []model.Group) {
	used := make(map[string]bool, len(groups))
	for i := range groups {
		desired := strings.TrimSpace(groups[i].Label)
		if desired == "" {
			desired = fmt.Sprintf("Group %d", i+1)
		}
		groups[i].Label = uniqueLabel(desired, used)
		used[groups[i].Label] = true
	}
}

// NextLabel returns a free default label for a group appended to the list.
func NextLabel(groups []model.Group) string {
	used := make(map[string]bool, len(groups))
	for _, group := range groups {
		used[group.Label] = true
	}
	return uniqueLabel(fmt.Sprintf("Group %d", len(groups)+1), used)
}

func uniqueLabel(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !used[candidate] {
			return candidate
		}
	}
}
