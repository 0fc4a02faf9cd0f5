package rules

import "riskform/internal/model"

// ExtractFields returns every answer key referenced anywhere in the rule
// tree. The result is not deduplicated.
func ExtractFields(node *model.RuleNode) []string {
	var fields []string
	collectFields(node, &fields)
	return fields
}

func collectFields(node *model.RuleNode, fields *[]string) {
	if node == nil {
		return
	}
	switch node.Kind {
	case model.RuleLeaf:
		if node.Clause.Field != "" {
			*fields = append(*fields, node.Clause.Field)
		}
	case model.RuleAll, model.RuleAny:
		for _, child := range node.Children {
			collectFields(child, fields)
		}
	}
}

// RewriteField renames every clause reference from oldKey to newKey in
// place, returning the number of clauses changed. Used when a question key
// is renamed so dependent rules keep pointing at it.
func RewriteField(node *model.RuleNode, oldKey, newKey string) int {
	if node == nil || oldKey == "" {
		return 0
	}
	changed := 0
	switch node.Kind {
	case model.RuleLeaf:
		if node.Clause.Field == oldKey {
			node.Clause.Field = newKey
			changed++
		}
	case model.RuleAll, model.RuleAny:
		for _, child := range node.Children {
			changed += RewriteField(child, oldKey, newKey)
		}
	}
	return changed
}
