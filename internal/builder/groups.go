// Package builder converts between persisted rule trees and the flattened
// group representation the interactive rule editor works with.
//
// The converter supports a constrained two-level subset of the rule format:
// a top-level combination of groups, where each group is a flat all/any list
// of clauses. Trees outside that subset are flagged unsupported and passed
// through verbatim; they are never rewritten.
package builder

import (
	"riskform/internal/model"
)

// Decompose flattens a persisted rule tree into a GroupSet. The second
// return value is false when the tree cannot be represented as groups; the
// caller must keep whatever groups it last knew rather than discarding edit
// history.
func Decompose(node *model.RuleNode) (model.GroupSet, bool) {
	if node == nil || node.Kind == model.RuleEmpty {
		return model.GroupSet{Groups: []model.Group{}, CombineMode: model.ModeAll}, true
	}

	// A tree that is itself a single group decomposes with the default
	// combine mode.
	if group, ok := extractGroup(node, true); ok {
		groups := []model.Group{group}
		EnsureLabels(groups)
		return model.GroupSet{Groups: groups, CombineMode: model.ModeAll}, true
	}

	if node.Kind != model.RuleAll && node.Kind != model.RuleAny {
		return model.GroupSet{Unsupported: true}, false
	}

	// Every top-level item must itself be a flat group. A terminal clause
	// sitting next to a sub-group, or any deeper nesting, makes the whole
	// tree unsupported.
	groups := make([]model.Group, 0, len(node.Children))
	for _, child := range node.Children {
		if child == nil || child.Kind == model.RuleLeaf || child.Kind == model.RuleEmpty {
			return model.GroupSet{Unsupported: true}, false
		}
		group, ok := extractGroup(child, false)
		if !ok {
			return model.GroupSet{Unsupported: true}, false
		}
		groups = append(groups, group)
	}

	EnsureLabels(groups)
	return model.GroupSet{Groups: groups, CombineMode: nodeMode(node)}, true
}

// extractGroup interprets a node as one group. unwrap permits peeling a
// single redundant wrapper ({all: [x]} / {any: [x]}) exactly once; the
// combine items of a multi-group tree get no such allowance, which is what
// keeps triple-nested trees unsupported.
func extractGroup(node *model.RuleNode, unwrap bool) (model.Group, bool) {
	switch node.Kind {
	case model.RuleLeaf:
		return model.Group{Mode: model.ModeAll, Clauses: []model.Clause{node.Clause.Clone()}}, true
	case model.RuleAll, model.RuleAny:
		if allLeaves(node.Children) {
			clauses := make([]model.Clause, 0, len(node.Children))
			for _, child := range node.Children {
				clauses = append(clauses, child.Clause.Clone())
			}
			return model.Group{Mode: nodeMode(node), Clauses: clauses}, true
		}
		if unwrap && len(node.Children) == 1 && node.Children[0] != nil {
			return extractGroup(node.Children[0], false)
		}
	}
	return model.Group{}, false
}

func allLeaves(children []*model.RuleNode) bool {
	for _, child := range children {
		if child == nil || child.Kind != model.RuleLeaf {
			return false
		}
	}
	return true
}

func nodeMode(node *model.RuleNode) model.Mode {
	if node.Kind == model.RuleAny {
		return model.ModeAny
	}
	return model.ModeAll
}

// Compose renders edited groups back into a canonical rule tree. Groups
// without clauses are dropped; a single surviving group renders without a
// redundant wrapper; no groups at all yields nil (no rule).
func Compose(groups []model.Group, combine model.Mode) *model.RuleNode {
	rendered := make([]*model.RuleNode, 0, len(groups))
	for _, group := range groups {
		if len(group.Clauses) == 0 {
			continue
		}
		rendered = append(rendered, renderGroup(group))
	}

	switch len(rendered) {
	case 0:
		return nil
	case 1:
		return rendered[0]
	}

	if !combine.Valid() {
		combine = model.ModeAll
	}
	kind := model.RuleAll
	if combine == model.ModeAny {
		kind = model.RuleAny
	}
	return &model.RuleNode{Kind: kind, Children: rendered}
}

func renderGroup(group model.Group) *model.RuleNode {
	mode := group.Mode
	if !mode.Valid() {
		mode = model.ModeAll
	}
	kind := model.RuleAll
	if mode == model.ModeAny {
		kind = model.RuleAny
	}
	children := make([]*model.RuleNode, 0, len(group.Clauses))
	for _, clause := range group.Clauses {
		children = append(children, model.LeafNode(clause.Clone()))
	}
	return &model.RuleNode{Kind: kind, Children: children}
}
