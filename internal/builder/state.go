package builder

import "riskform/internal/model"

// State is the rule builder's working copy for one question or risk. It is
// a plain value: callers own keyed storage for it and pass it into and out
// of every operation, so repeated page interactions stay deterministic.
type State struct {
	Groups      []model.Group
	CombineMode model.Mode
	Unsupported bool
	// Raw holds the persisted tree verbatim when it could not be
	// decomposed. It is only editable through a raw fallback and is never
	// rewritten by the builder.
	Raw *model.RuleNode
}

// Load decomposes the persisted rule into builder state. When the tree is
// unsupported the previous groups and combine mode are preserved so edit
// history survives the load.
func Load(prev State, node *model.RuleNode) State {
	set, ok := Decompose(node)
	if !ok {
		prev.Unsupported = true
		prev.Raw = node.Clone()
		if prev.Groups == nil {
			prev.Groups = []model.Group{}
		}
		if !prev.CombineMode.Valid() {
			prev.CombineMode = model.ModeAll
		}
		return prev
	}
	return State{Groups: set.Groups, CombineMode: set.CombineMode}
}

// Rule renders the state back into a persistable tree. Unsupported state
// passes the original tree through untouched.
func (s State) Rule() *model.RuleNode {
	if s.Unsupported {
		return s.Raw.Clone()
	}
	return Compose(s.Groups, s.CombineMode)
}

// GroupSet returns the transport form of the state.
func (s State) GroupSet() model.GroupSet {
	groups := make([]model.Group, len(s.Groups))
	for i, group := range s.Groups {
		groups[i] = group.Clone()
	}
	mode := s.CombineMode
	if !mode.Valid() {
		mode = model.ModeAll
	}
	return model.GroupSet{Groups: groups, CombineMode: mode, Unsupported: s.Unsupported}
}

// AddGroup appends an empty group with a fresh label and returns the new
// state.
func (s State) AddGroup(mode model.Mode) State {
	if !mode.Valid() {
		mode = model.ModeAll
	}
	s.Groups = append(cloneGroups(s.Groups), model.Group{
		Label: NextLabel(s.Groups),
		Mode:  mode,
	})
	EnsureLabels(s.Groups)
	return s
}

// RemoveGroup deletes the group at index and returns the new state. Labels
// are reassigned so defaults track positions.
func (s State) RemoveGroup(index int) State {
	if index < 0 || index >= len(s.Groups) {
		return s
	}
	groups := cloneGroups(s.Groups)
	s.Groups = append(groups[:index], groups[index+1:]...)
	EnsureLabels(s.Groups)
	return s
}

// MoveGroup reorders a group from one index to another and returns the new
// state.
func (s State) MoveGroup(from, to int) State {
	if from < 0 || from >= len(s.Groups) || to < 0 || to >= len(s.Groups) || from == to {
		return s
	}
	groups := cloneGroups(s.Groups)
	moved := groups[from]
	groups = append(groups[:from], groups[from+1:]...)
	groups = append(groups[:to], append([]model.Group{moved}, groups[to:]...)...)
	s.Groups = groups
	EnsureLabels(s.Groups)
	return s
}

func cloneGroups(groups []model.Group) []model.Group {
	out := make([]model.Group, len(groups))
	for i, group := range groups {
		out[i] = group.Clone()
	}
	return out
}
