package model

import (
	"encoding/json"
)

// Operator names understood by the clause evaluator.
const (
	OpAlways      = "always"
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpIncludes    = "includes"
	OpNotIncludes = "not_includes"
	OpAnySelected = "any_selected"
	OpContainsAny = "contains_any"
	OpAllSelected = "all_selected"
	OpIsTrue      = "is_true"
	OpIsFalse     = "is_false"
)

// Clause is an atomic condition referencing one answer field. A clause with
// operator "always" carries no field or value. An empty Field means the
// field is absent.
type Clause struct {
	Field    string
	Operator string
	Value    Value
}

// Clone returns a deep copy of the clause.
func (c Clause) Clone() Clause {
	return Clause{Field: c.Field, Operator: c.Operator, Value: c.Value.Clone()}
}

type clauseJSON struct {
	Field    *string `json:"field,omitempty"`
	Operator string  `json:"operator,omitempty"`
	Value    *Value  `json:"value,omitempty"`
}

// MarshalJSON writes the persisted clause shape, omitting absent field and
// value entries.
func (c Clause) MarshalJSON() ([]byte, error) {
	out := clauseJSON{Operator: c.Operator}
	if c.Field != "" {
		field := c.Field
		out.Field = &field
	}
	if c.Value.Kind != KindAbsent {
		value := c.Value
		out.Value = &value
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the persisted clause shape.
func (c *Clause) UnmarshalJSON(data []byte) error {
	var raw clauseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Operator = raw.Operator
	if raw.Field != nil {
		c.Field = *raw.Field
	} else {
		c.Field = ""
	}
	if raw.Value != nil {
		c.Value = *raw.Value
	} else {
		c.Value = Value{}
	}
	return nil
}

// RuleKind discriminates the three RuleNode variants.
type RuleKind int

const (
	RuleLeaf RuleKind = iota
	RuleAll
	RuleAny
	RuleEmpty // an empty object: no rule configured
)

// RuleNode is the persisted rule format: a clause, or an all/any combination
// of child nodes. A nil *RuleNode means no rule is configured.
type RuleNode struct {
	Kind     RuleKind
	Children []*RuleNode // RuleAll / RuleAny
	Clause   Clause      // RuleLeaf
}

// AllOf builds an {all: [...]} node.
func AllOf(children ...*RuleNode) *RuleNode {
	return &RuleNode{Kind: RuleAll, Children: children}
}

// AnyOf builds an {any: [...]} node.
func AnyOf(children ...*RuleNode) *RuleNode {
	return &RuleNode{Kind: RuleAny, Children: children}
}

// LeafNode wraps a clause as a terminal node.
func LeafNode(clause Clause) *RuleNode {
	return &RuleNode{Kind: RuleLeaf, Clause: clause}
}

// Clone returns a deep copy of the rule tree.
func (n *RuleNode) Clone() *RuleNode {
	if n == nil {
		return nil
	}
	out := &RuleNode{Kind: n.Kind, Clause: n.Clause.Clone()}
	if n.Children != nil {
		out.Children = make([]*RuleNode, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// MarshalJSON writes the wire shape: {"all": [...]}, {"any": [...]} or a
// bare clause object.
func (n *RuleNode) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case RuleAll:
		return json.Marshal(map[string][]*RuleNode{"all": nonNilChildren(n.Children)})
	case RuleAny:
		return json.Marshal(map[string][]*RuleNode{"any": nonNilChildren(n.Children)})
	case RuleEmpty:
		return []byte("{}"), nil
	default:
		return json.Marshal(n.Clause)
	}
}

// UnmarshalJSON decodes the wire shape. When both "all" and "any" are
// present, "all" wins, matching evaluator precedence.
func (n *RuleNode) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if len(probe) == 0 {
		n.Kind = RuleEmpty
		n.Children = nil
		n.Clause = Clause{}
		return nil
	}
	if raw, ok := probe["all"]; ok {
		n.Kind = RuleAll
		n.Clause = Clause{}
		return json.Unmarshal(raw, &n.Children)
	}
	if raw, ok := probe["any"]; ok {
		n.Kind = RuleAny
		n.Clause = Clause{}
		return json.Unmarshal(raw, &n.Children)
	}
	n.Kind = RuleLeaf
	n.Children = nil
	return json.Unmarshal(data, &n.Clause)
}

func nonNilChildren(children []*RuleNode) []*RuleNode {
	if children == nil {
		return []*RuleNode{}
	}
	return children
}

// Mode selects how clauses within a group, or groups within a rule, combine.
type Mode string

const (
	ModeAll Mode = "all"
	ModeAny Mode = "any"
)

// Valid reports whether the mode is one of the two combination modes.
func (m Mode) Valid() bool { return m == ModeAll || m == ModeAny }

// Group is the editor-facing unit: a labelled bundle of clauses combined
// with a single mode.
type Group struct {
	Label   string   `json:"label"`
	Mode    Mode     `json:"mode"`
	Clauses []Clause `json:"clauses"`
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := Group{Label: g.Label, Mode: g.Mode}
	if g.Clauses != nil {
		out.Clauses = make([]Clause, len(g.Clauses))
		for i, clause := range g.Clauses {
			out.Clauses[i] = clause.Clone()
		}
	}
	return out
}

// GroupSet is the full flattened form of one rule: ordered groups plus the
// top-level combination mode. Unsupported marks a persisted tree the
// converter could not decompose; such trees stay editable only as raw JSON.
type GroupSet struct {
	Groups      []Group `json:"groups"`
	CombineMode Mode    `json:"combine_mode"`
	Unsupported bool    `json:"unsupported,omitempty"`
}
