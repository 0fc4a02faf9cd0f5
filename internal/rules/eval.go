// Package rules evaluates questionnaire visibility and risk-trigger rules
// against an answer map. Evaluation is total: malformed clauses and unknown
// operators evaluate to false with a warning, never a panic.
package rules

import (
	"log"

	"riskform/internal/model"
)

// WarnFunc receives non-fatal diagnostics raised during evaluation.
type WarnFunc func(format string, args ...interface{})

// Evaluator evaluates clauses and rule trees. The zero value logs warnings
// via the standard logger.
type Evaluator struct {
	warn WarnFunc
}

// NewEvaluator returns an evaluator that reports warnings through warn. A
// nil warn falls back to log.Printf.
func NewEvaluator(warn WarnFunc) *Evaluator {
	if warn == nil {
		warn = log.Printf
	}
	return &Evaluator{warn: warn}
}

func (e *Evaluator) warnf(format string, args ...interface{}) {
	if e == nil || e.warn == nil {
		log.Printf(format, args...)
		return
	}
	e.warn(format, args...)
}

// EvalClause evaluates a single clause against the answers.
func (e *Evaluator) EvalClause(clause model.Clause, answers model.AnswerMap) bool {
	operator := clause.Operator
	if operator == "" {
		operator = model.OpEquals
	}

	if clause.Field == "" && operator != model.OpAlways {
		e.warnf("rule clause missing 'field'")
		return false
	}

	value := answers.Get(clause.Field)
	expected := clause.Value

	switch operator {
	case model.OpAlways:
		return true
	case model.OpEquals:
		return value.Equal(expected)
	case model.OpNotEquals:
		return !value.Equal(expected)
	case model.OpIncludes:
		if value.IsNil() {
			return false
		}
		if value.IsList() {
			return value.Contains(expected)
		}
		return value.Equal(expected)
	case model.OpNotIncludes:
		// Asymmetric with includes: an unanswered field satisfies
		// not_includes.
		if value.IsNil() {
			return true
		}
		if value.IsList() {
			return !value.Contains(expected)
		}
		return !value.Equal(expected)
	case model.OpAnySelected:
		if !value.IsList() || !expected.IsList() {
			return false
		}
		for _, item := range expected.List {
			if value.Contains(item) {
				return true
			}
		}
		return false
	case model.OpContainsAny:
		if expected.IsNil() {
			return false
		}
		candidates := expected.AsList()
		if value.Kind == model.KindString {
			for _, item := range candidates {
				if value.ContainsSubstring(item) {
					return true
				}
			}
			return false
		}
		if value.IsList() {
			for _, item := range candidates {
				if value.Contains(item) {
					return true
				}
			}
			return false
		}
		return false
	case model.OpAllSelected:
		if !value.IsList() || !expected.IsList() {
			return false
		}
		for _, item := range expected.List {
			if !value.Contains(item) {
				return false
			}
		}
		return true
	case model.OpIsTrue:
		return value.Truthy()
	case model.OpIsFalse:
		return !value.Truthy()
	}

	e.warnf("unsupported operator: %s", operator)
	return false
}

// EvalRule evaluates a rule tree against the answers. An absent or empty
// rule is true; {all: []} is true and {any: []} is false.
func (e *Evaluator) EvalRule(node *model.RuleNode, answers model.AnswerMap) bool {
	if node == nil || node.Kind == model.RuleEmpty {
		return true
	}
	switch node.Kind {
	case model.RuleAll:
		for _, child := range node.Children {
			if !e.EvalRule(child, answers) {
				return false
			}
		}
		return true
	case model.RuleAny:
		for _, child := range node.Children {
			if e.EvalRule(child, answers) {
				return true
			}
		}
		return false
	case model.RuleLeaf:
		return e.EvalClause(node.Clause, answers)
	}
	e.warnf("malformed rule node")
	return false
}

// ShouldShow reports whether a question is visible for the answers. A
// question without a show_if rule is always shown.
func (e *Evaluator) ShouldShow(question *model.Question, answers model.AnswerMap) bool {
	if question.ShowIf == nil {
		return true
	}
	return e.EvalRule(question.ShowIf, answers)
}

// Triggered reports whether a risk fires for the answers. A risk without
// logic never triggers; this asymmetry with ShouldShow is deliberate.
func (e *Evaluator) Triggered(risk *model.Risk, answers model.AnswerMap) bool {
	if risk.Logic == nil {
		return false
	}
	return e.EvalRule(risk.Logic, answers)
}
