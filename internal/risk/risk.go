// Package risk derives, normalizes and aggregates triggered risks.
package risk

import (
	"strings"

	"riskform/internal/model"
	"riskform/internal/rules"
)

// Triggered evaluates every risk of the questionnaire against the answers
// and returns the ones that fire, annotated with the subject they apply to.
// Risks without logic never fire.
func Triggered(eval *rules.Evaluator, q *model.Questionnaire, answers model.AnswerMap, systemID string) []model.TriggeredRisk {
	var triggered []model.TriggeredRisk
	for i := range q.Risks {
		if !eval.Triggered(&q.Risks[i], answers) {
			continue
		}
		triggered = append(triggered, FromRisk(q.Risks[i], systemID))
	}
	return triggered
}

// FromRisk converts a schema risk into its normalized display form.
func FromRisk(r model.Risk, systemID string) model.TriggeredRisk {
	return NormalizeEntry(model.TriggeredRisk{
		Key:         r.Key,
		Name:        r.Name,
		Level:       string(r.Level),
		SystemID:    systemID,
		Mitigations: r.Mitigations,
	})
}

// NormalizeEntry trims the fields of a stored risk entry, lower-cases the
// level and derives the display name and level label. Submissions written
// by older revisions may carry untrimmed or mixed-case values.
func NormalizeEntry(r model.TriggeredRisk) model.TriggeredRisk {
	key := strings.TrimSpace(r.Key)
	name := strings.TrimSpace(r.Name)
	levelRaw := strings.TrimSpace(r.Level)

	displayName := name
	if displayName == "" {
		displayName = key
	}
	if displayName == "" {
		displayName = "Risk"
	}

	label := "Unknown"
	if levelRaw != "" {
		label = titleWord(levelRaw)
	}

	var mitigations []string
	for _, item := range r.Mitigations {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			mitigations = append(mitigations, trimmed)
		}
	}

	return model.TriggeredRisk{
		Key:         key,
		Name:        displayName,
		Level:       strings.ToLower(levelRaw),
		LevelLabel:  label,
		SystemID:    strings.TrimSpace(r.SystemID),
		Mitigations: mitigations,
	}
}

// Aggregate merges and deduplicates risks from submissions belonging to one
// subject. Entries recorded against a different subject are skipped; the
// dedup key is (key-or-name, level, resolved subject) and the first
// occurrence wins, so callers passing submissions newest-first keep the most
// recent entry. Output order is first-occurrence order.
func Aggregate(submissions []model.Submission, systemID string) []model.TriggeredRisk {
	targetID := strings.TrimSpace(systemID)

	type dedupKey struct {
		name    string
		level   string
		subject string
	}
	seen := make(map[dedupKey]bool)
	var aggregated []model.TriggeredRisk

	for _, submission := range submissions {
		submissionSystem := strings.TrimSpace(submission.SystemID)
		for _, entry := range submission.Risks {
			normalized := NormalizeEntry(entry)

			resolvedSystem := normalized.SystemID
			if resolvedSystem == "" {
				resolvedSystem = submissionSystem
			}
			if resolvedSystem == "" {
				resolvedSystem = targetID
			}
			if targetID != "" && resolvedSystem != "" && resolvedSystem != targetID {
				continue
			}

			identity := normalized.Key
			if identity == "" {
				identity = normalized.Name
			}
			key := dedupKey{name: identity, level: normalized.Level, subject: resolvedSystem}
			if seen[key] {
				continue
			}
			seen[key] = true

			normalized.SystemID = resolvedSystem
			aggregated = append(aggregated, normalized)
		}
	}

	return aggregated
}

var levelIcons = map[string]string{
	"limited":      "🟢",
	"high":         "🟠",
	"unacceptable": "🔴",
}

// ToMarkdown renders risks as a newline-separated summary with colour
// icons.
func ToMarkdown(risks []model.TriggeredRisk) string {
	lines := make([]string, 0, len(risks))
	for _, entry := range risks {
		normalized := NormalizeEntry(entry)
		icon, ok := levelIcons[normalized.Level]
		if !ok {
			icon = "⚪"
		}
		label := normalized.LevelLabel
		if label == "" {
			label = "Unknown"
		}
		lines = append(lines, icon+" "+label+" · "+normalized.Name)
	}
	return strings.Join(lines, "\n")
}

func titleWord(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
