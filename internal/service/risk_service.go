package service

import (
	"context"

	"riskform/internal/model"
	"riskform/internal/repository"
	"riskform/internal/risk"
)

// RiskService aggregates triggered risks across the submissions recorded
// for one subject system.
type RiskService struct {
	repo repository.SubmissionRepo
}

// NewRiskService creates a new risk service
func NewRiskService(repo repository.SubmissionRepo) *RiskService {
	return &RiskService{repo: repo}
}

// ForSystem returns the deduplicated risks across every submission recorded
// for the system, newest entries winning.
func (s *RiskService) ForSystem(ctx context.Context, systemID string) ([]model.TriggeredRisk, error) {
	submissions, err := s.repo.ListBySystem(ctx, systemID)
	if err != nil {
		return nil, err
	}
	return risk.Aggregate(submissions, systemID), nil
}

// MarkdownForSystem renders the system's aggregated risks as a markdown
// summary.
func (s *RiskService) MarkdownForSystem(ctx context.Context, systemID string) (string, error) {
	aggregated, err := s.ForSystem(ctx, systemID)
	if err != nil {
		return "", err
	}
	return risk.ToMarkdown(aggregated), nil
}
