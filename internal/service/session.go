// Package service composes the three independent assistant flows — describe,
// report, visualize — plus the report history behind one API for the web
// layer. The flows never call each other.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/greencart/greencart/internal/domain"
)

// describer is the subset of vision.Describer that SessionService requires.
type describer interface {
	Describe(ctx context.Context, imageData []byte, mimeType string) (*domain.ProduceDescription, error)
}

// reportGenerator is the subset of report.Generator that SessionService requires.
type reportGenerator interface {
	Generate(ctx context.Context, labels []string, profile domain.ShoppingProfile) domain.ReportResult
}

// visualizer is the subset of imagegen.Service that SessionService requires.
type visualizer interface {
	Visualize(ctx context.Context, recipeName string) (string, error)
}

// reportHistory is the subset of store.ReportStore that SessionService requires.
type reportHistory interface {
	Save(ctx context.Context, report *domain.ShoppingReport, profile domain.ShoppingProfile, items []string) (*domain.SavedReport, error)
	ListRecent(ctx context.Context) ([]*domain.SavedReport, error)
}

type SessionService struct {
	vision  describer
	reports reportGenerator
	images  visualizer
	history reportHistory
	logger  *slog.Logger
}

func NewSessionService(
	vision describer,
	reports reportGenerator,
	images visualizer,
	history reportHistory,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		vision:  vision,
		reports: reports,
		images:  images,
		history: history,
		logger:  logger,
	}
}

// DescribeImage labels one produce photo for the cart.
func (s *SessionService) DescribeImage(ctx context.Context, imageData []byte, mimeType string) (*domain.ProduceDescription, error) {
	s.logger.Info("describe image started", "mime_type", mimeType, "bytes", len(imageData))

	desc, err := s.vision.Describe(ctx, imageData, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to describe image: %w", err)
	}

	s.logger.Info("describe image complete", "item", desc.Item)
	return desc, nil
}

// GenerateReport produces a sustainability report for the session and, when
// generation succeeds, records it in the history. History failures are
// logged, not surfaced: the report was generated and the caller gets it.
func (s *SessionService) GenerateReport(ctx context.Context, labels []string, profile domain.ShoppingProfile) domain.ReportResult {
	s.logger.Info("report generation started", "items", len(labels), "diet", profile.Diet)

	result := s.reports.Generate(ctx, labels, profile)
	if !result.Success {
		return result
	}

	if _, err := s.history.Save(ctx, result.Report, profile, labels); err != nil {
		s.logger.Error("failed to save report to history", "error", err)
	}

	s.logger.Info("report generation complete", "score", result.Report.SustainabilityScore)
	return result
}

// VisualizeRecipe materializes an illustrative image for one recommendation's
// recipe name and returns its URL.
func (s *SessionService) VisualizeRecipe(ctx context.Context, recipeName string) (string, error) {
	if recipeName == "" {
		return "", fmt.Errorf("recipe name is empty")
	}
	return s.images.Visualize(ctx, recipeName)
}

// PreviousReports returns the saved report history, newest first.
func (s *SessionService) PreviousReports(ctx context.Context) ([]*domain.SavedReport, error) {
	return s.history.ListRecent(ctx)
}
