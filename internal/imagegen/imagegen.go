// Package imagegen materializes an illustrative image for a recipe name. A
// generation job is submitted to a hosted text-to-image service; the service
// either returns image data inline or a task id that is polled to a terminal
// state on a fixed schedule.
package imagegen

import (
	"context"
	"errors"
	"log/slog"
)

var (
	// ErrUnavailable marks transport or provider-side failures reaching the
	// image service.
	ErrUnavailable = errors.New("image service unavailable")
	// ErrJobFailed marks a job the service reported as failed.
	ErrJobFailed = errors.New("image generation failed")
	// ErrJobTimedOut marks a job that exhausted the polling budget without
	// reaching a result.
	ErrJobTimedOut = errors.New("timeout waiting for image generation")
)

// promptPrefix frames every recipe as a food photograph.
const promptPrefix = "food photography of "

type submitter interface {
	Submit(ctx context.Context, prompt string) (*Submission, error)
}

type waiter interface {
	Wait(ctx context.Context, taskID string) (string, error)
}

// Service composes submission and polling into the single visualize flow the
// UI calls per recommendation.
type Service struct {
	client submitter
	poller waiter
	logger *slog.Logger
}

func NewService(client *Client, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		poller: NewPoller(client, logger),
		logger: logger,
	}
}

// Visualize generates one image for recipeName and returns its URL: a data
// URL when the service answered inline (zero polls), the hosted result URL
// when the job ran asynchronously.
func (s *Service) Visualize(ctx context.Context, recipeName string) (string, error) {
	prompt := promptPrefix + recipeName
	s.logger.Info("image generation started", "prompt", prompt)

	sub, err := s.client.Submit(ctx, prompt)
	if err != nil {
		return "", err
	}

	if sub.InlineImage != "" {
		s.logger.Info("image returned inline", "prompt", prompt)
		return "data:image/jpeg;base64," + sub.InlineImage, nil
	}

	url, err := s.poller.Wait(ctx, sub.TaskID)
	if err != nil {
		return "", err
	}
	s.logger.Info("image generation complete", "task_id", sub.TaskID)
	return url, nil
}
