package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bryanwahyu/accessiscan/internal/domain/ai"
	"github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// noIssuesAdvice is returned without calling the provider for a clean report.
const noIssuesAdvice = `{"summary":"No accessibility issues were detected.","actions":[]}`

type Service struct {
	client ai.Client
}

// NewService wraps client. A nil client yields a service whose Advise
// always returns ai.ErrDisabled.
func NewService(client ai.Client) *Service {
	return &Service{client: client}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *Service) Advise(ctx context.Context, report *scans.Report) (string, error) {
	if !s.Enabled() {
		return "", ai.ErrDisabled
	}
	if report.TotalIssues == 0 {
		return noIssuesAdvice, nil
	}
	out, err := s.client.Advise(ctx, report)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", ai.ErrEmptyAdvice
	}
	if !json.Valid([]byte(out)) {
		return "", fmt.Errorf("%w: response is not JSON", ai.ErrEmptyAdvice)
	}
	return out, nil
}
