package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainai "github.com/bryanwahyu/accessiscan/internal/domain/ai"
	"github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

type stubClient struct {
	out   string
	err   error
	calls int
}

func (s *stubClient) Advise(context.Context, *scans.Report) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestAdvise_Disabled(t *testing.T) {
	var svc *Service
	_, err := svc.Advise(context.Background(), &scans.Report{TotalIssues: 1})
	assert.ErrorIs(t, err, domainai.ErrDisabled)

	_, err = NewService(nil).Advise(context.Background(), &scans.Report{TotalIssues: 1})
	assert.ErrorIs(t, err, domainai.ErrDisabled)
}

func TestAdvise_CleanReportSkipsProvider(t *testing.T) {
	stub := &stubClient{}
	out, err := NewService(stub).Advise(context.Background(), &scans.Report{})
	require.NoError(t, err)
	assert.JSONEq(t, noIssuesAdvice, out)
	assert.Zero(t, stub.calls)
}

func TestAdvise_PassesThroughProvider(t *testing.T) {
	stub := &stubClient{out: `{"summary":"fix contrast","actions":[]}`}
	out, err := NewService(stub).Advise(context.Background(), &scans.Report{TotalIssues: 3})
	require.NoError(t, err)
	assert.Equal(t, stub.out, out)
	assert.Equal(t, 1, stub.calls)
}

func TestAdvise_Errors(t *testing.T) {
	quota := &stubClient{err: domainai.ErrQuotaExceeded}
	_, err := NewService(quota).Advise(context.Background(), &scans.Report{TotalIssues: 1})
	assert.ErrorIs(t, err, domainai.ErrQuotaExceeded)

	empty := &stubClient{}
	_, err = NewService(empty).Advise(context.Background(), &scans.Report{TotalIssues: 1})
	assert.ErrorIs(t, err, domainai.ErrEmptyAdvice)

	prose := &stubClient{out: "just fix it"}
	_, err = NewService(prose).Advise(context.Background(), &scans.Report{TotalIssues: 1})
	assert.True(t, errors.Is(err, domainai.ErrEmptyAdvice))
}
