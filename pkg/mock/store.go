package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

type Store struct {
	mock.Mock
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Save(ctx context.Context, r report.Report) error {
	args := s.Called(ctx, r)
	return args.Error(0)
}

func (s *Store) Get(ctx context.Context, reportID string) (*report.Report, error) {
	args := s.Called(ctx, reportID)
	return args.Get(0).(*report.Report), args.Error(1)
}

func (s *Store) Latest(ctx context.Context) (*report.Report, error) {
	args := s.Called(ctx)
	return args.Get(0).(*report.Report), args.Error(1)
}
