package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

type Generator struct {
	mock.Mock
}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(ctx context.Context) (report.Report, error) {
	args := g.Called(ctx)
	return args.Get(0).(report.Report), args.Error(1)
}
