package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xray-reporter/kube-xray-reporter/pkg/kube"
	"github.com/xray-reporter/kube-xray-reporter/pkg/registry"
	"github.com/xray-reporter/kube-xray-reporter/pkg/xray"
)

type Lister struct {
	mock.Mock
}

func NewLister() *Lister {
	return &Lister{}
}

func (l *Lister) ListContainers(ctx context.Context) ([]kube.Container, error) {
	args := l.Called(ctx)
	return args.Get(0).([]kube.Container), args.Error(1)
}

type Resolver struct {
	mock.Mock
}

func NewResolver() *Resolver {
	return &Resolver{}
}

func (r *Resolver) Resolve(ctx context.Context, image string) (registry.Resolution, error) {
	args := r.Called(ctx, image)
	return args.Get(0).(registry.Resolution), args.Error(1)
}

type XrayClient struct {
	mock.Mock
}

func NewXrayClient() *XrayClient {
	return &XrayClient{}
}

func (x *XrayClient) Summary(ctx context.Context, checksums ...string) (xray.SummaryResponse, error) {
	args := x.Called(ctx, checksums)
	return args.Get(0).(xray.SummaryResponse), args.Error(1)
}

func (x *XrayClient) CountHighSeverity(ctx context.Context, digest string) (int, error) {
	args := x.Called(ctx, digest)
	return args.Int(0), args.Error(1)
}
