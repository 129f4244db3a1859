package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence"
	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

type store struct {
	cfg    etc.RedisStore
	client redis.UniversalClient
}

func NewStore(cfg etc.RedisStore, client redis.UniversalClient) persistence.Store {
	return &store{
		cfg:    cfg,
		client: client,
	}
}

// Save writes the report and moves the latest pointer to it in one transaction.
func (s *store) Save(ctx context.Context, r report.Report) error {
	bytes, err := json.Marshal(r)
	if err != nil {
		return xerrors.Errorf("marshalling report: %w", err)
	}

	key := s.getKeyForReport(r.ID)

	log.WithFields(log.Fields{
		"report_id": r.ID,
		"redis_key": key,
		"expire":    s.cfg.ReportTTL.Seconds(),
	}).Debug("Saving report")

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, bytes, s.cfg.ReportTTL)
		pipe.Set(ctx, s.getKeyForLatest(), r.ID, s.cfg.ReportTTL)
		return nil
	})
	if err != nil {
		return xerrors.Errorf("saving report: %w", err)
	}

	return nil
}

func (s *store) Get(ctx context.Context, reportID string) (*report.Report, error) {
	value, err := s.client.Get(ctx, s.getKeyForReport(reportID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, xerrors.Errorf("getting report: %w", err)
	}

	var r report.Report
	if err = json.Unmarshal(value, &r); err != nil {
		return nil, xerrors.Errorf("unmarshalling report: %w", err)
	}

	return &r, nil
}

func (s *store) Latest(ctx context.Context) (*report.Report, error) {
	reportID, err := s.client.Get(ctx, s.getKeyForLatest()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, xerrors.Errorf("getting latest report id: %w", err)
	}

	return s.Get(ctx, reportID)
}

func (s *store) getKeyForReport(reportID string) string {
	return fmt.Sprintf("%s:report:%s", s.cfg.Namespace, reportID)
}

func (s *store) getKeyForLatest() string {
	return fmt.Sprintf("%s:report:latest", s.cfg.Namespace)
}
