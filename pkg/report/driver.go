package report

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Saver persists finished reports.
type Saver interface {
	Save(ctx context.Context, report Report) error
}

// Observer is notified after every pass, failed or not.
type Observer interface {
	ObservePass(report Report, elapsed time.Duration, err error)
}

// Driver runs one pass and hands its outcome to the store and observers.
type Driver struct {
	generator Generator
	saver     Saver
	observers []Observer
	clock     Clock
}

func NewDriver(generator Generator, saver Saver, clock Clock, observers ...Observer) *Driver {
	return &Driver{
		generator: generator,
		saver:     saver,
		observers: observers,
		clock:     clock,
	}
}

func (d *Driver) Run(ctx context.Context) error {
	started := d.clock.Now()
	report, err := d.generator.Generate(ctx)
	elapsed := d.clock.Now().Sub(started)

	for _, o := range d.observers {
		o.ObservePass(report, elapsed, err)
	}
	if err != nil {
		return err
	}

	if d.saver != nil {
		if err = d.saver.Save(ctx, report); err != nil {
			return xerrors.Errorf("saving report: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"report_id": report.ID,
		"elapsed":   elapsed.String(),
	}).Debug("Pass completed")
	return nil
}
