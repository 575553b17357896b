package provisioning

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

type compensation struct {
	name string
	fn   func(ctx context.Context) error
}

// saga records compensations of completed steps. Steps without a compensation are kept as they are
// when a later step fails.
type saga struct {
	compensations []compensation
}

func (s *saga) compensate(name string, fn func(ctx context.Context) error) {
	s.compensations = append(s.compensations, compensation{name: name, fn: fn})
}

// abort runs the compensations in reverse order and returns cause with every compensation
// failure attached.
func (s *saga) abort(ctx context.Context, cause error) error {
	// compensations must run even if the caller went away.
	ctx = context.WithoutCancel(ctx)

	err := cause
	for i := len(s.compensations) - 1; i >= 0; i-- {
		c := s.compensations[i]
		if cErr := c.fn(ctx); cErr != nil {
			logger.ErrorContext(ctx, "Compensation failed", cErr, slogx.String("compensation", c.name))
			err = errors.CombineErrors(err, errors.Wrapf(cErr, "compensation %q failed", c.name))
			continue
		}
		logger.DebugContext(ctx, "Compensation done", slogx.String("compensation", c.name))
	}
	s.compensations = nil
	return err
}
