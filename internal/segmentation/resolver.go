package segmentation

import (
	"context"

	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/metrics"
	"station-dashboard/internal/repository"
)

// Directory is the read-only user directory.
type Directory interface {
	AllIDs(ctx context.Context) ([]string, error)
	IDsIn(ctx context.Context, ids []string) ([]string, error)
	IDsWithCityMatching(ctx context.Context, patterns []string) ([]string, error)
}

type Resolver struct {
	directory Directory
	logger    logger.Logger
}

func NewResolver(directory Directory, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Resolver{directory: directory, logger: log}
}

// Resolve validates spec and returns the matching recipient ids. Zero matches is not an error.
// State matching is a case-insensitive substring match of each state name against the
// profile's city, OR-ed across states.
func (r *Resolver) Resolve(ctx context.Context, spec TargetingSpec) ([]string, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var (
		ids []string
		err error
	)
	switch spec.Kind {
	case KindNone:
		ids = []string{}
	case KindAll:
		ids, err = r.directory.AllIDs(ctx)
	case KindByUserIDs:
		ids, err = r.directory.IDsIn(ctx, spec.Values)
	case KindByStates:
		patterns := make([]string, len(spec.Values))
		for i, state := range spec.Values {
			patterns[i] = repository.ContainsPattern(state)
		}
		ids, err = r.directory.IDsWithCityMatching(ctx, patterns)
	}
	if err != nil {
		r.logger.Error("Failed to resolve recipients", map[string]interface{}{
			"kind":  spec.Kind,
			"error": err.Error(),
		})
		return nil, err
	}

	metrics.RecipientsResolved.WithLabelValues(string(spec.Kind)).Observe(float64(len(ids)))
	r.logger.Debug("Recipients resolved", map[string]interface{}{
		"kind":   spec.Kind,
		"values": len(spec.Values),
		"count":  len(ids),
	})

	return ids, nil
}
