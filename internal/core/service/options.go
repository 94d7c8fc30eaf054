package service

import (
	"time"

	"taskapp/internal/core/domain"
)

// Clock returns the current instant. Use cases read time only through it.
type Clock func() time.Time

type options struct {
	clock Clock
}

type Option func(*options)

func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// parseTaskID turns a caller supplied id into a domain.ID. An id in no accepted format cannot
// exist in any store, so it is reported as not found instead of reaching the repository.
func parseTaskID(raw string) (domain.ID, error) {
	id, err := domain.ParseID(raw)

	if err != nil {
		return domain.ID{}, domain.NewNotFoundError("task", raw)
	}

	return id, nil
}

func taskNotFound(id domain.ID) error {
	return domain.NewNotFoundError("task", id.String())
}
