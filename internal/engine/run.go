package engine

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"reelcheck/internal/logging"
)

// Run resolves every request and returns records in input order. The first
// fatal error cancels the remaining work and is returned.
func (r *Resolver) Run(ctx context.Context, requests []Request) ([]Record, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	workers := min(r.opts.Workers, len(requests))
	r.logger.Info("starting batch",
		logging.Int("titles", len(requests)),
		logging.Int("workers", workers))

	records := make([]Record, len(requests))
	if workers == 1 {
		session, err := r.openSession(ctx)
		if err != nil {
			return nil, err
		}
		for i, req := range requests {
			rec, err := r.resolveOne(ctx, session, i, len(requests), req)
			if err != nil {
				return nil, err
			}
			records[i] = rec
		}
		return records, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sessions := make(chan SiteSession, workers)
	for range workers {
		session, err := r.openSession(ctx)
		if err != nil {
			return nil, err
		}
		sessions <- session
	}

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(workers)
	for i, req := range requests {
		p.Go(func(ctx context.Context) error {
			session := <-sessions
			defer func() { sessions <- session }()
			rec, err := r.resolveOne(ctx, session, i, len(requests), req)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Resolver) openSession(ctx context.Context) (SiteSession, error) {
	session, err := r.sessions.NewSession(ctx)
	if err != nil {
		r.logger.Error("release site session failed", logging.Error(err))
		return nil, err
	}
	return session, nil
}

func (r *Resolver) resolveOne(ctx context.Context, session SiteSession, index, total int, req Request) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if obs := r.opts.Observer; obs != nil {
		obs.TitleStarted(index+1, total, req.Title)
	}
	rec, err := r.Resolve(ctx, session, req)
	if err != nil {
		r.logger.Error("title failed",
			logging.String(logging.FieldTitle, req.Title),
			logging.Error(err))
		return Record{}, err
	}
	if obs := r.opts.Observer; obs != nil {
		obs.TitleFinished(index+1, total, rec)
	}
	return rec, nil
}
