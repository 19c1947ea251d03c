package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/becoming/internal/models"
)

// LoadDataset reads every collection from p concurrently.
func LoadDataset(ctx context.Context, p Provider) (models.Dataset, error) {
	var ds models.Dataset
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		ds.Personas, err = p.GetAllPersonas(ctx)
		return wrap("personas", err)
	})
	g.Go(func() (err error) {
		ds.Benchmarks, err = p.GetAllBenchmarks(ctx)
		return wrap("benchmarks", err)
	})
	g.Go(func() (err error) {
		ds.Actions, err = p.GetAllActions(ctx)
		return wrap("actions", err)
	})
	g.Go(func() (err error) {
		ds.Logs, err = p.GetAllLogs(ctx)
		return wrap("daily logs", err)
	})
	g.Go(func() (err error) {
		ds.Reflections, err = p.GetAllReflections(ctx)
		return wrap("reflections", err)
	})

	if err := g.Wait(); err != nil {
		return models.Dataset{}, err
	}
	return ds, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
	return nil
}
