package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"storefront/domain"
)

const maxImportWorkers = 10

// validateBatch validates products concurrently and checks for duplicate IDs
// inside the batch and against exists. It returns the accepted products in
// input order together with every rejection joined into one error.
func validateBatch(ctx context.Context, products []domain.Product, exists func(id int) bool) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	errs := make([]error, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxImportWorkers)
	for i := range products {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := domain.ValidateProduct(products[i]); err != nil {
				errs[i] = fmt.Errorf("id=%d: %w", products[i].ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accepted := make([]domain.Product, 0, len(products))
	seen := make(map[int]struct{}, len(products))
	for i, p := range products {
		if errs[i] != nil {
			continue
		}
		_, dup := seen[p.ID]
		seen[p.ID] = struct{}{}
		if dup || exists(p.ID) {
			errs[i] = fmt.Errorf("id=%d: %w", p.ID, domain.NewDuplicateProductError(p.ID))
			continue
		}
		accepted = append(accepted, p)
	}
	return accepted, errors.Join(errs...)
}
