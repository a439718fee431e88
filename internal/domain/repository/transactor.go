package repository

import "context"

// Transactor runs fn so that every repository call made with the context it
// receives joins one unit of work. The unit commits when fn returns nil and
// is discarded otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
