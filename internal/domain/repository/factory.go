package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Accounts() AccountRepository
	Orders() OrderRepository
	Sequences() SequenceRepository
}

// UnitOfWork runs fn in a transaction carried by the derived context.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
