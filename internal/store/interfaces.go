package store

import (
	"context"
	"io"
)

// Lister enumerates the store contents.
type Lister interface {
	List(ctx context.Context) ([]FileInfo, error)
}

// Resolver maps a job identifier to its final artifact filename.
type Resolver interface {
	Resolve(ctx context.Context, id string) (string, error)
	Contains(id string) bool
}

// Deleter removes artifacts by name. Deleting an absent file is not an
// error; callers racing the sweeper must both succeed.
type Deleter interface {
	Delete(ctx context.Context, name string) (bool, error)
}

// Opener serves artifact contents.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadSeekCloser, FileInfo, error)
}
