package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/gyeh/billclaims/internal/model"
)

// Row is a value that can be COPY-loaded.
type Row interface {
	CopyValues() []any
}

// ChannelSource implements pgx.CopyFromSource by reading rows from a channel.
// This provides natural backpressure between the producer and COPY writer.
type ChannelSource[T Row] struct {
	ch      <-chan T
	current T
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource[T Row](ch <-chan T) *ChannelSource[T] {
	return &ChannelSource[T]{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[T]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[T]) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err returns any error encountered during iteration.
func (s *ChannelSource[T]) Err() error {
	return s.err
}

// Compile-time check that ChannelSource satisfies the interface.
var _ pgx.CopyFromSource = (*ChannelSource[*model.FailureRow])(nil)

// feed sends rows on a buffered channel from a producer goroutine and closes
// it when done or when ctx is canceled.
func feed[T Row](ctx context.Context, rows []T) <-chan T {
	ch := make(chan T, copyBatchSize)
	go func() {
		defer close(ch)
		for _, r := range rows {
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

const copyBatchSize = 1024

// pointers returns a pointer to every element of rows.
func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

// copyRows COPY-loads rows into table through a ChannelSource.
func copyRows[T Row](ctx context.Context, tx pgx.Tx, table pgx.Identifier, columns []string, rows []T) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return tx.CopyFrom(ctx, table, columns, NewChannelSource(feed(ctx, rows)))
}
