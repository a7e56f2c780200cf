package db

import (
	"github.com/jackc/pgx/v5"
)

// CopyRow is a row that knows its values in COPY column order.
type CopyRow interface {
	CopyValues() []any
}

// ChannelSource implements pgx.CopyFromSource over rows arriving on a
// channel, so a producer goroutine and COPY run with natural backpressure.
type ChannelSource[T CopyRow] struct {
	ch      <-chan T
	current T
	rows    int64
}

// NewChannelSource creates a CopyFromSource backed by ch. COPY ends when ch
// is closed.
func NewChannelSource[T CopyRow](ch <-chan T) *ChannelSource[T] {
	return &ChannelSource[T]{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[T]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	s.rows++
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[T]) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err always returns nil; producers report their own errors.
func (s *ChannelSource[T]) Err() error {
	return nil
}

// Rows reports how many rows have been handed to COPY so far.
func (s *ChannelSource[T]) Rows() int64 {
	return s.rows
}

var _ pgx.CopyFromSource = (*ChannelSource[CopyRow])(nil)
