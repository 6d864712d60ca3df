package machine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNonBlockIO(t *testing.T) {
	io, tx, _, idle := NewNonBlockIO()

	require.NoError(t, tx.Send(3))
	v, err := io.Get()
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
	require.False(t, idle.Idle())

	v, err = io.Get()
	require.NoError(t, err)
	require.Equal(t, NoInput, v)
	require.True(t, idle.Idle())

	require.NoError(t, tx.Send(4))
	v, err = io.Get()
	require.NoError(t, err)
	require.Equal(t, int64(4), v)
	require.False(t, idle.Idle())

	require.NoError(t, tx.Close())
	_, err = io.Get()
	require.ErrorIs(t, err, ErrClosed)
}

func TestNonBlockIOFirstGetBlocks(t *testing.T) {
	io, tx, rx, _ := NewNonBlockIO()
	m := New(MustParse("3,7,4,7,99,0,0,0"), io)
	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()

	require.NoError(t, tx.Send(11))
	require.NoError(t, <-done)
	require.Equal(t, []int64{11}, rx.Drain())
}

func TestAsyncIOCloseEndsOutput(t *testing.T) {
	io, tx, rx := NewAsyncIO()
	require.NoError(t, io.Put(1))
	require.NoError(t, io.Close())
	require.ErrorIs(t, tx.Send(2), ErrClosed)
	require.Equal(t, []int64{1}, rx.Drain())
}
