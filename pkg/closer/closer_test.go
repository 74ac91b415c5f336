package closer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClose_LIFOOrder(t *testing.T) {
	c := NewCloser(0)

	var order []int
	for i := 0; i < 3; i++ {
		c.Add(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	err := c.Close(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestClose_CollectsErrors(t *testing.T) {
	c := NewCloser(0)

	c.Add(func(ctx context.Context) error { return assert.AnError })
	c.Add(func(ctx context.Context) error { return nil })

	err := c.Close(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), assert.AnError.Error())
}

func TestClose_SecondCallIsNoop(t *testing.T) {
	c := NewCloser(0)

	calls := 0
	c.Add(func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestClose_ForcedCloseOnCanceledContext(t *testing.T) {
	c := NewCloser(time.Second)

	forced := make(chan struct{}, 2)
	c.Add(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			forced <- struct{}{}
			return ctx.Err()
		case <-time.After(10 * time.Second):
			return nil
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Close(ctx)

	require.Error(t, err)
	select {
	case <-forced:
	case <-time.After(5 * time.Second):
		t.Fatal("forced close was not invoked")
	}
}
