package tx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"certvault/pkg/platform/tx"
)

func TestFromEmptyContext(t *testing.T) {
	got, ok := tx.From(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestWithTxNilIsNoop(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, tx.WithTx(ctx, nil))

	got, ok := tx.From(tx.WithTx(ctx, nil))
	assert.False(t, ok)
	assert.Nil(t, got)
}
