package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arabic-reader/internal/errs"
)

type countingStore struct {
	texts     map[string]string
	retrieves int
}

func (s *countingStore) Store(_ context.Context, text string) (string, error) {
	id := ID(text)
	s.texts[id] = text
	return id, nil
}

func (s *countingStore) Retrieve(_ context.Context, id string) (string, error) {
	s.retrieves++
	text, ok := s.texts[id]
	if !ok {
		return "", errs.WrapNotFound("content", id)
	}
	return text, nil
}

func TestID(t *testing.T) {
	id := ID("مرحبا")
	assert.Len(t, id, 16)
	assert.True(t, ValidID(id))
	assert.Equal(t, id, ID("مرحبا"))
	assert.NotEqual(t, id, ID("مرحبا "))
	assert.False(t, ValidID("xyz"))
	assert.True(t, errs.IsNotFound(CheckID("../x")))
}

func TestCached(t *testing.T) {
	next := &countingStore{texts: map[string]string{}}
	c, err := NewCached(next, 2)
	require.NoError(t, err)
	ctx := context.Background()

	id, err := c.Store(ctx, "نص")
	require.NoError(t, err)
	got, err := c.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "نص", got)
	assert.Equal(t, 0, next.retrieves)

	other := ID("other")
	next.texts[other] = "other"
	_, err = c.Retrieve(ctx, other)
	require.NoError(t, err)
	_, err = c.Retrieve(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, next.retrieves)

	_, err = c.Retrieve(ctx, ID("missing"))
	assert.True(t, errs.IsNotFound(err))
}
