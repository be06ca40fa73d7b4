package minio

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arabic-reader/internal/content"
	"arabic-reader/internal/errs"
)

// Set READER_TEST_MINIO_ENDPOINT (plus _ACCESS_KEY and _SECRET_KEY) to run against a live server.
func testStore(t *testing.T) *Store {
	endpoint := os.Getenv("READER_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("READER_TEST_MINIO_ENDPOINT not set")
	}
	s, err := New(context.Background(), Config{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("READER_TEST_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("READER_TEST_MINIO_SECRET_KEY"),
		Bucket:    "arabic-reader-test",
		Prefix:    fmt.Sprintf("run-%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	return s
}

func TestStoreRetrieve(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Store(ctx, "السلام عليكم")
	require.NoError(t, err)
	assert.Equal(t, content.ID("السلام عليكم"), id)

	got, err := s.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "السلام عليكم", got)

	_, err = s.Retrieve(ctx, content.ID("absent"))
	assert.True(t, errs.IsNotFound(err))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "0123456789abcdef.txt", (&Store{}).key("0123456789abcdef"))
	assert.Equal(t, "texts/0123456789abcdef.txt", (&Store{prefix: "texts"}).key("0123456789abcdef"))
}
