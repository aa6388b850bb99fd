package storage

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "user-1/report.pdf", []byte("%PDF-1.4")))

	rc, err := s.Open(ctx, "user-1/report.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, "user-1/report.pdf"))
	require.NoError(t, s.Delete(ctx, "user-1/report.pdf"))

	_, err = s.Open(ctx, "user-1/report.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Save(context.Background(), "../escape.pdf", []byte("x")))
	assert.Error(t, s.Save(context.Background(), "", []byte("x")))
}
