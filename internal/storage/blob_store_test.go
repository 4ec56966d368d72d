package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateName(t *testing.T) {
	name := GenerateName("My Teapot.GLB")
	assert.True(t, strings.HasSuffix(name, ".glb"), "extension is preserved lowercased")
	assert.NotContains(t, name, "My Teapot", "client-supplied name is discarded")

	// Two uploads with the same original filename never collide
	assert.NotEqual(t, GenerateName("a.obj"), GenerateName("a.obj"))

	assert.Equal(t, "", GenerateName("noextension")[36:], "no extension stays bare")
}

func TestRef(t *testing.T) {
	assert.Equal(t, "models/abc.glb", Ref(NamespaceModels, "abc.glb"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ref, err := s.Put(ctx, NamespaceModels, "a.obj", strings.NewReader("v 0 0 0"), 7)
	require.NoError(t, err)
	assert.Equal(t, "models/a.obj", ref)

	exists, err := s.Exists(ctx, ref)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Get(ctx, ref)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, []byte("v 0 0 0"), data)

	existed, err := s.Delete(ctx, ref)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Delete(ctx, ref)
	require.NoError(t, err)
	assert.False(t, existed, "second delete reports the blob as gone")

	_, err = s.Get(ctx, ref)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}
