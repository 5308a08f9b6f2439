package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNameFromGCSPublicURL(t *testing.T) {
	name, err := ObjectNameFromGCSPublicURL("media", "https://storage.googleapis.com/media/avatars/1-abc.png")
	require.NoError(t, err)
	assert.Equal(t, "avatars/1-abc.png", name)

	name, err = ObjectNameFromGCSPublicURL("media", "https://media.storage.googleapis.com/avatars/1-abc.png")
	require.NoError(t, err)
	assert.Equal(t, "avatars/1-abc.png", name)

	_, err = ObjectNameFromGCSPublicURL("media", "https://storage.googleapis.com/other-bucket/x.png")
	assert.Error(t, err)

	_, err = ObjectNameFromGCSPublicURL("media", "https://example.com/x.png")
	assert.Error(t, err)
}

func TestGCSDeleteLegacyURLRefs(t *testing.T) {
	g := &GCSMediaStore{bucket: "media"}

	// Empty refs are a no-op, foreign URLs fail before any API call.
	assert.NoError(t, g.Delete(context.Background(), ""))
	assert.Error(t, g.Delete(context.Background(), "https://storage.googleapis.com/other-bucket/x.png"))
	assert.Error(t, g.Delete(context.Background(), "https://example.com/x.png"))
}
