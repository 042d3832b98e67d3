package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/teamforge-backend/config"
)

func TestSecureFilename(t *testing.T) {
	tests := map[string]string{
		"My cool song.mp3":     "My_cool_song.mp3",
		"../../etc/passwd":     "etc_passwd",
		"café demo.wav":        "cafe_demo.wav",
		"  .hidden ":           "hidden",
		"weird$%^name!!.ogg":   "weirdname.ogg",
		"日本語":                  "",
		`C:\Users\me\take1.mp3`: "C_Users_me_take1.mp3",
	}
	for in, want := range tests {
		assert.Equal(t, want, SecureFilename(in), in)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(DemoPrefix, 42, "My Song.mp3")
	assert.True(t, strings.HasPrefix(key, "demos/42/"), key)
	assert.True(t, strings.HasSuffix(key, "-My_Song.mp3"), key)

	// uuid (36 chars) + "-" + name
	rest := strings.TrimPrefix(key, "demos/42/")
	assert.Len(t, rest, 36+1+len("My_Song.mp3"))

	assert.NotEqual(t, key, ObjectKey(DemoPrefix, 42, "My Song.mp3"))
	assert.True(t, strings.HasSuffix(ObjectKey(AvatarPrefix, 1, "???"), "-upload"))
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStorage(t.TempDir(), "media-secret", time.Hour)
	key := "avatars/1/abc-me.png"

	require.NoError(t, store.Put(ctx, key, strings.NewReader("png-bytes"), 9, "image/png"))
	assert.True(t, store.Exists(key))

	signed, err := store.PresignGet(ctx, key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "/media/avatars/1/abc-me.png?token="), signed)

	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, signed, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	require.NoError(t, store.Delete(ctx, key))
	assert.False(t, store.Exists(key))
	assert.NoError(t, store.Delete(ctx, key), "deleting twice is fine")
}

func TestLocalStorageRefusesUnsignedAndListings(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStorage(root, "media-secret", time.Hour)
	key := "demos/1/abc-secret.mp3"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("ID3"), 3, "audio/mpeg"))

	signed, err := store.PresignGet(ctx, key)
	require.NoError(t, err)
	token := signed[strings.Index(signed, "?"):]

	other, err := store.PresignGet(ctx, "demos/1/other.mp3")
	require.NoError(t, err)
	otherToken := other[strings.Index(other, "?"):]

	expired := &LocalStorage{root: root, secret: []byte("media-secret"), ttl: -time.Minute}
	stale, err := expired.PresignGet(ctx, key)
	require.NoError(t, err)

	forged, err := NewLocalStorage(root, "wrong-secret", time.Hour).PresignGet(ctx, key)
	require.NoError(t, err)

	for name, target := range map[string]string{
		"no token":         "/media/" + key,
		"directory":        "/media/demos/1/",
		"signed directory": "/media/demos/1/" + token,
		"token for other":  "/media/" + key + otherToken,
		"expired":          stale,
		"wrong secret":     forged,
	} {
		rec := httptest.NewRecorder()
		store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, name)
		assert.NotContains(t, rec.Body.String(), "secret.mp3", name)
	}
}

func TestLocalStorageConfinesKeysToRoot(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStorage(root, "media-secret", time.Hour)
	assert.True(t, strings.HasPrefix(store.fixPath("../../outside"), root))
}

func TestS3PresignIsOfflineAndCached(t *testing.T) {
	store, err := NewS3Storage(context.Background(), config.StorageConfig{
		Region:          "us-east-1",
		Bucket:          "teamforge-media",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		PresignTTL:      time.Hour,
	})
	require.NoError(t, err)

	url, err := store.PresignGet(context.Background(), "demos/1/x-take.mp3")
	require.NoError(t, err)
	assert.Contains(t, url, "teamforge-media")
	assert.Contains(t, url, "demos/1/x-take.mp3")
	assert.Contains(t, url, "X-Amz-Expires=3600")

	again, err := store.PresignGet(context.Background(), "demos/1/x-take.mp3")
	require.NoError(t, err)
	assert.Equal(t, url, again)
}

func TestS3RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.StorageConfig{Region: "us-east-1"})
	assert.Error(t, err)
}
