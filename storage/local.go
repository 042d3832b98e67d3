package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/errs"
)

// MediaPath is where the API serves objects kept by LocalStorage.
const MediaPath = "/media/"

// LocalStorage keeps media on the local filesystem. It is meant for
// development, where URLs point back at this server. URLs carry a signed,
// expiring token so that private objects stay private.
type LocalStorage struct {
	root   string
	secret []byte
	ttl    time.Duration
}

var _ Storage = (*LocalStorage)(nil)

func NewLocalStorage(root, secret string, ttl time.Duration) *LocalStorage {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LocalStorage{root: root, secret: []byte(secret), ttl: ttl}
}

func (l *LocalStorage) fixPath(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(cleanKey(key)))
}

func cleanKey(key string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
}

func (l *LocalStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	path := l.fixPath(key)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errs.NewStorageError("put", key, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.NewStorageError("put", key, err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return errs.NewStorageError("put", key, err)
	}
	log.Debug().Str("key", key).Str("size", humanize.Bytes(uint64(n))).Msg("Stored object locally")
	return nil
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(l.fixPath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.NewStorageError("delete", key, err)
	}
	return nil
}

// PresignGet returns MediaPath + key with a token valid for the storage TTL.
func (l *LocalStorage) PresignGet(_ context.Context, key string) (string, error) {
	key = cleanKey(key)
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   key,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(l.ttl)),
	}).SignedString(l.secret)
	if err != nil {
		return "", errs.NewStorageError("presign", key, err)
	}

	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return MediaPath + strings.Join(segments, "/") + "?" + url.Values{"token": {token}}.Encode(), nil
}

// verify reports whether token grants read access to key.
func (l *LocalStorage) verify(key, token string) bool {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return l.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	return err == nil && claims.Subject == key
}

// Exists reports whether key is stored.
func (l *LocalStorage) Exists(key string) bool {
	_, err := os.Stat(l.fixPath(key))
	return err == nil
}

// Handler serves stored objects below MediaPath. Requests need a token from
// PresignGet for the exact key; directories are never listed.
func (l *LocalStorage) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := cleanKey(strings.TrimPrefix(r.URL.Path, MediaPath))
		if key == "" || !l.verify(key, r.URL.Query().Get("token")) {
			http.NotFound(w, r)
			return
		}
		f, err := os.Open(l.fixPath(key))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}
