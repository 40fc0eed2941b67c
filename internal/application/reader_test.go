package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/infrastructure/storage"
)

type fakeReader struct {
	codes    []entity.Code
	err      error
	calls    int
	expected int
}

func (f *fakeReader) Read(ctx context.Context, photo []byte, expected int) ([]entity.Code, error) {
	f.calls++
	f.expected = expected
	if f.err != nil {
		return nil, f.err
	}
	return f.codes, nil
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) (*entity.Reading, error) {
	return nil, errors.New("cache down")
}

func (failingCache) Set(ctx context.Context, key string, reading *entity.Reading) error {
	return errors.New("cache down")
}

func wash40(t *testing.T) entity.Code {
	t.Helper()
	c, err := entity.Encode(entity.Fields{Base: entity.BaseWash, Allowed: true, Inner: entity.InnerTemp40, Outer: 1})
	require.NoError(t, err)
	return c
}

func newReaderService(reader *fakeReader) *ReaderService {
	users := NewUserService(storage.NewMemoryUserRepository())
	return NewReaderService(users, reader, storage.NewMemoryReadingCache(0), nil)
}

func TestReaderService_ReadCaches(t *testing.T) {
	reader := &fakeReader{codes: []entity.Code{wash40(t)}}
	svc := newReaderService(reader)
	ctx := context.Background()

	out, err := svc.Read(ctx, []byte("photo"), 0)
	require.NoError(t, err)
	require.False(t, out.Cached)
	require.Equal(t, PhotoHash([]byte("photo")), out.Reading.Hash)
	require.Len(t, out.Reading.Codes, 1)

	out, err = svc.Read(ctx, []byte("photo"), 1)
	require.NoError(t, err)
	require.True(t, out.Cached)
	require.Equal(t, 1, reader.calls)

	reading, err := svc.Lookup(ctx, out.Reading.Hash)
	require.NoError(t, err)
	require.Equal(t, out.Reading.Codes, reading.Codes)
}

func TestReaderService_ExpectedMismatchBypassesCache(t *testing.T) {
	reader := &fakeReader{codes: []entity.Code{wash40(t)}}
	svc := newReaderService(reader)
	ctx := context.Background()

	_, err := svc.Read(ctx, []byte("photo"), 0)
	require.NoError(t, err)

	reader.err = entity.NewStageError(entity.StageIsolate, entity.ErrSymbolCountMismatch)
	_, err = svc.Read(ctx, []byte("photo"), 3)
	require.ErrorIs(t, err, entity.ErrSymbolCountMismatch)
	require.Equal(t, 2, reader.calls)
	require.Equal(t, 3, reader.expected)
}

func TestReaderService_FailureNotCached(t *testing.T) {
	reader := &fakeReader{err: entity.NewStageError(entity.StageLabel, entity.ErrNoLabelFound)}
	svc := newReaderService(reader)
	ctx := context.Background()

	out, err := svc.Read(ctx, []byte("photo"), 0)
	require.ErrorIs(t, err, entity.ErrNoLabelFound)
	require.Nil(t, out)

	_, err = svc.Lookup(ctx, PhotoHash([]byte("photo")))
	require.ErrorIs(t, err, ErrReadingNotFound)
}

func TestReaderService_CacheErrorsIgnored(t *testing.T) {
	reader := &fakeReader{codes: []entity.Code{wash40(t)}}
	users := NewUserService(storage.NewMemoryUserRepository())
	svc := NewReaderService(users, reader, failingCache{}, nil)

	out, err := svc.Read(context.Background(), []byte("photo"), 0)
	require.NoError(t, err)
	require.False(t, out.Cached)

	_, err = svc.Lookup(context.Background(), "abc")
	require.Error(t, err)
}

func TestReaderService_EmptyPhoto(t *testing.T) {
	svc := newReaderService(&fakeReader{})
	_, err := svc.Read(context.Background(), nil, 0)
	require.Error(t, err)
}

func TestReaderService_ProcessUserPhoto(t *testing.T) {
	reader := &fakeReader{codes: []entity.Code{wash40(t), wash40(t)}}
	svc := newReaderService(reader)
	ctx := context.Background()

	_, err := svc.users.SetExpected(ctx, 7, 70, 2)
	require.NoError(t, err)

	out, err := svc.ProcessUserPhoto(ctx, 7, 70, []byte("label"))
	require.NoError(t, err)
	require.Len(t, out.Reading.Codes, 2)
	require.Equal(t, 2, reader.expected)

	user, err := svc.users.Get(ctx, 7, 70)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestPhotoHash(t *testing.T) {
	require.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", PhotoHash(nil))
}
