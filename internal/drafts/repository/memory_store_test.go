package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestMemoryStore(ttl time.Duration) (*MemoryStore, *clock) {
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(ttl)
	s.now = c.now
	return s, c
}

func TestMemoryStore_SaveGet(t *testing.T) {
	s, _ := newTestMemoryStore(time.Hour)
	ctx := context.Background()

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	state := []byte(`{"v":1}`)
	require.NoError(t, s.Save(ctx, "a", state))
	state[0] = 'x'

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(got))
}

func TestMemoryStore_Expiry(t *testing.T) {
	s, c := newTestMemoryStore(time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "a", []byte("1")))
	require.NoError(t, s.Save(ctx, "b", []byte("2")))

	c.t = c.t.Add(30 * time.Minute)
	require.NoError(t, s.Save(ctx, "b", []byte("3")))

	c.t = c.t.Add(45 * time.Minute)
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = s.Get(ctx, "b")
	assert.NoError(t, err, "save refreshes the ttl")

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_Upload(t *testing.T) {
	s, _ := newTestMemoryStore(time.Hour)
	ctx := context.Background()

	assert.ErrorIs(t, s.PutUpload(ctx, "a", []byte("pdf")), domain.ErrSessionNotFound)

	require.NoError(t, s.Save(ctx, "a", []byte("{}")))
	data, err := s.GetUpload(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.PutUpload(ctx, "a", []byte("pdf")))
	data, err = s.GetUpload(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))

	require.NoError(t, s.DeleteUpload(ctx, "a"))
	data, _ = s.GetUpload(ctx, "a")
	assert.Nil(t, data)
}

func TestMemoryStore_SubmitFlag(t *testing.T) {
	s, c := newTestMemoryStore(time.Hour)
	ctx := context.Background()

	_, err := s.AcquireSubmit(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, s.Save(ctx, "a", []byte("{}")))

	ok, err := s.AcquireSubmit(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AcquireSubmit(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.ReleaseSubmit(ctx, "a"))
	ok, _ = s.AcquireSubmit(ctx, "a")
	assert.True(t, ok)

	// a stale flag stops blocking after the lock ttl
	c.t = c.t.Add(submitLockTTL + time.Second)
	require.NoError(t, s.Save(ctx, "a", []byte("{}")))
	ok, _ = s.AcquireSubmit(ctx, "a")
	assert.True(t, ok)
}

func TestMemoryStore_Delete(t *testing.T) {
	s, _ := newTestMemoryStore(time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "a", []byte("{}")))
	require.NoError(t, s.Delete(ctx, "a"))

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NoError(t, s.Delete(ctx, "a"))
}

func TestSweeper(t *testing.T) {
	s, _ := newTestMemoryStore(time.Hour)

	_, err := NewSweeper(s, "not a schedule")
	assert.Error(t, err)

	sw, err := NewSweeper(s, "")
	require.NoError(t, err)
	sw.Start()
	<-sw.Stop().Done()
}
