package sessionstore

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-claimform/pkg/session"
)

func TestCreateAndGet(t *testing.T) {
	store := New(time.Minute, time.Minute, nil)

	entry, err := store.Create()
	require.NoError(t, err)
	assert.Len(t, entry.ID(), idLength)
	assert.Len(t, entry.CSRF, csrfLength)
	assert.Equal(t, session.StageBrowsing, entry.Session.Stage())

	got, err := store.Get(entry.ID())
	require.NoError(t, err)
	assert.Same(t, entry, got)
	assert.Equal(t, 1, store.Len())
}

func TestGetUnknown(t *testing.T) {
	store := New(time.Minute, time.Minute, nil)
	_, err := store.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.Get("")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExpiry(t *testing.T) {
	store := New(20*time.Millisecond, time.Hour, nil)
	entry, err := store.Create()
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	_, err = store.Get(entry.ID())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDelete(t *testing.T) {
	store := New(time.Minute, time.Minute, nil)
	entry, err := store.Create()
	require.NoError(t, err)

	store.Delete(entry.ID())
	_, err = store.Get(entry.ID())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFactoryReceivesID(t *testing.T) {
	var seen string
	store := New(time.Minute, time.Minute, func(id string) *session.Session {
		seen = id
		return session.New(id)
	})
	entry, err := store.Create()
	require.NoError(t, err)
	assert.Equal(t, entry.ID(), seen)
}

func TestWithSerialises(t *testing.T) {
	store := New(time.Minute, time.Minute, nil)
	entry, err := store.Create()
	require.NoError(t, err)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.With(entry.ID(), func(*Entry) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestVerifyCSRF(t *testing.T) {
	entry := &Entry{CSRF: "abc"}
	assert.True(t, entry.VerifyCSRF("abc"))
	assert.False(t, entry.VerifyCSRF("abd"))
	assert.False(t, entry.VerifyCSRF(""))
	assert.False(t, (&Entry{}).VerifyCSRF(""))
}
