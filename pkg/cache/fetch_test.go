package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

func TestFetch_MissInvokesFetcherAndStores(t *testing.T) {
	stub := newStubCache()
	ctx := context.Background()

	calls := 0
	fetcher := func(ctx context.Context) (page, error) {
		calls++
		return page{Title: "fresh", Count: 7}, nil
	}

	got, err := Fetch(ctx, stub, "k", time.Minute, fetcher)
	require.NoError(t, err)
	assert.Equal(t, page{Title: "fresh", Count: 7}, got)
	assert.Equal(t, 1, calls)

	// Second read is a hit
	got, err = Fetch(ctx, stub, "k", time.Minute, fetcher)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Title)
	assert.Equal(t, 1, calls, "hit must not invoke the fetcher")
}

func TestFetch_CorruptEntryIsAMiss(t *testing.T) {
	stub := newStubCache()
	stub.data["k"] = `{"title": broken`
	ctx := context.Background()

	calls := 0
	got, err := Fetch(ctx, stub, "k", time.Minute, func(ctx context.Context) (page, error) {
		calls++
		return page{Title: "recovered"}, nil
	})
	require.NoError(t, err, "a corrupt payload must never surface to the caller")
	assert.Equal(t, "recovered", got.Title)
	assert.Equal(t, 1, calls)

	// The bad payload was overwritten
	var cached page
	found, err := stub.Get(ctx, "k", &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "recovered", cached.Title)
}

func TestFetch_FetcherErrorPropagates(t *testing.T) {
	stub := newStubCache()
	wantErr := errors.New("database down")

	_, err := Fetch(context.Background(), stub, "k", time.Minute, func(ctx context.Context) (page, error) {
		return page{}, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	exists, _ := stub.Exists(context.Background(), "k")
	assert.False(t, exists, "failed fetches are never cached")
}

func TestFetch_StoreFailureStillReturnsResult(t *testing.T) {
	stub := newStubCache()
	stub.setErr = errors.New("redis down")

	got, err := Fetch(context.Background(), stub, "k", time.Minute, func(ctx context.Context) (page, error) {
		return page{Title: "served"}, nil
	})
	require.NoError(t, err, "a cache write failure only costs the next caller a fetch")
	assert.Equal(t, "served", got.Title)
}
