package discord

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/user/autothread/internal/types"
)

// FetchFunc loads channel metadata on a cache miss.
type FetchFunc func(ctx context.Context, channelID string) (*types.ChannelMetadata, error)

// Directory is an LRU cache of channel metadata in front of a FetchFunc.
// Concurrent misses for the same channel share one fetch. Entries are
// dropped by Invalidate when the platform reports a change.
type Directory struct {
	cache *lru.Cache[string, types.ChannelMetadata]
	fetch FetchFunc
	group singleflight.Group
}

var _ types.ChannelDirectory = (*Directory)(nil)

func NewDirectory(fetch FetchFunc, size int) (*Directory, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, types.ChannelMetadata](size)
	if err != nil {
		return nil, fmt.Errorf("create channel cache: %w", err)
	}
	return &Directory{cache: cache, fetch: fetch}, nil
}

// Get returns the metadata for channelID. guildID is not needed to address a
// channel and is ignored.
func (d *Directory) Get(ctx context.Context, _ string, channelID string) (*types.ChannelMetadata, error) {
	if ch, ok := d.cache.Get(channelID); ok {
		return &ch, nil
	}

	// The shared fetch outlives any single caller; each caller stops
	// waiting when its own ctx ends.
	fetchCtx := context.WithoutCancel(ctx)
	res := d.group.DoChan(channelID, func() (any, error) {
		ch, err := d.fetch(fetchCtx, channelID)
		if err != nil {
			return nil, err
		}
		d.cache.Add(channelID, *ch)
		return *ch, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-res:
		if r.Err != nil {
			return nil, r.Err
		}
		ch := r.Val.(types.ChannelMetadata)
		return &ch, nil
	}
}

// Invalidate drops channelID from the cache.
func (d *Directory) Invalidate(channelID string) {
	d.cache.Remove(channelID)
}

func (d *Directory) Len() int {
	return d.cache.Len()
}
