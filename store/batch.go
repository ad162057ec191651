package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchChunkLimit is the maximum number of values the underlying store
// accepts in one "match any of these IDs" query.
const BatchChunkLimit = 10

// maxConcurrentChunks bounds how many chunk queries run at once.
const maxConcurrentChunks = 4

// chunkIDs partitions ids into chunks of at most size values. An empty input
// yields no chunks.
func chunkIDs(ids []int32, size int) [][]int32 {
	if size <= 0 {
		size = BatchChunkLimit
	}
	if len(ids) == 0 {
		return nil
	}

	chunks := make([][]int32, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// queryInChunks issues query once per chunk of at most size IDs and merges
// the results. Chunks run concurrently; result order across chunks is not
// guaranteed. If any chunk query fails the whole operation fails, since a
// partial result set would silently under-report.
func queryInChunks[T any](ctx context.Context, ids []int32, size int, query func(ctx context.Context, chunk []int32) ([]T, error)) ([]T, error) {
	chunks := chunkIDs(ids, size)
	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) == 1 {
		return query(ctx, chunks[0])
	}

	var mu sync.Mutex
	merged := make([]T, 0, len(ids))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentChunks)
	for _, chunk := range chunks {
		eg.Go(func() error {
			results, err := query(ctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			merged = append(merged, results...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return merged, nil
}
