package mapreduce

import "slices"

// Split divides items into at most workers contiguous chunks of
// ceil(len(items)/workers) elements; the last chunk may be shorter.
// No empty chunk is ever produced, so an empty input yields no chunks.
// Each chunk is a copy and owns its backing array.
func Split[T any](items []T, workers int) [][]T {
	if workers < 1 {
		workers = 1
	}
	if len(items) == 0 {
		return nil
	}

	chunkSize := (len(items) + workers - 1) / workers
	chunks := make([][]T, 0, (len(items)+chunkSize-1)/chunkSize)
	for start := 0; start < len(items); start += chunkSize {
		end := min(start+chunkSize, len(items))
		chunks = append(chunks, slices.Clone(items[start:end]))
	}

	return chunks
}

// Reduce sums the partial results produced by each chunk.
func Reduce(partials []uint64) uint64 {
	var total uint64
	for _, p := range partials {
		total += p
	}
	return total
}
