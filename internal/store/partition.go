package store

const DefaultPartitionSize = 10

// Partition splits items into consecutive chunks of at most size elements,
// preserving order. A non-positive size falls back to DefaultPartitionSize.
// Each chunk is a view into items with its capacity clipped to its length.
func Partition[E any](items []E, size int) [][]E {
	n := len(items)
	if n == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultPartitionSize
	}
	if size >= n {
		return [][]E{items[:n:n]}
	}

	out := make([][]E, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		out = append(out, items[start:end:end])
	}
	return out
}
