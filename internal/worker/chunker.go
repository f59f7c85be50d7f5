package worker

// Range is a half-open span [Start, End) of item indexes.
type Range struct {
	Start int
	End   int
}

// Len returns the number of items in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Chunk splits n items into contiguous ranges of at most size items each.
func Chunk(n, size int) []Range {
	if n <= 0 {
		return nil
	}
	if size <= 0 {
		size = n
	}
	chunks := make([]Range, 0, (n+size-1)/size)
	for i := 0; i < n; i += size {
		end := i + size
		if end > n {
			end = n
		}
		chunks = append(chunks, Range{Start: i, End: end})
	}
	return chunks
}
