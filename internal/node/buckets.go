package node

import "fmt"

// BucketSize returns the number of indices per bucket for a collection of n
// indexed properties: 10^max(2, ceil(log10 n) - 2).
func BucketSize(n int) int {
	digits := 0
	for p := 1; p < n; p *= 10 {
		digits++
	}

	exp := max(2, digits-2)
	size := 1
	for range exp {
		size *= 10
	}
	return size
}

// MakeNumericalBuckets splits parent's indexed range into contiguous,
// disjoint buckets. Nested buckets carry absolute indices.
func MakeNumericalBuckets(parent *Node, lookup Lookup) []*Node {
	count := NumericalPropertiesCount(parent, lookup)
	if count <= 0 {
		return []*Node{}
	}

	size := BucketSize(count)
	numBuckets := (count + size - 1) / size

	offset := 0
	if IsBucket(parent) && parent.Meta != nil {
		offset = parent.Meta.StartIndex
	}

	buckets := make([]*Node, 0, numBuckets)
	for i := range numBuckets {
		start := offset + i*size
		end := offset + min((i+1)*size, count) - 1
		buckets = append(buckets, New(Options{
			Parent: parent,
			Name:   fmt.Sprintf("[%d…%d]", start, end),
			Type:   TypeBucket,
			Meta:   &BucketMeta{StartIndex: start, EndIndex: end},
		}))
	}
	return buckets
}
