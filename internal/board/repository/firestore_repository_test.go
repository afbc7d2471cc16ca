package repository

import "testing"

// The cascade delete appends the board ref after the task refs and commits
// in chunks of at most maxBatchOps, so the ranges must cover every index
// exactly once, in order, with the final index (the board) in the last chunk.
func TestChunkRanges(t *testing.T) {
	cases := []struct {
		name string
		n    int
		size int
		want int // chunk count
	}{
		{"empty", 0, maxBatchOps, 0},
		{"single", 1, maxBatchOps, 1},
		{"exactly one batch", maxBatchOps, maxBatchOps, 1},
		{"one over", maxBatchOps + 1, maxBatchOps, 2},
		{"large cascade", 1234, maxBatchOps, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ranges := chunkRanges(tc.n, tc.size)
			if len(ranges) != tc.want {
				t.Fatalf("chunks = %d, want %d", len(ranges), tc.want)
			}

			next := 0
			for _, r := range ranges {
				if r[0] != next {
					t.Fatalf("range starts at %d, want %d", r[0], next)
				}
				if r[1] <= r[0] {
					t.Fatalf("empty range [%d, %d)", r[0], r[1])
				}
				if r[1]-r[0] > tc.size {
					t.Fatalf("range [%d, %d) exceeds batch limit %d", r[0], r[1], tc.size)
				}
				next = r[1]
			}
			if next != tc.n {
				t.Fatalf("ranges cover %d items, want %d", next, tc.n)
			}
		})
	}
}
