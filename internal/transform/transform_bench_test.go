package transform

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-cam/internal/testutil"
)

func BenchmarkForwardReal(b *testing.B) {
	for _, n := range []int{1024, 3600, 86400} {
		x := testutil.DeterministicNoise(1, 1, n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for range b.N {
				if _, err := ForwardReal(x); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
