package faststr

import (
	"context"

	"github.com/zeusync/faststr/pkg/concurrent"
)

// FromStrings builds one Str per element of ss using up to workers
// goroutines (GOMAXPROCS when workers <= 0). On error every value built so
// far is released and nil is returned.
//
// The installed allocator must be safe for concurrent use; all allocators in
// package memory are.
func FromStrings(ctx context.Context, ss []string, workers int) ([]Str, error) {
	out, err := concurrent.Map(ctx, ss, workers, func(_ context.Context, s string) (Str, error) {
		return FromString(s)
	})
	if err != nil {
		ReleaseAll(out)
		return nil, err
	}
	return out, nil
}

// ReleaseAll releases every element of vs.
func ReleaseAll(vs []Str) {
	for i := range vs {
		vs[i].Release()
	}
}
