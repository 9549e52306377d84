package cache_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/primeops/cache"
)

func ExampleMemoryCache() {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, 10)
	fmt.Println("found before set:", ok)

	_ = c.Set(ctx, 10, []int{2, 3, 5, 7})
	primes, ok := c.Get(ctx, 10)
	fmt.Println("found after set:", ok, primes)
	// Output:
	// found before set: false
	// found after set: true [2 3 5 7]
}

func ExampleMemoizer_Execute() {
	mw, _ := cache.NewMemoizer(cache.NewMemoryCache())
	ctx := context.Background()

	calls := 0
	compute := func(context.Context, int) ([]int, error) {
		calls++
		return []int{2, 3, 5, 7}, nil
	}

	_, hit, _ := mw.Execute(ctx, 10, true, compute)
	fmt.Println("first hit:", hit)
	_, hit, _ = mw.Execute(ctx, 10, true, compute)
	fmt.Println("second hit:", hit)
	fmt.Println("computations:", calls)
	// Output:
	// first hit: false
	// second hit: true
	// computations: 1
}
