// Package transform computes discrete Fourier transforms of arbitrary length.
//
// algo-fft plans every length, falling back to its own Bluestein kernel for
// sizes without a fast factorisation, so callers never pad their data. Plans
// are cached per length in a small least-recently-used cache.
package transform

import (
	"container/list"
	"errors"
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrEmpty is returned when a transform is requested for zero samples.
var ErrEmpty = errors.New("transform: empty input")

// defaultPlanCacheSize bounds the number of cached plans.
const defaultPlanCacheSize = 16

type cachedPlan struct {
	n    int
	plan *algofft.Plan[complex128]
}

// planCache holds the most recently used plans. Plans are safe for
// concurrent transforms, so a cached plan is shared between callers.
type planCache struct {
	mu    sync.Mutex
	size  int
	order *list.List // front is most recently used
	byLen map[int]*list.Element
}

func newPlanCache(size int) *planCache {
	return &planCache{
		size:  max(size, 1),
		order: list.New(),
		byLen: map[int]*list.Element{},
	}
}

var plans = newPlanCache(defaultPlanCacheSize)

// setPlanCacheSize changes how many plans are kept, evicting the least
// recently used ones if the cache shrinks. Sizes below 1 are treated as 1.
func setPlanCacheSize(size int) {
	plans.mu.Lock()
	defer plans.mu.Unlock()

	plans.size = max(size, 1)
	plans.evict()
}

// get returns the plan for n, creating and caching it on a miss.
func (c *planCache) get(n int) (*algofft.Plan[complex128], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.byLen[n]; ok {
		c.order.MoveToFront(e)
		return e.Value.(*cachedPlan).plan, nil
	}

	p, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("transform: plan %d-point FFT: %w", n, err)
	}
	c.byLen[n] = c.order.PushFront(&cachedPlan{n: n, plan: p})
	c.evict()
	return p, nil
}

func (c *planCache) evict() {
	for c.order.Len() > c.size {
		e := c.order.Back()
		c.order.Remove(e)
		delete(c.byLen, e.Value.(*cachedPlan).n)
	}
}

func (c *planCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Forward returns the unnormalised DFT of x:
// X[k] = sum_n x[n] * exp(-2πi·k·n/N).
func Forward(x []complex128) ([]complex128, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrEmpty
	}
	if n == 1 {
		return []complex128{x[0]}, nil
	}

	plan, err := plans.get(n)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, x); err != nil {
		return nil, fmt.Errorf("transform: forward FFT failed: %w", err)
	}
	return out, nil
}

// ForwardReal returns the DFT of a real-valued sequence.
func ForwardReal(x []float64) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmpty
	}
	in := make([]complex128, len(x))
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	return Forward(in)
}

// Inverse returns the inverse DFT of X, normalised by 1/N so that
// Inverse(Forward(x)) == x.
func Inverse(X []complex128) ([]complex128, error) {
	n := len(X)
	if n == 0 {
		return nil, ErrEmpty
	}
	if n == 1 {
		return []complex128{X[0]}, nil
	}

	plan, err := plans.get(n)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, n)
	if err := plan.Inverse(out, X); err != nil {
		return nil, fmt.Errorf("transform: inverse FFT failed: %w", err)
	}
	return out, nil
}
