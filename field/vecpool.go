package field

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms3"
)

// VecPool hands out scratch buffers to distance field evaluations so that
// nested evaluators can share allocations. The zero value is ready to use.
// A VecPool is not safe for concurrent use; give each worker its own.
type VecPool struct {
	Float bufPool[float32]
	V3    bufPool[ms3.Vec]
}

// VecPool returns the pool itself so that any type embedding or wrapping a
// VecPool satisfies the lookup done by [GetVecPool].
func (vp *VecPool) VecPool() *VecPool { return vp }

// GetVecPool extracts a [VecPool] from the userData argument passed through
// [SDF3.Evaluate] calls.
func GetVecPool(userData any) (*VecPool, error) {
	pooler, ok := userData.(interface{ VecPool() *VecPool })
	if !ok {
		return nil, fmt.Errorf("field: userData %T does not provide a VecPool", userData)
	}
	vp := pooler.VecPool()
	if vp == nil {
		return nil, errors.New("field: nil VecPool")
	}
	return vp, nil
}

type bufPool[T any] struct {
	free   [][]T
	lent   int
	maxLen int
}

// Acquire returns a zeroed buffer of the requested length. The buffer must
// be handed back with [bufPool.Release] once done with.
func (p *bufPool[T]) Acquire(n int) []T {
	p.lent++
	if n > p.maxLen {
		p.maxLen = n
	}
	for i, buf := range p.free {
		if cap(buf) >= n {
			p.free[i] = p.free[len(p.free)-1]
			p.free = p.free[:len(p.free)-1]
			buf = buf[:n]
			var zero T
			for j := range buf {
				buf[j] = zero
			}
			return buf
		}
	}
	return make([]T, n)
}

// Release returns a buffer acquired from this pool, making it available for
// future Acquire calls.
func (p *bufPool[T]) Release(buf []T) error {
	if buf == nil {
		return errors.New("field: release of nil buffer")
	}
	if p.lent <= 0 {
		return errors.New("field: more buffers released than acquired")
	}
	p.lent--
	p.free = append(p.free, buf)
	return nil
}

// Outstanding reports how many acquired buffers have not been released yet.
// Useful to assert correct pool usage after an evaluation pipeline is done.
func (p *bufPool[T]) Outstanding() int { return p.lent }
