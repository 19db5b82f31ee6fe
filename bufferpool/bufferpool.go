// Package bufferpool provides a small free-list of byte buffers used by
// the normalizer when serializing canonical URLs.
package bufferpool

import (
	"bytes"
	"sync"
)

// Buffers that grow beyond this are discarded on Put instead of pooled.
const maxPooledSize = 64 * 1024

// BufferPool hands out reset bytes.Buffers backed by a sync.Pool. The
// zero value is not usable; call New.
type BufferPool struct {
	pool *sync.Pool
}

// New creates an empty BufferPool.
func New() *BufferPool {
	return &BufferPool{
		pool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// Get returns an empty buffer ready for use.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns a buffer to the pool.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledSize {
		return
	}
	bp.pool.Put(buf)
}
