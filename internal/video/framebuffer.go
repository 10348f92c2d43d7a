// Package video keeps the latest frame received from the vision
// producer available for display and streaming.
package video

import (
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FrameBuffer holds the most recent successfully decoded video frame.
// The pipeline tick is the only writer; HTTP clients read the JPEG
// bytes concurrently. A payload that fails to decode is discarded and
// the previous frame stays visible.
type FrameBuffer struct {
	mu    sync.RWMutex
	mat   gocv.Mat
	jpeg  []byte
	valid bool
}

// NewFrameBuffer creates an empty frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{mat: gocv.NewMat()}
}

// Decode validates one JPEG datagram and makes it the current frame.
func (b *FrameBuffer) Decode(data []byte) error {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return errors.Wrap(err, "decode frame")
	}
	if mat.Empty() {
		mat.Close()
		return errors.New("decoded frame is empty")
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	b.mu.Lock()
	old := b.mat
	b.mat = mat
	b.jpeg = buf
	b.valid = true
	b.mu.Unlock()

	old.Close()
	return nil
}

// JPEG returns the current frame as the producer encoded it, nil
// before the first frame. The returned slice is never modified after
// it is handed out.
func (b *FrameBuffer) JPEG() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg
}

// HasFrame reports whether a frame has been decoded yet.
func (b *FrameBuffer) HasFrame() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.valid
}

// Size returns the current frame's width and height in pixels, zero
// before the first frame.
func (b *FrameBuffer) Size() (width, height int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.valid {
		return 0, 0
	}
	return b.mat.Cols(), b.mat.Rows()
}

// Close releases the decoded frame. The buffer must not be used
// afterwards.
func (b *FrameBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.valid = false
	b.jpeg = nil
	return b.mat.Close()
}
