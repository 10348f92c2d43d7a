// Package telemetry receives the vision producer's UDP stream and
// keeps the latest decoded reading available to the rest of the app.
package telemetry

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/hand"
)

// Message is one decoded telemetry datagram from the vision producer.
// Landmarks is a flat x, y, z array: 63 values when a hand was seen,
// empty otherwise. Letter may be empty or "?" when the producer runs
// without its classification model. Timestamp is the producer's clock
// in seconds and is informational only.
type Message struct {
	HandDetected bool      `json:"hand_detected"`
	Landmarks    []float64 `json:"landmarks"`
	Letter       string    `json:"letter"`
	Confidence   float64   `json:"confidence"`
	Timestamp    float64   `json:"timestamp"`
}

// DecodeMessage parses a telemetry datagram. Unknown fields are
// ignored and missing fields keep their zero values; only malformed
// JSON is an error.
func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.Wrap(err, "decode telemetry")
	}
	return &msg, nil
}

// HasGeometry reports whether the message carries enough landmark
// data to derive finger state and hand position.
func (m *Message) HasGeometry() bool {
	return m.HandDetected && len(m.Landmarks) >= hand.NumCoords
}
