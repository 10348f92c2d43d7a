// Package hand reduces raw landmark telemetry to finger poses and hand position.
package hand

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumCoords is the flat telemetry payload length: x, y, z per landmark.
const NumCoords = NumLandmarks * 3

// Point2D represents a point in the normalized scene plane.
// X grows rightward and Y grows upward, both in [0, 1] for an
// on-screen hand.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// distance2D calculates the Euclidean distance between two points.
func distance2D(a, b Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PointsFromLandmarks converts the flat landmark array from the vision
// producer into scene-plane points. The producer emits image
// coordinates with Y growing downward; the Y axis is flipped here,
// exactly once, so everything downstream works in scene space.
// Returns nil when the array is too short to hold a full hand.
func PointsFromLandmarks(landmarks []float64) []Point2D {
	if len(landmarks) < NumCoords {
		return nil
	}
	points := make([]Point2D, NumLandmarks)
	for i := 0; i < NumLandmarks; i++ {
		points[i] = Point2D{
			X: landmarks[i*3],
			Y: 1.0 - landmarks[i*3+1],
		}
	}
	return points
}

// Center returns the hand's reference position, the middle finger MCP.
// Returns the zero point when no full hand is present.
func Center(points []Point2D) Point2D {
	if len(points) <= MiddleMCP {
		return Point2D{}
	}
	return points[MiddleMCP]
}
