package hand

// Preset landmark arrays for tests and seeding checks. Coordinates are
// in the producer's image space (Y grows downward), matching what
// arrives on the wire, so consumers exercise the same conversion path
// as live telemetry.

// OpenPalmLandmarks returns a preset landmark array representing an
// open palm. All five fingers are extended outward.
func OpenPalmLandmarks() []float64 {
	var p [NumLandmarks][2]float64

	// Wrist at the lower middle of the frame
	p[Wrist] = [2]float64{0.50, 0.80}

	// Thumb extended to the side
	p[ThumbCMC] = [2]float64{0.55, 0.75}
	p[ThumbMCP] = [2]float64{0.62, 0.70}
	p[ThumbIP] = [2]float64{0.68, 0.65}
	p[ThumbTip] = [2]float64{0.73, 0.60}

	// Index finger extended upward
	p[IndexMCP] = [2]float64{0.55, 0.68}
	p[IndexPIP] = [2]float64{0.57, 0.55}
	p[IndexDIP] = [2]float64{0.58, 0.45}
	p[IndexTip] = [2]float64{0.58, 0.35}

	// Middle finger extended upward (slightly longer)
	p[MiddleMCP] = [2]float64{0.50, 0.66}
	p[MiddlePIP] = [2]float64{0.50, 0.52}
	p[MiddleDIP] = [2]float64{0.50, 0.40}
	p[MiddleTip] = [2]float64{0.50, 0.28}

	// Ring finger extended upward
	p[RingMCP] = [2]float64{0.45, 0.68}
	p[RingPIP] = [2]float64{0.43, 0.55}
	p[RingDIP] = [2]float64{0.42, 0.45}
	p[RingTip] = [2]float64{0.42, 0.35}

	// Pinky finger extended upward
	p[PinkyMCP] = [2]float64{0.40, 0.70}
	p[PinkyPIP] = [2]float64{0.37, 0.60}
	p[PinkyDIP] = [2]float64{0.35, 0.50}
	p[PinkyTip] = [2]float64{0.34, 0.42}

	return flatten(p)
}

// FistLandmarks returns a preset landmark array representing a closed
// fist. Every finger is curled with the tip near the palm.
func FistLandmarks() []float64 {
	var p [NumLandmarks][2]float64

	p[Wrist] = [2]float64{0.50, 0.80}

	// Thumb folded across the palm
	p[ThumbCMC] = [2]float64{0.55, 0.76}
	p[ThumbMCP] = [2]float64{0.58, 0.72}
	p[ThumbIP] = [2]float64{0.56, 0.70}
	p[ThumbTip] = [2]float64{0.52, 0.70}

	// Index finger curled (tip back near the palm)
	p[IndexMCP] = [2]float64{0.55, 0.68}
	p[IndexPIP] = [2]float64{0.56, 0.72}
	p[IndexDIP] = [2]float64{0.55, 0.75}
	p[IndexTip] = [2]float64{0.53, 0.76}

	// Middle finger curled
	p[MiddleMCP] = [2]float64{0.50, 0.66}
	p[MiddlePIP] = [2]float64{0.51, 0.71}
	p[MiddleDIP] = [2]float64{0.50, 0.74}
	p[MiddleTip] = [2]float64{0.49, 0.76}

	// Ring finger curled
	p[RingMCP] = [2]float64{0.45, 0.68}
	p[RingPIP] = [2]float64{0.45, 0.72}
	p[RingDIP] = [2]float64{0.45, 0.75}
	p[RingTip] = [2]float64{0.46, 0.76}

	// Pinky finger curled
	p[PinkyMCP] = [2]float64{0.42, 0.70}
	p[PinkyPIP] = [2]float64{0.41, 0.73}
	p[PinkyDIP] = [2]float64{0.42, 0.75}
	p[PinkyTip] = [2]float64{0.43, 0.77}

	return flatten(p)
}

// PointingLandmarks returns a preset landmark array with only the
// index finger extended, as in tracing a letter in the air.
func PointingLandmarks() []float64 {
	fist := FistLandmarks()

	// Swap in the open palm's extended index finger
	open := OpenPalmLandmarks()
	for i := IndexMCP; i <= IndexTip; i++ {
		fist[i*3] = open[i*3]
		fist[i*3+1] = open[i*3+1]
	}
	return fist
}

// PinkyOnlyLandmarks returns a preset landmark array with only the
// pinky extended, the hand shape used for the letter J.
func PinkyOnlyLandmarks() []float64 {
	fist := FistLandmarks()

	open := OpenPalmLandmarks()
	for i := PinkyMCP; i <= PinkyTip; i++ {
		fist[i*3] = open[i*3]
		fist[i*3+1] = open[i*3+1]
	}
	return fist
}

// Translate returns a copy of the landmark array shifted by dx and dy
// in producer image space. Useful for simulating hand movement across
// consecutive telemetry messages.
func Translate(landmarks []float64, dx, dy float64) []float64 {
	out := make([]float64, len(landmarks))
	copy(out, landmarks)
	for i := 0; i+2 < len(out); i += 3 {
		out[i] += dx
		out[i+1] += dy
	}
	return out
}

func flatten(p [NumLandmarks][2]float64) []float64 {
	coords := make([]float64, 0, NumCoords)
	for i := 0; i < NumLandmarks; i++ {
		coords = append(coords, p[i][0], p[i][1], 0)
	}
	return coords
}
