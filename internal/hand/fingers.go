package hand

// FingerState describes which fingers are extended, thumb to pinky.
type FingerState struct {
	Thumb  bool `json:"thumb"`
	Index  bool `json:"index"`
	Middle bool `json:"middle"`
	Ring   bool `json:"ring"`
	Pinky  bool `json:"pinky"`
}

// AnalyzeFingers classifies each finger as extended or curled from the
// 21 landmark points.
//
// The thumb is extended when its tip sits farther from the pinky
// knuckle than its own MCP joint does, which tolerates the thumb's
// sideways articulation. The remaining fingers are extended when the
// tip is farther from the wrist than the finger's base knuckle.
// An incomplete hand classifies as all curled.
func AnalyzeFingers(points []Point2D) FingerState {
	if len(points) < NumLandmarks {
		return FingerState{}
	}

	wrist := points[Wrist]
	pinkyKnuckle := points[PinkyMCP]

	return FingerState{
		Thumb:  distance2D(points[ThumbTip], pinkyKnuckle) > distance2D(points[ThumbMCP], pinkyKnuckle),
		Index:  distance2D(points[IndexTip], wrist) > distance2D(points[IndexMCP], wrist),
		Middle: distance2D(points[MiddleTip], wrist) > distance2D(points[MiddleMCP], wrist),
		Ring:   distance2D(points[RingTip], wrist) > distance2D(points[RingMCP], wrist),
		Pinky:  distance2D(points[PinkyTip], wrist) > distance2D(points[PinkyMCP], wrist),
	}
}

// Extended reports how many fingers are extended.
func (f FingerState) Extended() int {
	n := 0
	for _, up := range [5]bool{f.Thumb, f.Index, f.Middle, f.Ring, f.Pinky} {
		if up {
			n++
		}
	}
	return n
}
