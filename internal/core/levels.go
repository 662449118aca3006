package core

// Levels is one pair of VU meter readings, each in [0, max level].
type Levels struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}
