package scheduler

// MemoryState holds the opaque memory-model parameters attached to a card
// once it has graduated past its first review. The scheduler never computes
// these values; transitions only carry them forward or clear them.
type MemoryState struct {
	Stability  float64
	Difficulty float64
}
