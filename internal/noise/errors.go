package noise

import "fmt"

// ShapeError reports coordinate axes (or a z plane) whose lengths cannot be
// combined. Nothing is truncated or padded.
type ShapeError struct {
	Op      string
	Lengths []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("noise: %s: incompatible axis lengths %v", e.Op, e.Lengths)
}
