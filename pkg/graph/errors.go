package graph

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidNode = errors.New("invalid node")
	ErrTooLarge    = errors.New("graph too large")
)

// InvalidNodeError reports a node id outside [0, N)
type InvalidNodeError struct {
	Node int
	N    int
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("invalid node %d: must be in range [0, %d)", e.Node, e.N)
}

func (e *InvalidNodeError) Is(target error) bool {
	return target == ErrInvalidNode
}

// CheckNode returns an *InvalidNodeError if node is not in [0, n)
func CheckNode(node, n int) error {
	if node < 0 || node >= n {
		return &InvalidNodeError{Node: node, N: n}
	}
	return nil
}
