package hzb

import (
	"fmt"
	"math/bits"
	"strings"
)

// Quadrant selects one of the four sub-regions of a node. Bit 0 selects the
// right half and bit 1 the top half of the parent region; Y grows upwards.
type Quadrant uint8

const (
	BottomLeft Quadrant = iota
	BottomRight
	TopLeft
	TopRight
)

func (q Quadrant) String() string {
	switch q {
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	}
	return fmt.Sprintf("quadrant(%d)", uint8(q))
}

func (q Quadrant) isRight() bool {
	return q&1 != 0
}

func (q Quadrant) isTop() bool {
	return q&2 != 0
}

// LocCode encodes the path from the tree root to a node as a sequence of
// 2-bit quadrant digits below a leading 1 bit. The root is 1 and the parent of
// any node is obtained by dropping its last digit.
type LocCode uint64

// RootCode is the location code of the tree root.
const RootCode LocCode = 1

// The deepest level that can be addressed by a 64-bit location code.
const maxTreeDepth = 31

// Parent returns the code of the parent node. The parent of the root is 0
// which never identifies a node.
func (c LocCode) Parent() LocCode {
	return c >> 2
}

// Child returns the code of the child in quadrant q.
func (c LocCode) Child(q Quadrant) LocCode {
	return c<<2 | LocCode(q&3)
}

// Quadrant returns the quadrant of this node inside its parent. The result is
// meaningless for the root.
func (c LocCode) Quadrant() Quadrant {
	return Quadrant(c & 3)
}

func (c LocCode) IsRoot() bool {
	return c == RootCode
}

// Valid reports whether c is a well-formed code, i.e. a leading 1 bit
// followed by a whole number of quadrant digits.
func (c LocCode) Valid() bool {
	return c != 0 && bits.Len64(uint64(c))%2 == 1
}

// Depth returns the number of quadrant digits in the code; the root has depth 0.
func (c LocCode) Depth() int {
	if c == 0 {
		return 0
	}
	return (bits.Len64(uint64(c)) - 1) / 2
}

// String renders the code as the root marker followed by its quadrant digits,
// e.g. "1:031".
func (c LocCode) String() string {
	if !c.Valid() {
		return fmt.Sprintf("invalid(%#x)", uint64(c))
	}

	depth := c.Depth()
	var sb strings.Builder
	sb.WriteString("1:")
	for level := depth - 1; level >= 0; level-- {
		sb.WriteByte(byte('0' + (c>>(2*uint(level)))&3))
	}
	return sb.String()
}
