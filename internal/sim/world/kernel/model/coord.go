package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxCoord bounds player positions and view boxes in tiles. Cell math near it
// stays far from int overflow.
const MaxCoord = 1 << 40

// ClampCoord limits v to [-MaxCoord, MaxCoord].
func ClampCoord(v int) int {
	if v > MaxCoord {
		return MaxCoord
	}
	if v < -MaxCoord {
		return -MaxCoord
	}
	return v
}

// Vec2i is a grid cell. It is used directly as a map key.
type Vec2i struct {
	X int
	Y int
}

func (v Vec2i) Add(o Vec2i) Vec2i { return Vec2i{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2i) ToArray() [2]int { return [2]int{v.X, v.Y} }

func Vec2iFromArray(a [2]int) Vec2i { return Vec2i{X: a[0], Y: a[1]} }

// Key is the canonical "x,y" form used by snapshots and the wire protocol.
func (v Vec2i) Key() string {
	return strconv.Itoa(v.X) + "," + strconv.Itoa(v.Y)
}

func (v Vec2i) String() string { return v.Key() }

// ParseKey is the inverse of Key.
func ParseKey(s string) (Vec2i, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Vec2i{}, fmt.Errorf("bad coordinate key %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Vec2i{}, fmt.Errorf("bad coordinate key %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Vec2i{}, fmt.Errorf("bad coordinate key %q: %w", s, err)
	}
	return Vec2i{X: x, Y: y}, nil
}

// Direction of a conveyor or upgrader. Screen coordinates: up is -Y.
type Direction uint8

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

func (d Direction) Valid() bool { return d <= DirLeft }

// Next is the clockwise rotation.
func (d Direction) Next() Direction { return (d + 1) % 4 }

func (d Direction) Offset() Vec2i {
	switch d {
	case DirUp:
		return Vec2i{X: 0, Y: -1}
	case DirRight:
		return Vec2i{X: 1, Y: 0}
	case DirDown:
		return Vec2i{X: 0, Y: 1}
	case DirLeft:
		return Vec2i{X: -1, Y: 0}
	default:
		return Vec2i{}
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirRight:
		return "RIGHT"
	case DirDown:
		return "DOWN"
	case DirLeft:
		return "LEFT"
	default:
		return "INVALID"
	}
}

// NeighborOffsets is the fixed scan order used when a factory looks for an output cell.
func NeighborOffsets() []Vec2i {
	return []Vec2i{
		{X: 0, Y: -1},
		{X: 0, Y: 1},
		{X: 1, Y: 0},
		{X: -1, Y: 0},
	}
}
