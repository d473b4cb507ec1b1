// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package unit

import "math"

// Vec2 is a position on the battlefield plane.
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// Toward moves v at most step units toward dst. It snaps to dst when dst is
// within one step and reports whether dst was reached.
func (v Vec2) Toward(dst Vec2, step float64) (Vec2, bool) {
	d := v.Dist(dst)
	if d <= step {
		return dst, true
	}
	f := step / d
	return Vec2{X: v.X + (dst.X-v.X)*f, Y: v.Y + (dst.Y-v.Y)*f}, false
}
