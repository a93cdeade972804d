package model

import "math"

// The tracker reports counters as wide or signed integers, sometimes absent.
// All of them are folded into the uint32 domain the store persists: negative
// or absent values become 0, values past MaxUint32 clamp to MaxUint32. The
// conversions are total and never panic.

// SaturateInt64 clamps v into [0, math.MaxUint32].
func SaturateInt64(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// SaturateInt clamps v into [0, math.MaxUint32].
func SaturateInt(v int) uint32 {
	return SaturateInt64(int64(v))
}

// SaturateInt64Ptr clamps *v into [0, math.MaxUint32], treating nil as 0.
func SaturateInt64Ptr(v *int64) uint32 {
	if v == nil {
		return 0
	}
	return SaturateInt64(*v)
}

// SaturateIntPtr clamps *v into [0, math.MaxUint32], treating nil as 0.
func SaturateIntPtr(v *int) uint32 {
	if v == nil {
		return 0
	}
	return SaturateInt64(int64(*v))
}
