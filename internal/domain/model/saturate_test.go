package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturateInt64(t *testing.T) {
	assert.Equal(t, uint32(42), SaturateInt64(42))
	assert.Equal(t, uint32(0), SaturateInt64(0))
	assert.Equal(t, uint32(0), SaturateInt64(-5))
	assert.Equal(t, uint32(math.MaxUint32), SaturateInt64(math.MaxUint32))
	assert.Equal(t, uint32(math.MaxUint32), SaturateInt64(math.MaxUint32+500))
	assert.Equal(t, uint32(math.MaxUint32), SaturateInt64(math.MaxInt64))
	assert.Equal(t, uint32(0), SaturateInt64(math.MinInt64))
}

func TestSaturateIntPtr(t *testing.T) {
	v := 42
	assert.Equal(t, uint32(42), SaturateIntPtr(&v))

	neg := -1
	assert.Equal(t, uint32(0), SaturateIntPtr(&neg))

	assert.Equal(t, uint32(0), SaturateIntPtr(nil))
}

func TestSaturateInt64Ptr(t *testing.T) {
	big := int64(math.MaxUint32 + 500)
	assert.Equal(t, uint32(math.MaxUint32), SaturateInt64Ptr(&big))

	assert.Equal(t, uint32(0), SaturateInt64Ptr(nil))
}
