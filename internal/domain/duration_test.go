package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackDurations_Immutable(t *testing.T) {
	src := map[string]DurationElement{
		"sp:b": {Duration: 120, Status: StatusReached},
		"sp:a": {Duration: 0, Status: StatusReached},
	}
	fd := NewFallbackDurations(ModeWalking, src)

	src["sp:c"] = DurationElement{Duration: 10}
	delete(src, "sp:a")

	assert.Equal(t, 2, fd.Len())
	assert.Equal(t, []string{"sp:a", "sp:b"}, fd.URIs())
	assert.Equal(t, ModeWalking, fd.Mode())

	durations := fd.Durations()
	durations["sp:a"] = 999
	el, ok := fd.Get("sp:a")
	assert.True(t, ok)
	assert.Equal(t, 0, el.Duration)
}

func TestFallbackDurations_Nil(t *testing.T) {
	var fd *FallbackDurations

	assert.True(t, fd.IsEmpty())
	assert.Nil(t, fd.URIs())
	_, ok := fd.Get("sp:a")
	assert.False(t, ok)
}
