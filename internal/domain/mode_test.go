package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFallbackMode(t *testing.T) {
	for _, m := range AllFallbackModes {
		parsed, err := ParseFallbackMode(string(m))
		assert.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseFallbackMode("hoverboard")
	assert.Error(t, err)
}

func TestModePair_Weight(t *testing.T) {
	assert.Equal(t, 2, ModePair{ModeWalking, ModeWalking}.Weight())
	assert.Equal(t, 1001, ModePair{ModeWalking, ModeCar}.Weight())
	assert.Less(t, ModePair{ModeBike, ModeBss}.Weight(), ModePair{ModeTaxi, ModeWalking}.Weight())
}

func TestNonPtType(t *testing.T) {
	assert.Equal(t, "non_pt_walk", NonPtType(ModeWalking))
	assert.Equal(t, "non_pt_bss", NonPtType(ModeBss))
	assert.Equal(t, "non_pt_car", NonPtType(ModeCar))
	assert.Equal(t, "non_pt_car", NonPtType(ModeCarNoPark))
}
