package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashStringToUint64Stable(t *testing.T) {
	assert.Equal(t, HashStringToUint64("TCK-1"), HashStringToUint64("TCK-1"))
	assert.NotEqual(t, HashStringToUint64("TCK-1"), HashStringToUint64("TCK-2"))
}

func TestBucket(t *testing.T) {
	for _, s := range []string{"", "a", "ticket-99", "Réseau"} {
		b := Bucket(s, 3)
		assert.GreaterOrEqual(t, b, 0)
		assert.Less(t, b, 3)
	}
	assert.Equal(t, 0, Bucket("x", 0))
}
