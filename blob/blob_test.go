package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLen(t *testing.T) {
	b := Blob{Bytes: []byte("hello")}
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 0, Blob{}.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Blob{Bytes: []byte("hello")}
	clone := orig.Clone()
	require.Equal(t, orig.Bytes, clone.Bytes)

	clone.Bytes[0] = 'H'
	assert.Equal(t, byte('h'), orig.Bytes[0], "mutating the clone must not affect the original")
	assert.Equal(t, byte('H'), clone.Bytes[0])
}
