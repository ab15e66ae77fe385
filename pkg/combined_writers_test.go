package pkg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("nope")
}

func TestCombinedWriter_Write(t *testing.T) {
	var b1, b2 bytes.Buffer
	cw := NewCombinedWriter(&b1, &b2)

	n, err := cw.Write([]byte("espresso"))
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, "espresso", b1.String())
	assert.Equal(t, "espresso", b2.String())
}

func TestCombinedWriter_WriteKeepsGoingOnError(t *testing.T) {
	var ok bytes.Buffer
	cw := NewCombinedWriter(failingWriter{}, &ok)

	n, err := cw.Write([]byte("latte"))
	require.Error(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "latte", ok.String())
}
