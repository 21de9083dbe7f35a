package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanMethods(t *testing.T) {
	s := Span{Start: 2, End: 5}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "[2,5)", s.String())

	assert.True(t, s.Contains(Span{2, 5}))
	assert.True(t, s.Contains(Span{3, 4}))
	assert.True(t, s.Contains(Span{3, 3}))
	assert.False(t, s.Contains(Span{1, 3}))
	assert.False(t, s.Contains(Span{4, 6}))
}

func TestAddressString(t *testing.T) {
	tests := []struct {
		addr Address
		want string
	}{
		{nil, "."},
		{Address{}, "."},
		{Address{0}, "0"},
		{Address{1, 0, 12}, "1.0.12"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.String())

			back, err := ParseAddress(tt.want)
			require.NoError(t, err)
			assert.Equal(t, len(tt.addr), len(back))
			if len(tt.addr) > 0 {
				assert.Equal(t, tt.addr, back)
			}
		})
	}
}

func TestParseAddressErrors(t *testing.T) {
	for _, s := range []string{"a", "1..2", "1.-1", "0.x"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseAddress(s)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}

	addr, err := ParseAddress("")
	require.NoError(t, err)
	assert.Empty(t, addr)
}
