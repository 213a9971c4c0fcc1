package ikey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAndString(t *testing.T) {
	k, err := New("umi")
	require.NoError(t, err)
	require.Equal(t, "umi", k.String())
	require.Equal(t, 3, k.Len())
	require.False(t, k.IsEmpty())
}

func TestNewEmpty(t *testing.T) {
	k, err := New("")
	require.NoError(t, err)
	require.True(t, k.IsEmpty())
	require.Equal(t, "", k.String())
}

func TestNewTooLong(t *testing.T) {
	_, err := New("this-name-is-way-too-long-for-inline-storage")
	require.ErrorIs(t, err, ErrTooLong)
}

func TestNewMaxLen(t *testing.T) {
	s := "123456789012345"
	require.Len(t, s, MaxLen)
	k, err := New(s)
	require.NoError(t, err)
	require.Equal(t, s, k.String())
}

func TestEqual(t *testing.T) {
	a := MustNew("read1")
	b := MustNew("read1")
	c := MustNew("read2")
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestBytesAliasing(t *testing.T) {
	k := MustNew("abc")
	require.Equal(t, []byte("abc"), k.Bytes())
}

func TestMustNewPanics(t *testing.T) {
	require.Panics(t, func() {
		MustNew("way-too-long-a-name-to-fit-inline")
	})
}
