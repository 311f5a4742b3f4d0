//go:build linux || darwin

package poll

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}

func newSelect(t *testing.T, in, out *os.File) *Select {
	t.Helper()
	p, err := NewSelect(in.Fd(), out.Fd())
	require.NoError(t, err)
	return p
}

func TestNewSelectRejectsOutOfRangeDescriptors(t *testing.T) {
	tests := []struct {
		name    string
		in, out uintptr
	}{
		{"input at limit", uintptr(fdSetSize), 1},
		{"output past limit", 0, uintptr(fdSetSize + 500)},
		{"closed descriptor", ^uintptr(0), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewSelect(tt.in, tt.out)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrDescriptorRange))
		})
	}

	p, err := NewSelect(uintptr(fdSetSize-1), 0)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestSelectTimesOut(t *testing.T) {
	inR, _ := newPipe(t)
	_, outW := newPipe(t)
	p := newSelect(t, inR, outW)

	start := time.Now()
	ready, err := p.Wait(false, 5*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ready.TimedOut())
	assert.GreaterOrEqual(t, time.Since(start), 4*time.Millisecond)
}

func TestSelectInputReadable(t *testing.T) {
	inR, inW := newPipe(t)
	_, outW := newPipe(t)
	p := newSelect(t, inR, outW)

	_, err := inW.Write([]byte("x"))
	require.NoError(t, err)

	ready, err := p.Wait(false, time.Second)
	require.NoError(t, err)
	assert.True(t, ready.Input)
	assert.False(t, ready.Output)
}

func TestSelectInputAtEOFIsReadable(t *testing.T) {
	inR, inW := newPipe(t)
	_, outW := newPipe(t)
	p := newSelect(t, inR, outW)

	require.NoError(t, inW.Close())

	ready, err := p.Wait(false, time.Second)
	require.NoError(t, err)
	assert.True(t, ready.Input)
}

func TestSelectWatchesOutputOnlyWhenAsked(t *testing.T) {
	inR, _ := newPipe(t)
	_, outW := newPipe(t)
	p := newSelect(t, inR, outW)

	ready, err := p.Wait(true, time.Second)
	require.NoError(t, err)
	assert.False(t, ready.Input)
	assert.True(t, ready.Output)

	ready, err = p.Wait(false, time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ready.Output)
}

func TestSelectBadDescriptor(t *testing.T) {
	inR, _ := newPipe(t)
	_, outW := newPipe(t)
	p := newSelect(t, inR, outW)
	require.NoError(t, inR.Close())

	_, err := p.Wait(false, time.Millisecond)
	assert.Error(t, err)
}
