package upload

import (
	"bytes"
	"crypto/rand"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNamer(now time.Time, entropy []byte) *Namer {
	return &Namer{now: func() time.Time { return now }, entropy: bytes.NewReader(entropy)}
}

func TestNamer_Shape(t *testing.T) {
	now := time.UnixMilli(1718000000123)

	tests := []struct {
		field, original, want string
	}{
		{FieldFile, "holiday.jpg", "file-1718000000123-000000007.jpg"},
		{FieldImage, "scan.final.PDF", "image-1718000000123-000000007.PDF"},
		{FieldFile, "README", "file-1718000000123-000000007"},
		{FieldFile, "archive.tar.gz", "file-1718000000123-000000007.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			n := fixedNamer(now, []byte{0, 0, 0, 7})
			got, err := n.Name(tt.field, tt.original)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNamer_EntropyFailure(t *testing.T) {
	n := fixedNamer(time.Now(), nil)
	_, err := n.Name(FieldFile, "a.png")
	assert.Error(t, err)
}

func TestNamer_DistinctNamesWithinSameMillisecond(t *testing.T) {
	now := time.Now()
	n := &Namer{now: func() time.Time { return now }, entropy: rand.Reader}
	pattern := regexp.MustCompile(`^file-\d+-\d{9}\.png$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		name, err := n.Name(FieldFile, "same.png")
		require.NoError(t, err)
		require.Regexp(t, pattern, name)
		seen[name] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestNewNamer_UsesWallClock(t *testing.T) {
	before := time.Now().UnixMilli()
	name, err := NewNamer().Name(FieldFile, "x.gif")
	require.NoError(t, err)

	m := regexp.MustCompile(`^file-(\d+)-(\d{9})\.gif$`).FindStringSubmatch(name)
	require.Len(t, m, 3, "unexpected name %q", name)
	ms, err := strconv.ParseInt(m[1], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ms, before)
	assert.LessOrEqual(t, ms, time.Now().UnixMilli())
}
