package upload

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"time"
)

var suffixSpace = big.NewInt(1_000_000_000)

// Namer generates storage names of the form
// <field>-<epoch-ms>-<9 random digits><original extension>.
// The random suffix keeps concurrent uploads in the same millisecond apart
// without any coordination.
type Namer struct {
	now     func() time.Time
	entropy io.Reader
}

// NewNamer returns a Namer using the wall clock and crypto/rand.
func NewNamer() *Namer {
	return &Namer{now: time.Now, entropy: rand.Reader}
}

// Name builds a storage name for a file submitted under field. The extension
// of original is kept verbatim, including its absence.
func (n *Namer) Name(field, original string) (string, error) {
	suffix, err := rand.Int(n.entropy, suffixSpace)
	if err != nil {
		return "", fmt.Errorf("generate name suffix: %w", err)
	}
	return fmt.Sprintf("%s-%d-%09d%s", field, n.now().UnixMilli(), suffix.Int64(), filepath.Ext(original)), nil
}
