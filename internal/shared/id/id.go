// Package id provides ID generation for registry artifacts.
//
// IDs are prefixed ULIDs:
//   - Lexicographic sortability: manifests sort by creation time
//   - Prefixed types: "mfst_" makes manifest IDs recognizable in logs
//   - Type safety: ManifestID cannot be confused with entity names
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ManifestID identifies a runtime manifest
type ManifestID string

// ManifestPrefix is the prefix of every ManifestID
const ManifestPrefix = "mfst"

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// GenerateAt creates a ULID carrying the given timestamp
func (g *Generator) GenerateAt(t time.Time) ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), g.entropy)
}

// NewManifestID generates a manifest ID stamped with t
func NewManifestID(t time.Time) ManifestID {
	return ManifestID(fmt.Sprintf("%s_%s", ManifestPrefix, Default().GenerateAt(t).String()))
}

func (id ManifestID) String() string { return string(id) }

// Time returns the creation time encoded in the ID
func (id ManifestID) Time() (time.Time, error) {
	raw, ok := strings.CutPrefix(string(id), ManifestPrefix+"_")
	if !ok {
		return time.Time{}, fmt.Errorf("manifest ID %q lacks the %s_ prefix", id, ManifestPrefix)
	}
	return Timestamp(raw)
}

// Parse parses a ULID string
func Parse(id string) (ulid.ULID, error) {
	return ulid.Parse(id)
}

// Timestamp extracts the timestamp from a ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
