package canvas

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/youngbloodcyb/shader-canvas/effect"
)

// fingerprintSep separates fingerprint fields. Source and layer
// identifiers are escaped before joining, so an identifier containing
// the separator cannot collide with field boundaries and source prefix
// matching stays exact.
const fingerprintSep = "|"

var fingerprintEscaper = strings.NewReplacer(`\`, `\\`, fingerprintSep, `\`+fingerprintSep)

// fingerprint builds the result-cache key for one composite: the source
// identity, the output dimensions, then for every active layer in pass
// order its id, type, and packed parameter block. Parameters are
// serialized by value, so equal-value layers held in different
// instances produce the same key.
func fingerprint(sourceID string, width, height int, active []Layer) string {
	var b strings.Builder
	b.WriteString(fingerprintEscaper.Replace(sourceID))
	b.WriteString(fingerprintSep)
	b.WriteString(strconv.Itoa(width))
	b.WriteString("x")
	b.WriteString(strconv.Itoa(height))

	for _, l := range active {
		b.WriteString(fingerprintSep)
		b.WriteString(fingerprintEscaper.Replace(l.ID))
		b.WriteString(":")
		b.WriteString(l.Type.String())
		b.WriteString(":")
		b.WriteString(hex.EncodeToString(effect.Params(l.properties())))
	}
	return b.String()
}

// fingerprintMatchesSource reports whether a fingerprint was derived
// from the given source identity. Used for invalidation by source.
func fingerprintMatchesSource(fp, sourceID string) bool {
	return strings.HasPrefix(fp, fingerprintEscaper.Replace(sourceID)+fingerprintSep)
}
