// Package textenc maps encoding names accepted on the import surface to
// decoders that produce UTF-8.
package textenc

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// encodings lists the accepted names. The UTF-8 entries strip a leading BOM
// and replace invalid byte sequences with U+FFFD.
var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8BOM,
	"utf8":         unicode.UTF8BOM,
	"utf-8-sig":    unicode.UTF8BOM,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"windows-1251": charmap.Windows1251,
	"utf-16":       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
}

// Default is the encoding used when a caller names none.
const Default = "utf-8"

func lookup(name string) (encoding.Encoding, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Default
	}
	enc, ok := encodings[name]
	return enc, ok
}

// Supported reports whether name is a known encoding. An empty name means UTF-8.
func Supported(name string) bool {
	_, ok := lookup(name)
	return ok
}

// Names returns the accepted encoding names in sorted order.
func Names() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewReader wraps r so it yields valid UTF-8 decoded from the named encoding.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("encoding error: unsupported encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
