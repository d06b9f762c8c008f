// Package codepage maps legacy archive byte sequences to Unicode text,
// parameterised by a font index selected by the typesetter (token.KindFont).
//
// Font 0 is the default legacy code page, equivalent to Windows-1252 for
// the standard font (spec.md §4.3), decoded through
// golang.org/x/text/encoding/charmap.Windows1252. Non-zero fonts select
// alternate glyph tables for Greek, Hebrew, and symbol fonts, authored as
// compile-time [256]rune arrays in the same byte-indexed shape charmap
// itself uses internally. Implementations must not apply Unicode
// normalisation: callers receive each table's raw output.
package codepage

import "golang.org/x/text/encoding/charmap"

var win1252Decoder = charmap.Windows1252.NewDecoder()

// tables maps non-default font indices to byte→rune decode tables. Bytes
// absent from a table (zero rune) fall back to the byte's own code
// point, the lenient default spec.md §4.3 and §7 require.
var tables = map[uint8]*[256]rune{
	1: greekTable(),
	2: hebrewTable(),
	3: symbolTable(),
}

// Decode maps raw word bytes to text according to the given font index
// (the typesetter passes the index active when it reaches the word).
// Font indices without a table decode as font 0. The mapping is deterministic and never fails: a byte with
// no table entry, and font 0 bytes charmap can't place, decode to their
// own code point.
func Decode(b []byte, fontIdx uint8) string {
	if fontIdx == 0 {
		return decodeWindows1252(b)
	}
	table, ok := tables[fontIdx]
	if !ok {
		return decodeWindows1252(b)
	}
	return decodeTable(b, table)
}

func decodeWindows1252(b []byte) string {
	out, err := win1252Decoder.Bytes(b)
	if err != nil {
		// Lenient fallback (spec.md §4.3, §7): pass bytes through as their
		// own code points rather than failing.
		return decodeTable(b, nil)
	}
	return string(out)
}

func decodeTable(b []byte, table *[256]rune) string {
	out := make([]rune, 0, len(b))
	for _, by := range b {
		var r rune
		if table != nil {
			r = table[by]
		}
		if r == 0 {
			r = rune(by)
		}
		out = append(out, r)
	}
	return string(out)
}
