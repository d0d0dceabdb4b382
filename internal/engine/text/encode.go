// Package text renders short overlay strings in the PICO-8 3x5 font.
//
// Strings are first encoded to PICO-8 bytes (letter case is swapped, kana
// and a handful of symbols get their own codes) and then drawn byte by
// byte through tinyfont onto any drivers.Displayer.
package text

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Space is the byte substituted for characters without a PICO-8 code.
const Space = 32

// Dakuten and handakuten marks follow their base kana as separate bytes.
const (
	dakuten    = 30
	handakuten = 31
)

var symbols = map[string]byte{
	"▮": 16, "■": 17, "□": 18, "⁙": 19, "⁘": 20, "‖": 21, "◀": 22, "▶": 23,
	"「": 24, "」": 25, "¥": 26, "•": 27, "、": 28, "。": 29, "゛": 30, "゜": 31,
	"○": 127, "█": 128, "▒": 129, "🐱": 130, "⬇️": 131, "░": 132, "✽": 133,
	"●": 134, "♥": 135, "❤": 135, "☉": 136, "웃": 137, "🧍‍♀️": 137, "🧍‍♂️": 137,
	"⌂": 138, "🏠": 138, "⬅️": 139, "🙂": 140, "😐": 140, "♪": 141, "🎵": 141,
	"🅾️": 142, "◆": 143, "…": 144, "➡️": 145, "★": 146, "⧗": 147, "⏳": 147,
	"⬆️": 148, "ˇ": 149, "∧": 150, "❎": 151, "▤": 152, "▥": 153, "ー": 254,
}

// longestSymbol bounds the lookahead when matching multi-rune symbols.
var longestSymbol = func() int {
	n := 0
	for s := range symbols {
		n = max(n, len(s))
	}
	return n
}()

// Encode converts s to PICO-8 bytes. Input is NFC-normalized first so a
// kana followed by a combining voicing mark encodes like its precomposed form.
func Encode(s string) []byte {
	s = norm.NFC.String(s)
	var out []byte
	for len(s) > 0 {
		if b, n, ok := matchSymbol(s); ok {
			out = append(out, b)
			s = s[n:]
			continue
		}
		r, n := utf8.DecodeRuneInString(s)
		s = s[n:]
		out = appendRune(out, r)
	}
	return out
}

// matchSymbol finds the longest symbol that prefixes s.
func matchSymbol(s string) (byte, int, bool) {
	for n := min(len(s), longestSymbol); n > 0; n-- {
		if b, ok := symbols[s[:n]]; ok {
			return b, n, true
		}
	}
	return 0, 0, false
}

func appendRune(out []byte, r rune) []byte {
	switch {
	case r >= 'A' && r <= 'Z':
		return append(out, byte('a'+r-'A'))
	case r >= 'a' && r <= 'z':
		return append(out, byte('A'+r-'a'))
	case r < 128:
		return append(out, byte(r))
	case r >= 0xff00 && r <= 0xff5e:
		return append(out, byte(Space+r-0xff00))
	case r >= 0x3040 && r <= 0x30ff:
		return appendKana(out, int(r))
	}
	return append(out, Space)
}

// appendKana maps hiragana to bytes 154.. and katakana to 204.., emitting
// voicing marks as a trailing byte.
func appendKana(out []byte, code int) []byte {
	b := 154
	if code >= 0x30a0 {
		code -= 96
		b = 204
	}

	switch {
	case code <= 0x304a:
		b += (code - 0x3041) / 2
	case code == 0x3063:
		b += 46
	case code <= 0x3069:
		if code > 0x3063 {
			code--
		}
		code -= 0x304b
		b += 5 + code/2
		if code%2 == 1 {
			out = append(out, byte(b))
			b = dakuten
		}
	case code <= 0x306e:
		b += 20 + code - 0x306a
	case code <= 0x307d:
		code -= 0x306f
		b += 25 + code/3
		switch code % 3 {
		case 1:
			out = append(out, byte(b))
			b = dakuten
		case 2:
			out = append(out, byte(b))
			b = handakuten
		}
	case code <= 0x3082:
		b += 30 + code - 0x307e
	case code <= 0x3088:
		code -= 0x3083
		b += 35 + code/2
		if code%2 == 0 {
			b += 12
		}
	case code <= 0x308d:
		b += 38 + code - 0x3089
	case code <= 0x308f:
		b += 43
	case code == 0x3092:
		b += 44
	case code == 0x3093:
		b += 45
	}
	return append(out, byte(b))
}

// Advance is the horizontal step after drawing b. '#' has a wide glyph.
func Advance(b byte) int {
	switch {
	case b == '#':
		return 6
	case b < 128:
		return 4
	}
	return 8
}

// Width is the drawn width of bs: the sum of advances minus the trailing
// column of spacing.
func Width(bs []byte) int {
	if len(bs) == 0 {
		return 0
	}
	w := -1
	for _, b := range bs {
		w += Advance(b)
	}
	return w
}
