package bff

import "image/color"

// Opcode alphabet (spec.md §3). Everything else is inert data; 0x00 is the
// terminator/null byte.
const (
	opLess    byte = '<' // 60
	opGreater byte = '>' // 62
	opLBrace  byte = '{' // 123
	opRBrace  byte = '}' // 125
	opMinus   byte = '-' // 45
	opPlus    byte = '+' // 43
	opDot     byte = '.' // 46
	opComma   byte = ',' // 44
	opLBrack  byte = '[' // 91
	opRBrack  byte = ']' // 93
	opNull    byte = 0x00
)

// isOpcode reports whether b is a recognized instruction byte, i.e. one that
// counts toward VM complexity (spec.md §4.3).
func isOpcode(b byte) bool {
	switch b {
	case opLess, opGreater, opLBrace, opRBrace, opMinus, opPlus, opDot, opComma, opLBrack, opRBrack:
		return true
	default:
		return false
	}
}

// palette is the fixed 256-entry RGBA color table consumed by the
// rendering collaborator (spec.md §6). It is built once at package init,
// mirroring the teacher's fixed [64]color.RGBA NES palette table
// (nes/ppu.go) indexed directly by byte value.
var palette [256]color.RGBA

func init() {
	for b := 0; b < 256; b++ {
		palette[b] = paletteEntry(byte(b))
	}
}

func paletteEntry(b byte) color.RGBA {
	switch b {
	case opLess, opGreater:
		return color.RGBA{255, 60, 60, 255}
	case opLBrace, opRBrace:
		return color.RGBA{60, 120, 255, 255}
	case opMinus, opPlus:
		return color.RGBA{60, 255, 60, 255}
	case opDot, opComma:
		return color.RGBA{255, 140, 0, 255}
	case opLBrack, opRBrack:
		return color.RGBA{180, 50, 255, 255}
	case opNull:
		return color.RGBA{0, 0, 0, 255}
	default:
		v := byte(20 + (int(b) % 30))
		return color.RGBA{v, v, v, 255}
	}
}

// Palette returns the 1024-byte RGBA-ordered palette: 256 entries of
// (r,g,b,a), alpha always 255. The renderer treats a grid byte 0..255 as an
// index into this table (spec.md §6).
func Palette() [1024]byte {
	var out [1024]byte
	for i, c := range palette {
		out[i*4+0] = c.R
		out[i*4+1] = c.G
		out[i*4+2] = c.B
		out[i*4+3] = c.A
	}
	return out
}
