package ppu

// Sprite is a read-only view over one 4-byte OAM entry.
type Sprite struct {
	bytes [4]uint8
}

func newSprite(bytes []uint8) Sprite {
	var s Sprite
	copy(s.bytes[:], bytes)
	return s
}

func (s Sprite) yPos() uint8 { return s.bytes[0] }
func (s Sprite) xPos() uint8 { return s.bytes[3] }

func (s Sprite) tileIndex(size SpriteSize) uint8 {
	if size == SpriteSizeEightBySixteen {
		return s.bytes[1] &^ 0x01
	}
	return s.bytes[1]
}

func (s Sprite) bankForEightBySixteen() uint16 {
	if s.bytes[1]&0x01 != 0 {
		return 0x1000
	}
	return 0x0000
}

// paletteSection returns the sprite palette index, offset by 4 to land in
// the sprite half of palette RAM ($3F10-$3F1F).
func (s Sprite) paletteSection() uint8 {
	return (s.bytes[2] & 0x03) + 4
}

func (s Sprite) aboveBackground() bool    { return s.bytes[2]&0x20 == 0 }
func (s Sprite) flippedHorizontally() bool { return s.bytes[2]&0x40 != 0 }
func (s Sprite) flippedVertically() bool   { return s.bytes[2]&0x80 != 0 }

func (s Sprite) containsPoint(x, y int, size SpriteSize) bool {
	width := 8
	height := 8
	if size == SpriteSizeEightBySixteen {
		height = 16
	}
	xPos, yPos := int(s.xPos()), int(s.yPos())
	return x >= xPos && x < xPos+width && y >= yPos && y < yPos+height
}

// tileSlice holds one fetched 8-pixel row of a background or sprite tile
// as its two bit planes, from which each pixel's 2-bit pattern color is
// extracted.
type tileSlice struct {
	lowerBitPlane, upperBitPlane uint8
}

func (t tileSlice) patternColor(pixel uint16) uint16 {
	shift := 7 - pixel
	lowerBit := (t.lowerBitPlane >> shift) & 1
	upperBit := (t.upperBitPlane >> shift) & 1
	return uint16(upperBit)<<1 | uint16(lowerBit)
}

// backgroundSlice pairs one fetched tile row with the attribute-table
// palette section that applies to it.
type backgroundSlice struct {
	tile           tileSlice
	paletteSection uint8
}

func newBackgroundSlice(lowerBitPlane, upperBitPlane, paletteSection uint8) backgroundSlice {
	return backgroundSlice{
		tile:           tileSlice{lowerBitPlane: lowerBitPlane, upperBitPlane: upperBitPlane},
		paletteSection: paletteSection,
	}
}

// color returns the palette-RAM index for one pixel within the slice,
// or 0 (the universal background color) when the pattern color itself is
// transparent (index 0).
func (b backgroundSlice) color(pixel uint16) uint16 {
	patternColor := b.tile.patternColor(pixel)
	if patternColor == 0 {
		return 0
	}
	return uint16(b.paletteSection)<<2 | patternColor
}
