package display

// plane is a single boolean bitmap. Rows are bit-packed, eight pixels
// per byte with the leftmost pixel in the most significant bit.
type plane struct {
	cells  []uint8
	width  int
	height int
}

func newPlane(width, height int) *plane {
	return &plane{
		cells:  make([]uint8, width/8*height),
		width:  width,
		height: height,
	}
}

func (p *plane) rowBytes() int { return p.width / 8 }

func (p *plane) pixel(x, y int) bool {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return false
	}
	b := p.cells[y*p.rowBytes()+x/8]
	return (b>>(7-uint(x%8)))&1 == 1
}

func (p *plane) flip(x, y int) (cleared bool) {
	i := y*p.rowBytes() + x/8
	mask := uint8(1) << (7 - uint(x%8))
	cleared = p.cells[i]&mask != 0
	p.cells[i] ^= mask
	return cleared
}

func (p *plane) clear() {
	for i := range p.cells {
		p.cells[i] = 0
	}
}

// drawSprite XORs one bit per sprite pixel. The origin always wraps to
// the grid; pixels past the right or bottom edge wrap too unless clip
// is set, in which case they are dropped.
func (p *plane) drawSprite(sprite []uint8, x, y uint8, clip bool) bool {
	collision := false
	x0 := int(x) % p.width
	y0 := int(y) % p.height
	for row, b := range sprite {
		if p.drawRow(b, x0, 0, y0+row, clip) {
			collision = true
		}
	}
	return collision
}

// drawSprite16 draws a 16x16 sprite given as 32 bytes, two per row. Only
// the sprite origin wraps; the right byte of a row is a continuation of
// the left one, so under the clip quirk its columns drop off the edge
// instead of wrapping to a fresh origin.
func (p *plane) drawSprite16(sprite []uint8, x, y uint8, clip bool) bool {
	collision := false
	x0 := int(x) % p.width
	y0 := int(y) % p.height
	for i := 0; i+1 < len(sprite); i += 2 {
		py := y0 + i/2
		if p.drawRow(sprite[i], x0, 0, py, clip) {
			collision = true
		}
		if p.drawRow(sprite[i+1], x0, 8, py, clip) {
			collision = true
		}
	}
	return collision
}

// drawRow XORs the eight pixels of one sprite byte, xoff columns to the
// right of the wrapped origin x0. Continuation pixels past either edge
// clip or wrap per the quirk.
func (p *plane) drawRow(b uint8, x0, xoff, py int, clip bool) bool {
	if py >= p.height {
		if clip {
			return false
		}
		py %= p.height
	}
	collision := false
	for bit := 0; bit < 8; bit++ {
		if (b>>(7-uint(bit)))&1 == 0 {
			continue
		}
		px := x0 + xoff + bit
		if px >= p.width {
			if clip {
				continue
			}
			px %= p.width
		}
		if p.flip(px, py) {
			collision = true
		}
	}
	return collision
}

func (p *plane) scrollDown(n int) {
	if n <= 0 {
		return
	}
	shift := n * p.rowBytes()
	copy(p.cells[shift:], p.cells[:len(p.cells)-shift])
	for i := 0; i < shift && i < len(p.cells); i++ {
		p.cells[i] = 0
	}
}

func (p *plane) scrollUp(n int) {
	if n <= 0 {
		return
	}
	shift := n * p.rowBytes()
	copy(p.cells, p.cells[min(shift, len(p.cells)):])
	for i := len(p.cells) - shift; i < len(p.cells); i++ {
		if i >= 0 {
			p.cells[i] = 0
		}
	}
}

// scrollRight shifts every row right by n pixels, filling with blanks.
// n must be at most 8.
func (p *plane) scrollRight(n int) {
	rb := p.rowBytes()
	for y := 0; y < p.height; y++ {
		row := p.cells[y*rb : (y+1)*rb]
		carry := uint8(0)
		for i := 0; i < rb; i++ {
			next := row[i] << (8 - uint(n))
			row[i] = row[i]>>uint(n) | carry
			carry = next
		}
	}
}

// scrollLeft shifts every row left by n pixels, filling with blanks.
// n must be at most 8.
func (p *plane) scrollLeft(n int) {
	rb := p.rowBytes()
	for y := 0; y < p.height; y++ {
		row := p.cells[y*rb : (y+1)*rb]
		carry := uint8(0)
		for i := rb - 1; i >= 0; i-- {
			next := row[i] >> (8 - uint(n))
			row[i] = row[i]<<uint(n) | carry
			carry = next
		}
	}
}
