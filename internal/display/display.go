// Package display implements the two-plane framebuffer for the CHIP-8 family.
package display

// Resolution constants for the two display modes
const (
	LoresWidth  = 64
	LoresHeight = 32
	HiresWidth  = 128
	HiresHeight = 64
)

// Plane masks for draw/clear/scroll scoping
const (
	PlaneNone = 0x0
	PlaneOne  = 0x1
	PlaneTwo  = 0x2
	PlaneBoth = 0x3
)

// Display represents the visible state of the machine: two independent
// boolean bit-planes over the current resolution grid. CHIP-8 and
// Super-CHIP8 programs only ever touch plane one; XO-CHIP selects the
// target plane(s) with a bitmask that scopes subsequent operations.
type Display struct {
	planes [2]*plane
	width  int
	height int
	hires  bool
	clip   bool

	// activePlanes is the XO-CHIP drawing plane mask (1, 2 or 3).
	activePlanes uint8

	updated bool
	updates uint64
}

// New creates a low resolution display. When clip is set, sprite pixels
// past the right or bottom edge are dropped instead of wrapping around.
func New(clip bool) *Display {
	d := &Display{
		width:        LoresWidth,
		height:       LoresHeight,
		clip:         clip,
		activePlanes: PlaneOne,
		updated:      true,
	}
	d.planes[0] = newPlane(d.width, d.height)
	d.planes[1] = newPlane(d.width, d.height)
	return d
}

// Width returns the current horizontal resolution.
func (d *Display) Width() int { return d.width }

// Height returns the current vertical resolution.
func (d *Display) Height() int { return d.height }

// Hires reports whether the extended resolution mode is active.
func (d *Display) Hires() bool { return d.hires }

// SetHires switches between the 64x32 and 128x64 grids. Both planes are
// reallocated and cleared, matching hardware behavior on mode switch.
func (d *Display) SetHires(hires bool) {
	if hires {
		d.width, d.height = HiresWidth, HiresHeight
	} else {
		d.width, d.height = LoresWidth, LoresHeight
	}
	d.hires = hires
	d.planes[0] = newPlane(d.width, d.height)
	d.planes[1] = newPlane(d.width, d.height)
	d.flagUpdated()
}

// SelectPlanes sets the drawing plane mask for subsequent operations.
func (d *Display) SelectPlanes(mask uint8) {
	d.activePlanes = mask & PlaneBoth
}

// ActivePlanes returns the current drawing plane mask.
func (d *Display) ActivePlanes() uint8 { return d.activePlanes }

// Clear clears the selected plane(s).
func (d *Display) Clear() {
	d.eachActive(func(p *plane) { p.clear() })
	d.flagUpdated()
}

// ScrollDown scrolls the selected plane(s) down by n rows.
func (d *Display) ScrollDown(n uint8) {
	d.eachActive(func(p *plane) { p.scrollDown(int(n)) })
	d.flagUpdated()
}

// ScrollUp scrolls the selected plane(s) up by n rows.
func (d *Display) ScrollUp(n uint8) {
	d.eachActive(func(p *plane) { p.scrollUp(int(n)) })
	d.flagUpdated()
}

// ScrollRight scrolls the selected plane(s) right by four columns.
func (d *Display) ScrollRight() {
	d.eachActive(func(p *plane) { p.scrollRight(4) })
	d.flagUpdated()
}

// ScrollLeft scrolls the selected plane(s) left by four columns.
func (d *Display) ScrollLeft() {
	d.eachActive(func(p *plane) { p.scrollLeft(4) })
	d.flagUpdated()
}

// DrawSprite XORs an 8-pixel wide sprite onto the selected plane(s) and
// reports whether any set pixel was cleared. When both planes are
// selected the sprite data carries one copy per plane: the first half
// targets plane one, the second half plane two.
func (d *Display) DrawSprite(sprite []uint8, x, y uint8) bool {
	collision := false
	if d.activePlanes == PlaneBoth {
		half := len(sprite) / 2
		collision = d.planes[0].drawSprite(sprite[:half], x, y, d.clip)
		collision = d.planes[1].drawSprite(sprite[half:], x, y, d.clip) || collision
	} else {
		d.eachActive(func(p *plane) {
			collision = p.drawSprite(sprite, x, y, d.clip) || collision
		})
	}
	d.flagUpdated()
	return collision
}

// DrawSprite16 XORs a 16x16 sprite (32 bytes, two bytes per row) onto the
// selected plane(s). As with DrawSprite, a both-planes mask doubles the
// sprite data.
func (d *Display) DrawSprite16(sprite []uint8, x, y uint8) bool {
	collision := false
	if d.activePlanes == PlaneBoth {
		half := len(sprite) / 2
		collision = d.planes[0].drawSprite16(sprite[:half], x, y, d.clip)
		collision = d.planes[1].drawSprite16(sprite[half:], x, y, d.clip) || collision
	} else {
		d.eachActive(func(p *plane) {
			collision = p.drawSprite16(sprite, x, y, d.clip) || collision
		})
	}
	d.flagUpdated()
	return collision
}

// Pixel reports the state of a single cell on the given plane (0 or 1).
func (d *Display) Pixel(x, y, planeIndex int) bool {
	return d.planes[planeIndex&1].pixel(x, y)
}

// Buffer flattens both planes into packed RGB values using the four
// color palette: index 0 for neither plane set, 1 for plane one only,
// 2 for plane two only, 3 for both. The returned slice is freshly
// allocated and safe to hand to another goroutine.
func (d *Display) Buffer(colors [4]uint32) []uint32 {
	buf := make([]uint32, d.width*d.height)
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			idx := 0
			if d.planes[0].pixel(x, y) {
				idx |= 1
			}
			if d.planes[1].pixel(x, y) {
				idx |= 2
			}
			buf[y*d.width+x] = colors[idx]
		}
	}
	return buf
}

// Updated reports whether any operation changed the display since the
// flag was last cleared.
func (d *Display) Updated() bool { return d.updated }

// ClearUpdated resets the dirty flag after the host consumed a frame.
func (d *Display) ClearUpdated() { d.updated = false }

// Updates returns the total number of display mutations, for statistics.
func (d *Display) Updates() uint64 { return d.updates }

func (d *Display) flagUpdated() {
	d.updated = true
	d.updates++
}

func (d *Display) eachActive(fn func(*plane)) {
	for i, p := range d.planes {
		if (d.activePlanes>>uint(i))&1 == 1 {
			fn(p)
		}
	}
}
