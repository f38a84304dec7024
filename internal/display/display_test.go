package display

import "testing"

func TestDrawSpriteXORAndCollision(t *testing.T) {
	d := New(true)

	sprite := []uint8{0xFF}
	if collided := d.DrawSprite(sprite, 0, 0); collided {
		t.Error("first draw on empty display reported a collision")
	}
	for x := 0; x < 8; x++ {
		if !d.Pixel(x, 0, 0) {
			t.Errorf("pixel (%d,0) not set after draw", x)
		}
	}

	// drawing the same sprite again clears every pixel and collides
	if collided := d.DrawSprite(sprite, 0, 0); !collided {
		t.Error("second identical draw should report a collision")
	}
	for x := 0; x < 8; x++ {
		if d.Pixel(x, 0, 0) {
			t.Errorf("pixel (%d,0) still set after XOR erase", x)
		}
	}
}

func TestDrawSpriteOriginWraps(t *testing.T) {
	d := New(true)

	// origin coordinates always reduce modulo the resolution
	d.DrawSprite([]uint8{0x80}, LoresWidth, LoresHeight)
	if !d.Pixel(0, 0, 0) {
		t.Error("origin (64,32) should wrap to (0,0)")
	}
}

func TestDrawSpriteClipsAtEdge(t *testing.T) {
	d := New(true)

	d.DrawSprite([]uint8{0xFF}, LoresWidth-2, 0)
	if !d.Pixel(LoresWidth-1, 0, 0) {
		t.Error("pixel inside the edge should be drawn")
	}
	if d.Pixel(0, 0, 0) {
		t.Error("pixel past the edge should be clipped, not wrapped")
	}
}

func TestDrawSpriteWrapsPastEdge(t *testing.T) {
	d := New(false)

	d.DrawSprite([]uint8{0xFF}, LoresWidth-2, 0)
	if !d.Pixel(0, 0, 0) || !d.Pixel(5, 0, 0) {
		t.Error("sprite continuation should wrap to the left edge")
	}
}

func TestClearOnlyAffectsSelectedPlanes(t *testing.T) {
	d := New(true)

	d.SelectPlanes(PlaneOne)
	d.DrawSprite([]uint8{0x80}, 0, 0)
	d.SelectPlanes(PlaneTwo)
	d.DrawSprite([]uint8{0x80}, 0, 0)

	// clear plane two only
	d.Clear()
	if !d.Pixel(0, 0, 0) {
		t.Error("plane one should survive a plane-two clear")
	}
	if d.Pixel(0, 0, 1) {
		t.Error("plane two should be cleared")
	}
}

func TestBothPlanesDrawSplitsSpriteData(t *testing.T) {
	d := New(true)
	d.SelectPlanes(PlaneBoth)

	// first half targets plane one, second half plane two
	d.DrawSprite([]uint8{0x80, 0x00, 0x00, 0x80}, 0, 0)
	if !d.Pixel(0, 0, 0) {
		t.Error("plane one should have row 0 set")
	}
	if d.Pixel(0, 1, 0) {
		t.Error("plane one row 1 should be empty")
	}
	if d.Pixel(0, 0, 1) {
		t.Error("plane two row 0 should be empty")
	}
	if !d.Pixel(0, 1, 1) {
		t.Error("plane two should have row 1 set")
	}
}

func TestDrawSprite16(t *testing.T) {
	d := New(true)
	d.SetHires(true)

	// 32 bytes, row 0 = 0xFFFF, rest empty
	sprite := make([]uint8, 32)
	sprite[0], sprite[1] = 0xFF, 0xFF
	if collided := d.DrawSprite16(sprite, 0, 0); collided {
		t.Error("draw on empty display reported a collision")
	}
	for x := 0; x < 16; x++ {
		if !d.Pixel(x, 0, 0) {
			t.Errorf("pixel (%d,0) not set by 16x16 sprite", x)
		}
	}
	if d.Pixel(16, 0, 0) {
		t.Error("pixel (16,0) should be untouched")
	}
}

func TestDrawSprite16ClipsRightHalf(t *testing.T) {
	d := New(true)
	d.SetHires(true)

	// the left half fits, the right half lies past the right edge
	sprite := make([]uint8, 32)
	sprite[0], sprite[1] = 0xFF, 0xFF
	d.DrawSprite16(sprite, HiresWidth-8, 0)

	for x := HiresWidth - 8; x < HiresWidth; x++ {
		if !d.Pixel(x, 0, 0) {
			t.Errorf("pixel (%d,0) inside the edge should be drawn", x)
		}
	}
	if d.Pixel(0, 0, 0) {
		t.Error("columns past the right edge should be clipped, not wrapped to column 0")
	}
}

func TestDrawSprite16WrapsRightHalf(t *testing.T) {
	d := New(false)
	d.SetHires(true)

	sprite := make([]uint8, 32)
	sprite[0], sprite[1] = 0xFF, 0xFF
	d.DrawSprite16(sprite, HiresWidth-8, 0)

	for x := 0; x < 8; x++ {
		if !d.Pixel(x, 0, 0) {
			t.Errorf("pixel (%d,0) should wrap around without the clip quirk", x)
		}
	}
}

func TestSetHiresClearsAndResizes(t *testing.T) {
	d := New(true)
	d.DrawSprite([]uint8{0xFF}, 0, 0)

	d.SetHires(true)
	if d.Width() != HiresWidth || d.Height() != HiresHeight {
		t.Fatalf("resolution = %dx%d, want %dx%d", d.Width(), d.Height(), HiresWidth, HiresHeight)
	}
	if d.Pixel(0, 0, 0) {
		t.Error("mode switch should clear the display")
	}
}

func TestScrollDown(t *testing.T) {
	d := New(true)
	d.DrawSprite([]uint8{0x80}, 0, 0)

	d.ScrollDown(3)
	if d.Pixel(0, 0, 0) {
		t.Error("pixel should have moved off row 0")
	}
	if !d.Pixel(0, 3, 0) {
		t.Error("pixel should be on row 3 after scrolling down by 3")
	}
}

func TestScrollUp(t *testing.T) {
	d := New(true)
	d.DrawSprite([]uint8{0x80}, 0, 5)

	d.ScrollUp(2)
	if !d.Pixel(0, 3, 0) {
		t.Error("pixel should be on row 3 after scrolling up by 2")
	}
}

func TestScrollRightLeft(t *testing.T) {
	d := New(true)
	d.DrawSprite([]uint8{0x80}, 10, 0)

	d.ScrollRight()
	if !d.Pixel(14, 0, 0) {
		t.Error("pixel should have moved four columns right")
	}
	d.ScrollLeft()
	if !d.Pixel(10, 0, 0) {
		t.Error("pixel should be back at column 10")
	}
	if d.Pixel(14, 0, 0) {
		t.Error("old position should be cleared")
	}
}

func TestScrollInsertsBlanks(t *testing.T) {
	d := New(true)
	d.DrawSprite([]uint8{0xFF}, 0, 0)

	d.ScrollRight()
	for x := 0; x < 4; x++ {
		if d.Pixel(x, 0, 0) {
			t.Errorf("column %d should be blank after scrolling right", x)
		}
	}
}

func TestBufferPalette(t *testing.T) {
	d := New(true)
	colors := [4]uint32{0x000000, 0x111111, 0x222222, 0x333333}

	d.SelectPlanes(PlaneOne)
	d.DrawSprite([]uint8{0x80}, 0, 0) // plane 1 at (0,0)
	d.SelectPlanes(PlaneTwo)
	d.DrawSprite([]uint8{0xC0}, 0, 0) // plane 2 at (0,0) and (1,0)

	buf := d.Buffer(colors)
	if buf[0] != colors[3] {
		t.Errorf("both-planes pixel = 0x%06X, want 0x%06X", buf[0], colors[3])
	}
	if buf[1] != colors[2] {
		t.Errorf("plane-two pixel = 0x%06X, want 0x%06X", buf[1], colors[2])
	}
	if buf[2] != colors[0] {
		t.Errorf("background pixel = 0x%06X, want 0x%06X", buf[2], colors[0])
	}
}

func TestUpdatedFlag(t *testing.T) {
	d := New(true)
	d.ClearUpdated()

	if d.Updated() {
		t.Error("flag should be clear")
	}
	d.DrawSprite([]uint8{0x01}, 0, 0)
	if !d.Updated() {
		t.Error("draw should set the dirty flag")
	}
	d.ClearUpdated()
	if d.Updated() {
		t.Error("ClearUpdated should reset the flag")
	}
}
