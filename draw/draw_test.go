package draw

import (
	"image"
	"image/color"
	"testing"
)

var (
	on  = color.Gray{Y: 0xff}
	off = color.Gray{}
)

func count(img *image.Gray) (n int) {
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return
}

func TestLine(t *testing.T) {
	tests := []struct {
		Name string
		A, B image.Point
		Want int
	}{
		{"point", image.Pt(3, 3), image.Pt(3, 3), 1},
		{"horizontal", image.Pt(0, 2), image.Pt(9, 2), 10},
		{"vertical", image.Pt(4, 9), image.Pt(4, 0), 10},
		{"diagonal", image.Pt(0, 0), image.Pt(7, 7), 8},
		{"anti diagonal", image.Pt(7, 0), image.Pt(0, 7), 8},
		{"shallow", image.Pt(0, 0), image.Pt(9, 3), 10},
		{"steep", image.Pt(1, 9), image.Pt(3, 0), 10},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			img := image.NewGray(image.Rect(0, 0, 10, 10))
			Line(img, test.A, test.B, on)
			if img.GrayAt(test.A.X, test.A.Y) != on || img.GrayAt(test.B.X, test.B.Y) != on {
				it.Errorf("expected end points to be set")
			}
			if v := count(img); v != test.Want {
				it.Errorf("expected %d pixels, got %d", test.Want, v)
			}
		})
	}
}

func TestRectangle(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	Rectangle(img, image.Rect(1, 2, 6, 8), on)
	if v := count(img); v != 2*5+2*6-4 {
		t.Errorf("expected %d pixels, got %d", 2*5+2*6-4, v)
	}
	for _, p := range []image.Point{{1, 2}, {5, 2}, {1, 7}, {5, 7}} {
		if img.GrayAt(p.X, p.Y) != on {
			t.Errorf("expected corner %s to be set", p)
		}
	}
	if img.GrayAt(3, 4) != off || img.GrayAt(6, 8) != off {
		t.Errorf("expected inside and outside to be clear")
	}
}

func TestBox(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	Box(img, image.Rect(-5, 8, 3, 20), on)
	if v := count(img); v != 3*2 {
		t.Errorf("expected box clipped to %d pixels, got %d", 3*2, v)
	}
}

func TestRoundedBox(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	RoundedBox(img, image.Rect(0, 0, 20, 20), 5, on)
	if img.GrayAt(0, 0) != off || img.GrayAt(19, 19) != off {
		t.Errorf("expected corners to be rounded")
	}
	for _, p := range []image.Point{{10, 0}, {0, 10}, {19, 10}, {10, 19}, {10, 10}} {
		if img.GrayAt(p.X, p.Y) != on {
			t.Errorf("expected %s to be filled", p)
		}
	}

	outline := image.NewGray(image.Rect(0, 0, 20, 20))
	RoundedRectangle(outline, image.Rect(0, 0, 20, 20), 5, on)
	if outline.GrayAt(0, 0) != off || outline.GrayAt(10, 10) != off {
		t.Errorf("expected rounded corners and an empty inside")
	}
	if outline.GrayAt(10, 0) != on || outline.GrayAt(0, 10) != on {
		t.Errorf("expected edges to be drawn")
	}
	if count(outline) >= count(img) {
		t.Errorf("expected outline to cover less than the box")
	}
}

func TestDamage(t *testing.T) {
	var d Damage
	d.Add(image.Rect(0, 0, 10, 10))
	d.Add(image.Rect(2, 2, 4, 4))
	d.Add(image.Rectangle{})
	d.Add(image.Rect(20, 20, 30, 30))
	d.Add(image.Rect(15, 15, 40, 40))

	rects := d.Rects()
	if len(rects) != 2 {
		t.Fatalf("expected 2 rectangles, got %v", rects)
	}
	if rects[0] != image.Rect(0, 0, 10, 10) || rects[1] != image.Rect(15, 15, 40, 40) {
		t.Errorf("unexpected rectangles %v", rects)
	}
	if v := d.Rects(); len(v) != 0 {
		t.Errorf("expected tracker to be reset, got %v", v)
	}
}

func TestGradientAndBars(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 4))
	Gradient(img, img.Bounds(), 3)
	if c := img.RGBAAt(1, 2); c.R != 6 || c.G != 2 || c.B != 0 || c.A != 0xff {
		t.Errorf("unexpected gradient color %v", c)
	}

	ColorBars(img, img.Bounds())
	if c := img.RGBAAt(0, 0); c != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("expected white first bar, got %v", c)
	}
	if c := img.RGBAAt(15, 3); c != (color.RGBA{0x00, 0x00, 0x00, 0xff}) {
		t.Errorf("expected black last bar, got %v", c)
	}
}

func TestText(t *testing.T) {
	face, err := NewFace(12, 72)
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	img := image.NewGray(image.Rect(0, 0, 100, 20))
	bounds := Text(img, image.Pt(2, 15), "Hello", face, on)
	if bounds.Empty() || !bounds.In(img.Bounds()) {
		t.Errorf("expected text bounds inside the image, got %s", bounds)
	}
	if count(img) == 0 {
		t.Errorf("expected text to be drawn")
	}

	size := TextSize("Hello", face)
	if size.X <= 0 || size.Y <= 0 || size.X < bounds.Dx()-2 {
		t.Errorf("unexpected text size %s for bounds %s", size, bounds)
	}
}
