package terminal

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		isDef   bool
		wantErr bool
	}{
		{in: "", isDef: true},
		{in: "default", isDef: true},
		{in: "red", want: RGB{0xff, 0, 0}},
		{in: "Black", want: RGB{0, 0, 0}},
		{in: "#1e90ff", want: RGB{0x1e, 0x90, 0xff}},
		{in: "#fff", want: RGB{0xff, 0xff, 0xff}},
		{in: "not-a-color", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.isDef {
				if !c.IsDefault() {
					t.Errorf("Expected default color, got %v", c)
				}
				return
			}
			got, ok := c.RGB()
			if !ok || got != tt.want {
				t.Errorf("Expected %+v, got %+v (ok=%v)", tt.want, got, ok)
			}
		})
	}
}

func TestColorRoundTrip(t *testing.T) {
	rgb := RGB{12, 200, 99}
	c := NewColor(rgb)
	if c.IsDefault() {
		t.Fatal("Expected set color")
	}
	got, ok := c.RGB()
	if !ok || got != rgb {
		t.Errorf("Expected %+v, got %+v", rgb, got)
	}
	if c.String() != "#0cc863" {
		t.Errorf("Expected #0cc863, got %s", c.String())
	}

	// Black is a real color, distinct from default
	if NewColor(RGBBlack).IsDefault() {
		t.Error("Expected black to be distinct from default")
	}
}

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		in   RGB
		want uint8
	}{
		{RGB{255, 0, 0}, 196},
		{RGB{0, 0, 0}, 16},
		{RGB{255, 255, 255}, 231},
		{RGB{0, 255, 0}, 46},
	}
	for _, tt := range tests {
		if got := RGBTo256(tt.in); got != tt.want {
			t.Errorf("RGBTo256(%+v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseColorMode(t *testing.T) {
	if ParseColorMode("256") != ColorMode256 {
		t.Error("Expected 256 mode")
	}
	if ParseColorMode("24bit") != ColorModeTrueColor {
		t.Error("Expected truecolor mode")
	}
}
