package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type Color struct {
	R byte
	G byte
	B byte
}

func (c Color) ToUint() (color uint32) {
	color = color | (uint32(c.R) << 16)
	color = color | (uint32(c.G) << 8)
	color = color | uint32(c.B)
	return color
}

func (c Color) ToHex() string {
	return fmt.Sprintf("#%06x", c.ToUint())
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToHex())
}

func ColorFromUint(value uint32) Color {
	var c Color
	c.R = byte((value >> 16) & 0xFF)
	c.G = byte((value >> 8) & 0xFF)
	c.B = byte(value & 0xFF)
	return c
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var hex string
	err := json.Unmarshal(data, &hex)
	if err == nil {
		value, err := strconv.ParseUint(hex[1:], 16, 32)
		if err != nil {
			return err
		}

		*c = ColorFromUint(uint32(value))
		return nil
	}
	if _, ok := err.(*json.UnmarshalTypeError); !ok {
		return err
	}

	elements := [3]byte{}
	err = json.Unmarshal(data, &elements)
	if err != nil {
		return err
	}

	c.R = elements[0]
	c.G = elements[1]
	c.B = elements[2]
	return nil
}

// HSL converts hue (degrees), saturation and lightness (both in [0, 1])
// into an RGB color. Placeholder spritesheets use this to give each frame
// a distinct hue.
func HSL(h, s, l float64) Color {
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360

	if s == 0 {
		v := byte(math.Round(l * 255))
		return Color{R: v, G: v, B: v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	channel := func(t float64) byte {
		if t < 0 {
			t += 1
		}
		if t > 1 {
			t -= 1
		}
		var v float64
		switch {
		case t < 1.0/6.0:
			v = p + (q-p)*6*t
		case t < 1.0/2.0:
			v = q
		case t < 2.0/3.0:
			v = p + (q-p)*(2.0/3.0-t)*6
		default:
			v = p
		}
		return byte(math.Round(v * 255))
	}

	return Color{
		R: channel(h + 1.0/3.0),
		G: channel(h),
		B: channel(h - 1.0/3.0),
	}
}

// AddBlend mixes an additive tint into a base channel value, scaled by
// alpha. This is the classic "BLEND_ADD with alpha" used for warning and
// alert tints.
func AddBlend(base, tint, alpha byte) byte {
	v := uint32(base) + uint32(tint)*uint32(alpha)/255
	if v > 255 {
		return 255
	}
	return byte(v)
}

// MultBlend multiplies a base channel by a tint channel, then mixes the
// result with the original according to alpha. Used for desaturating
// consumed objects.
func MultBlend(base, tint, alpha byte) byte {
	mult := uint32(base) * uint32(tint) / 255
	v := (uint32(base)*uint32(255-alpha) + mult*uint32(alpha)) / 255
	return byte(v)
}
