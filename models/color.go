package models

import "fmt"

// RGB is an 8-bit sRGB color
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color as #RRGGBB
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Packed returns the color as a 24-bit integer, useful as a map key or tie breaker
func (c RGB) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// LAB is a CIE L*a*b* color (D65), L in [0,100]
type LAB struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// HSV holds hue in degrees [0,360), saturation and value in [0,1]
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

type Temperature string

const (
	Warm    Temperature = "warm"
	Cool    Temperature = "cool"
	Neutral Temperature = "neutral"
)

type Brightness string

const (
	Light  Brightness = "light"
	Medium Brightness = "medium"
	Dark   Brightness = "dark"
)

type SaturationLevel string

const (
	SaturationLow    SaturationLevel = "low"
	SaturationMedium SaturationLevel = "medium"
	SaturationHigh   SaturationLevel = "high"
)

// ColorClass is the coarse classification of a single color
type ColorClass struct {
	Temperature     Temperature     `json:"temperature"`
	Brightness      Brightness      `json:"brightness"`
	SaturationLevel SaturationLevel `json:"saturationLevel"`
}

// LabelHint is a label reported by an external vision-labeling service
type LabelHint struct {
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Categories []string `json:"categories,omitempty"`
}
