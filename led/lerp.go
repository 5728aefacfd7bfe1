package led

import "math"

// DefaultSkew is the skew factor used by the perceptual transforms.
const DefaultSkew = 10

// LerpFunc interpolates between two colors at ratio t.
type LerpFunc func(from, to RGBColor, t float64) RGBColor

// Lerp linearly interpolates from v0 to v1. t is not clamped, so values
// outside [0, 1] extrapolate.
func Lerp(v0, v1, t float64) float64 {
	return v0 + t*(v1-v0)
}

// LerpRGB interpolates each channel independently.
func LerpRGB(from, to RGBColor, t float64) RGBColor {
	return RGBColor{
		Lerp(from[0], to[0], t),
		Lerp(from[1], to[1], t),
		Lerp(from[2], to[2], t),
	}
}

// LerpPerceptual skews t with ToLog before interpolating each channel. LEDs
// and eyes respond to brightness non-linearly; the skew makes a fade look
// even to an observer.
func LerpPerceptual(from, to RGBColor, t float64) RGBColor {
	return LerpRGB(from, to, ToLog(t, DefaultSkew))
}

// LerpLab blends the two colors in CIE L*a*b* space. The result is clamped
// to the RGB gamut.
func LerpLab(from, to RGBColor, t float64) RGBColor {
	return fromColorful(from.colorful().BlendLab(to.colorful(), t).Clamped())
}

// ToLog transforms t within [0, 1] logarithmically. Larger skew factors push
// the result towards 1 faster.
//
//	ToLog(0.5, 10) ≈ 0.747
func ToLog(t, skew float64) float64 {
	return math.Log10(t*skew+1) / math.Log10(skew+1)
}

// ToExp transforms t within [0, 1] exponentially. It is the exact inverse of
// ToLog for the same skew factor, so ToExp(ToLog(t, k), k) == t.
//
//	ToExp(0.5, 10) ≈ 0.23
func ToExp(t, skew float64) float64 {
	return (math.Pow(skew+1, t) - 1) / skew
}
