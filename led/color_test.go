package led

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    RGBColor
	}{
		{"red", 0, 1, 0.5, RGBColor{255, 0, 0}},
		{"white", 0, 0, 1, RGBColor{255, 255, 255}},
		{"black", 0.3, 1, 0, RGBColor{0, 0, 0}},
		{"gray", 0.7, 0, 0.5, RGBColor{128, 128, 128}},
		{"green", 1.0 / 3, 1, 0.5, RGBColor{0, 255, 0}},
		{"blue", 2.0 / 3, 1, 0.5, RGBColor{0, 0, 255}},
		{"full turn", 1, 1, 0.5, RGBColor{255, 0, 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, HSLToRGB(test.h, test.s, test.l))
		})
	}
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 0.0, Lerp(0, 10, 0))
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 10.0, Lerp(0, 10, 1))
	assert.Equal(t, 15.0, Lerp(0, 10, 1.5), "t is not clamped")
	assert.Equal(t, RGBColor{50, 100, 0}, LerpRGB(RGBColor{0, 0, 0}, RGBColor{100, 200, 0}, 0.5))
}

func TestSkewTransforms(t *testing.T) {
	assert.InDelta(t, 0.747, ToLog(0.5, DefaultSkew), 0.001)
	assert.InDelta(t, 0.232, ToExp(0.5, DefaultSkew), 0.001)

	for _, v := range []float64{0, 1} {
		assert.InDelta(t, v, ToLog(v, DefaultSkew), 1e-12)
		assert.InDelta(t, v, ToExp(v, DefaultSkew), 1e-12)
	}
}

func TestSkewTransformsAreInverses(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(0, 1).Draw(t, "t")
		k := rapid.Float64Range(1.5, 100).Draw(t, "skew")

		if got := ToExp(ToLog(v, k), k); math.Abs(got-v) > 1e-9 {
			t.Fatalf("ToExp(ToLog(%v)) = %v", v, got)
		}
		if got := ToLog(ToExp(v, k), k); math.Abs(got-v) > 1e-9 {
			t.Fatalf("ToLog(ToExp(%v)) = %v", v, got)
		}
	})
}

func TestSkewTransformsAreMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(0, 1).Draw(t, "a")
		b := rapid.Float64Range(a, 1).Draw(t, "b")

		if ToLog(a, DefaultSkew) > ToLog(b, DefaultSkew) {
			t.Fatalf("ToLog not monotonic between %v and %v", a, b)
		}
		if ToExp(a, DefaultSkew) > ToExp(b, DefaultSkew) {
			t.Fatalf("ToExp not monotonic between %v and %v", a, b)
		}
		if l := ToLog(a, DefaultSkew); l < 0 || l > 1+1e-12 {
			t.Fatalf("ToLog(%v) = %v escapes [0, 1]", a, l)
		}
	})
}

func TestLerpPerceptual(t *testing.T) {
	from := RGBColor{0, 0, 0}
	to := RGBColor{100, 200, 255}

	assert.Equal(t, from, LerpPerceptual(from, to, 0))
	assert.Equal(t, to, LerpPerceptual(from, to, 1))

	mid := LerpPerceptual(from, to, 0.25)
	skew := ToLog(0.25, DefaultSkew)
	assert.InDelta(t, 100*skew, mid[0], 1e-9)
	assert.InDelta(t, 200*skew, mid[1], 1e-9)
	assert.InDelta(t, 255*skew, mid[2], 1e-9)
	assert.Greater(t, mid[0], 25.0, "perceptual lerp brightens early")
}

func TestLerpLab(t *testing.T) {
	from := RGBColor{255, 0, 0}
	to := RGBColor{0, 0, 255}

	assert.Equal(t, from.Hex(), LerpLab(from, to, 0).Hex())
	assert.Equal(t, to.Hex(), LerpLab(from, to, 1).Hex())
	require.NoError(t, LerpLab(from, to, 0.5).Validate())
}

func TestRGBColorValidate(t *testing.T) {
	assert.NoError(t, RGBColor{0, 128, 255}.Validate())

	for _, c := range []RGBColor{
		{-1, 0, 0},
		{256, 0, 0},
		{math.NaN(), 0, 0},
		{0, math.Inf(1), 0},
	} {
		err := c.Validate()
		assert.True(t, errors.Is(err, ErrInvalidConfiguration), "color %v: %v", c, err)
	}
}

func TestRGBColorBytes(t *testing.T) {
	r, g, b := RGBColor{127.5, -3, 300}.Bytes()
	assert.Equal(t, uint8(128), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(255), b)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, "#ff8000", c.Hex())

	var text RGBColor
	require.NoError(t, text.UnmarshalText([]byte("#0a96cc")))
	assert.Equal(t, RGB(10, 150, 204), text)

	_, err = ParseHex("orange")
	assert.Error(t, err)
}
