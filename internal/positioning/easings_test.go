package positioning

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEasingFromNameCaseInsensitive(t *testing.T) {
	e, ok := EasingFromName("EaseInOutQuad")
	require.True(t, ok)
	require.Equal(t, EaseInOutQuad, e)

	_, ok = EasingFromName("not-an-easing")
	require.False(t, ok)
}

func TestEasingBoundaries(t *testing.T) {
	all := []Easing{
		Linear, EaseIn, EaseOut, EaseInOut,
		EaseInQuad, EaseOutQuad, EaseInOutQuad,
		EaseInCubic, EaseOutCubic, EaseInOutCubic,
		EaseInQuart, EaseOutQuart, EaseInOutQuart,
		EaseInQuint, EaseOutQuint, EaseInOutQuint,
		EaseInExpo, EaseOutExpo, EaseInOutExpo,
		EaseInCirc, EaseOutCirc, EaseInOutCirc,
		EaseInBack, EaseOutBack, EaseInOutBack,
		EaseInElastic, EaseOutElastic, EaseInOutElastic,
		EaseInBounce, EaseOutBounce, EaseInOutBounce,
	}
	for _, e := range all {
		require.InDelta(t, 0.0, e.Y(0), 1e-9, "easing %d at x=0", e)
		require.InDelta(t, 1.0, e.Y(1), 1e-9, "easing %d at x=1", e)
	}
}

func TestEaseInOutQuadMidpoint(t *testing.T) {
	require.InDelta(t, 0.5, EaseInOutQuad.Y(0.5), 1e-9)
}

func TestEaseOutBounceKnownValue(t *testing.T) {
	require.InDelta(t, 1.0, EaseOutBounce.Y(1.0), 1e-9)
	require.Less(t, EaseOutBounce.Y(0.1), 0.5)
}
