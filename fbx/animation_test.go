package fbx

import "testing"

func TestAnimationCurveLinearInterpolation(t *testing.T) {
	c := &AnimationCurve{
		Times:  []int64{0, SecondsToTime(1), SecondsToTime(2)},
		Values: []float64{0, 10, 0},
	}

	if got := c.Evaluate(0); got != 0 {
		t.Errorf("Evaluate(0) = %v, want 0", got)
	}
	if got := c.Evaluate(SecondsToTime(1)); got != 10 {
		t.Errorf("Evaluate(1s) = %v, want 10", got)
	}
	mid := c.Evaluate(SecondsToTime(0.5))
	if mid < 4.9 || mid > 5.1 {
		t.Errorf("Evaluate(0.5s) = %v, want ~5", mid)
	}
	if got := c.Evaluate(SecondsToTime(10)); got != 0 {
		t.Errorf("Evaluate(out of range) = %v, want clamp to last value 0", got)
	}
}

func TestFrameRateMapping(t *testing.T) {
	if got := FrameRate(6, 0); got != 30 {
		t.Errorf("FrameRate(NTSC-like mode 6) = %v, want 30", got)
	}
	if got := FrameRate(14, 48); got != 48 {
		t.Errorf("FrameRate(custom, 48) = %v, want 48", got)
	}
}

func TestTimeConversionRoundTrip(t *testing.T) {
	s := 1.5
	ticks := SecondsToTime(s)
	back := TimeToSeconds(ticks)
	if back < s-0.0001 || back > s+0.0001 {
		t.Errorf("round trip %v -> %v -> %v", s, ticks, back)
	}
}
