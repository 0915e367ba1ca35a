package synth

import "math"

// SirenVariants is the number of siren patterns Siren cycles through.
const SirenVariants = 3

// Siren renders one burst of a police siren. doppler scales pitch (values
// <= 0 mean 1), pan runs from -1 (left) to 1 (right). variant picks wail,
// yelp or hi-lo; seed only feeds the grit noise.
func Siren(doppler, pan float64, variant int, seed uint64) []byte {
	if doppler <= 0 {
		doppler = 1.0
	}
	pan = clamp(pan, -1.0, 1.0)
	variant = ((variant % SirenVariants) + SirenVariants) % SirenVariants

	dur := [SirenVariants]float64{0.92, 0.86, 1.00}[variant]
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	phase := 0.0
	seed ^= 0xC0D51E7 ^ uint64(variant+1)
	for i := range n {
		t := float64(i) / SampleRate

		var freq float64
		switch variant {
		case 0:
			// Wail: smooth sweep with a long crest.
			const cycle = 0.74
			c := math.Mod(t, cycle) / cycle
			tri := 1.0 - math.Abs(2*c-1.0)
			shape := tri * tri * (3 - 2*tri)
			freq = 620.0 + 440.0*shape
		case 1:
			// Yelp: short urgent chirps.
			const cycle = 0.22
			c := math.Mod(t, cycle) / cycle
			if c < 0.62 {
				u := c / 0.62
				freq = 820.0 + 520.0*u*u
			} else {
				u := (c - 0.62) / 0.38
				freq = 1140.0 - 300.0*u
			}
		default:
			// Hi-lo two-tone.
			const cycle = 0.33
			c := math.Mod(t, cycle) / cycle
			if c < 0.5 {
				freq = 980.0 - 60.0*c
			} else {
				freq = 720.0 + 90.0*(c-0.5)
			}
		}
		freq *= 1.0 + 0.006*math.Sin(2*math.Pi*(5.0+0.4*float64(variant))*t+float64(variant)*0.9)
		freq *= doppler

		phase += 2 * math.Pi * freq / SampleRate

		raw := math.Sin(phase)*0.84 +
			math.Sin(phase*2.0+0.22)*0.18 +
			math.Sin(phase*3.0+0.55)*0.07 +
			lcg(&seed)*0.012

		am := 0.90 + 0.10*math.Sin(2*math.Pi*(2.7+0.4*float64(variant))*t)
		if variant == 1 {
			am *= 0.88 + 0.12*math.Sin(2*math.Pi*7.5*t)
		}
		s := softSat(raw*1.55) * 0.30 * am

		// Click-free onset and offset.
		env := clamp(t*34.0, 0, 1) * clamp((dur-t)*24.0, 0, 1)

		panner := clamp(0.5+0.5*pan, 0, 1)
		left := softSat(s * env * math.Sqrt(1.0-panner))
		right := softSat(s * env * math.Sqrt(panner))
		putStereoF32LR(buf, i, left, right)
	}
	return buf
}

// SirenPan places a world position relative to the listener on the stereo
// field. rightX/rightZ is the listener's unit right vector on the ground.
// The result is in [-1,1]; falloff is the distance at which the pan saturates.
func SirenPan(dx, dz, rightX, rightZ, falloff float64) float64 {
	if falloff <= 0 {
		return 0
	}
	return clamp((dx*rightX+dz*rightZ)/falloff, -1, 1)
}

// SirenGain fades a siren with distance, reaching zero at maxDist.
func SirenGain(dist, maxDist float64) float64 {
	if maxDist <= 0 {
		return 0
	}
	g := 1 - dist/maxDist
	return clamp(g*g, 0, 1)
}
