package synth

import "math"

// Effect identifies a one-shot sound.
type Effect int

const (
	EffectMenuSelect Effect = iota
	EffectLaunch
	EffectPurchase
	EffectDenied
	EffectBusted
)

func (e Effect) String() string {
	switch e {
	case EffectMenuSelect:
		return "menu-select"
	case EffectLaunch:
		return "launch"
	case EffectPurchase:
		return "purchase"
	case EffectDenied:
		return "denied"
	case EffectBusted:
		return "busted"
	}
	return "unknown"
}

// Render returns the samples for e, or nil for an unknown effect.
func Render(e Effect) []byte {
	switch e {
	case EffectMenuSelect:
		return genMenuSelect()
	case EffectLaunch:
		return genLaunch()
	case EffectPurchase:
		return genPurchase()
	case EffectDenied:
		return genDenied()
	case EffectBusted:
		return genBusted()
	}
	return nil
}

// genMenuSelect: crisp click with a brief falling tone.
func genMenuSelect() []byte {
	n := SampleRate * 65 / 1000
	buf := makeBuf(n)
	for i := range n {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.004, 0.55, 0.0, 0.1)
		freq := 1400 - 700*p
		s := fm(t, freq, 1.0, 0.6) * env * 0.38
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genLaunch: rising FM bell staircase with an engine rev under it.
func genLaunch() []byte {
	notes := []float64{440, 554.37, 659.25, 880, 1108.73}
	noteStep := int(0.09 * SampleRate)
	total := len(notes)*noteStep + int(0.25*SampleRate)
	mix := make([]float64, total)

	for fi, freq := range notes {
		start := fi * noteStep
		dur := total - start
		for j := range dur {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.003, 0.65, 0.04, 0.28)
			s := fm(t, freq, 3.5, 5.5*env) * env * 0.28
			s += math.Sin(2*math.Pi*freq*2*t) * env * 0.07
			mix[start+j] += s
		}
	}
	phase := 0.0
	for i := range total {
		p := float64(i) / float64(total)
		freq := 55 + 90*p*p
		phase += 2 * math.Pi * freq / SampleRate
		mix[i] += softSquareWave(phase) * adsr(p, 0.05, 0.3, 0.6, 0.3) * 0.12
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genPurchase: ascending FM bell arpeggio, C major.
func genPurchase() []byte {
	freqs := []float64{523.25, 659.25, 783.99, 1046.5}
	noteLen := SampleRate * 75 / 1000
	tail := int(0.18 * SampleRate)
	total := len(freqs)*noteLen + tail
	mix := make([]float64, total)

	for fi, freq := range freqs {
		start := fi * noteLen
		dur := total - start
		for j := range dur {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.004, 0.55, 0.05, 0.35)
			s := fm(t, freq, 2.756, 5.0*env) * env * 0.38
			s += math.Sin(2*math.Pi*freq*2*t) * env * 0.09
			mix[start+j] += s
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genDenied: descending FM buzz.
func genDenied() []byte {
	n := int(0.16 * SampleRate)
	buf := makeBuf(n)
	for i := range n {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.015, 0.55, 0.1, 0.25)
		freq := 320 - 220*p
		s := fm(t, freq, 1.5, 2.8*(1-p)) * env * 0.52
		s += math.Sin(2*math.Pi*freq*2*t) * env * 0.1
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genBusted: slow descending minor chord, staggered.
func genBusted() []byte {
	dur := 0.75
	n := int(dur * SampleRate)
	notes := []struct{ freq, onset float64 }{
		{329.63, 0.00}, // E4
		{261.63, 0.14}, // C4
		{220.00, 0.28}, // A3
	}
	mix := make([]float64, n)
	for _, note := range notes {
		start := int(note.onset * SampleRate)
		for i := start; i < n; i++ {
			t := float64(i) / SampleRate
			np := float64(i-start) / float64(n-start)
			env := adsr(np, 0.008, 0.25, 0.3, 0.45)
			freq := note.freq * (1 - np*0.025)
			s := fm(t, freq, 2.0, 2.0*env) * env * 0.32
			s += math.Sin(2*math.Pi*freq*0.5*t) * env * 0.1
			mix[i] += s
		}
	}
	buf := makeBuf(n)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}
