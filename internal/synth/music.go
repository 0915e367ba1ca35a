package synth

import (
	"math"
	"sync/atomic"
)

// Mode selects the music bed.
type Mode int

const (
	ModeMenu Mode = iota
	ModeChase
)

// MaxHeat caps the chase intensity level.
const MaxHeat = 4

// Music is an endless stereo stream. Read runs on the audio goroutine;
// SetHeat may be called from any goroutine.
type Music struct {
	mode Mode
	t    float64
	seed uint64
	heat atomic.Int32
}

func NewMusic(mode Mode, seed uint64) *Music {
	if seed == 0 {
		seed = 0x5EED
	}
	return &Music{mode: mode, seed: seed}
}

func (m *Music) Mode() Mode { return m.mode }

// SetHeat raises the chase energy; it is clamped to [0, MaxHeat].
func (m *Music) SetHeat(h int) {
	h = max(0, min(h, MaxHeat))
	m.heat.Store(int32(h))
}

func (m *Music) Heat() int { return int(m.heat.Load()) }

func (m *Music) Read(p []byte) (int, error) {
	samples := len(p) / FrameBytes
	if samples == 0 {
		return 0, nil
	}
	for i := range samples {
		m.t += 1.0 / SampleRate
		var left, right float64
		if m.mode == ModeChase {
			left, right = m.chaseSample()
		} else {
			left, right = m.menuSample()
		}
		putStereoF32LR(p, i, left, right)
	}
	return samples * FrameBytes, nil
}

var menuChords = [][]float64{
	{220.0, 261.6, 329.6, 392.0}, // Am7
	{174.6, 220.0, 261.6, 349.2}, // Fmaj7
	{196.0, 246.9, 293.7, 392.0}, // G
	{164.8, 207.7, 246.9, 329.6}, // E
}

var chaseChords = [][]float64{
	{110.0, 130.8, 164.8, 196.0}, // Am
	{87.3, 110.0, 130.8, 174.6},  // F
	{98.0, 123.5, 146.8, 196.0},  // G
	{82.4, 103.8, 123.5, 164.8},  // E
}

// menuSample: slow electric-piano bed with a pulse bass and a soft shaker.
func (m *Music) menuSample() (float64, float64) {
	const tempo = 1.6 // 96 BPM
	const step8Len = 1.0 / (tempo * 2.0)

	beat := int(m.t * tempo)
	chord := menuChords[(beat/4)%len(menuChords)]
	chordProg := math.Mod(m.t*tempo, 4) / 4
	step8 := int(m.t*tempo*2) % 8
	step8Trig := math.Mod(m.t, step8Len)

	s := 0.0
	chordEnv := 0.55 + 0.45*math.Min(1.0, chordProg*1.2)
	for _, freq := range chord {
		ph := 2 * math.Pi * freq * m.t
		vox := math.Sin(ph)*0.68 + math.Sin(ph*2.0)*0.22 + triWave(ph*0.5)*0.10
		s += vox * chordEnv * 0.08
	}

	if step8%2 == 0 {
		bassFreq := chord[0] / 2
		bEnv := adsr(math.Mod(m.t*tempo*2, 1.0), 0.02, 0.52, 0.26, 0.2)
		bPh := 2 * math.Pi * bassFreq * m.t
		s += (triWave(bPh)*0.58 + softSquareWave(bPh*0.5)*0.24) * bEnv * 0.36
	}
	if step8%2 == 1 {
		s += lcg(&m.seed) * math.Exp(-step8Trig*20.0) * 0.06
	}

	s = softSat(s * 0.9)
	pan := 0.11 * math.Sin(2*math.Pi*0.10*m.t)
	return softSat(s * (1 - pan)), softSat(s * (1 + pan))
}

// chaseSample: pumping bass, hard kick and an arpeggio that thickens with heat.
func (m *Music) chaseSample() (float64, float64) {
	heat := float64(m.heat.Load())
	tempo := 2.3 + 0.08*heat // 138 BPM rising
	beatLen := 1.0 / tempo
	trig := math.Mod(m.t, beatLen)
	beatPos := trig / beatLen
	beat := int(m.t * tempo)
	chord := chaseChords[(beat/2)%len(chaseChords)]

	s := fmPad(m.t, chord, 1.0) * 0.5

	pumpEnv := math.Min(1.0, beatPos*4)
	s += fmBass(m.t, chord[0]/2, pumpEnv) * 0.9
	s += kick(trig) * 1.1
	if beat%2 == 1 {
		s += snare(trig, &m.seed) * 0.9
	}

	hhTrig := math.Mod(m.t*tempo*4, 1.0) / (tempo * 4)
	s += hihat(hhTrig, false, &m.seed) * (0.8 + 0.2*heat)

	if heat > 0 {
		arpIdx := int(m.t*tempo*2) % len(chord)
		arpEnv := adsr(math.Mod(m.t*tempo*2, 1.0), 0.005, 0.3, 0.1, 0.15)
		s += fmArp(m.t, chord[arpIdx]*4, arpEnv) * (0.3 + 0.12*heat)
	}
	if heat >= 3 {
		leadNotes := [4]float64{1.0, 1.25, 1.5, 1.25}
		leadEnv := adsr(beatPos, 0.005, 0.35, 0.15, 0.15)
		s += fmLead(m.t, chord[1]*4*leadNotes[beat%4], leadEnv) * 0.5
	}

	duck := 1.0 - 0.16*math.Exp(-trig*20.0)
	s = softSat(s * duck * 0.8)
	pan := 0.09 * math.Sin(2*math.Pi*0.09*m.t)
	return softSat(s * (1 - pan)), softSat(s * (1 + pan))
}

// kick: pitch-swept sine with a transient click.
func kick(trig float64) float64 {
	if trig > 0.25 {
		return 0
	}
	phase := 2 * math.Pi * 185 / 12.5 * (1 - math.Exp(-trig*12.5))
	body := math.Sin(phase) * math.Exp(-trig*18.0) * 0.80
	click := math.Sin(2*math.Pi*2100*trig) * math.Exp(-trig*250.0) * 0.24
	return softSat(body + click)
}

func snare(trig float64, seed *uint64) float64 {
	if trig > 0.2 {
		return 0
	}
	env := math.Exp(-trig * 26.0)
	body := (math.Sin(2*math.Pi*188*trig)*0.24 + math.Sin(2*math.Pi*356*trig)*0.10) * env
	n1 := lcg(seed)
	n2 := lcg(seed)
	noise := (n1 - n2*0.55) * env * (0.55 + 0.25*math.Exp(-trig*8.0))
	return softSat(body + noise)
}

func hihat(trig float64, open bool, seed *uint64) float64 {
	decay, limit := 42.0, 0.06
	if open {
		decay, limit = 15.0, 0.18
	}
	if trig > limit {
		return 0
	}
	n := lcg(seed)
	metal := math.Sin(2*math.Pi*7300*trig) + math.Sin(2*math.Pi*9200*trig)*0.6
	return softSat((n*0.8 + metal*0.2) * math.Exp(-trig*decay) * 0.07)
}

func fmBass(t, freq, env float64) float64 {
	b := fm(t, freq, 0.5, 1.25*env) * env * 0.48
	b += math.Sin(2*math.Pi*freq*t) * env * 0.26
	return softSat(b)
}

// fmPad: four detuned FM voices per chord note.
func fmPad(t float64, chord []float64, env float64) float64 {
	s := 0.0
	detunes := [4]float64{-0.004, -0.001, 0.002, 0.005}
	for _, freq := range chord {
		for _, d := range detunes {
			f := freq * (1 + d)
			s += fm(t, f, 1.45, 0.75*env) * 0.04
		}
	}
	return softSat(s)
}

func fmArp(t, freq, env float64) float64 {
	s := fm(t, freq, 2.0, 3.2*env) * env * 0.20
	s += math.Sin(2*math.Pi*freq*2*t) * env * 0.08
	return softSat(s)
}

func fmLead(t, freq, env float64) float64 {
	vib := 1 + 0.01*math.Sin(2*math.Pi*5.4*t)
	s := fm(t, freq*vib, 1.55, 2.7*env) * env * 0.26
	return softSat(s)
}
