package battery

import "math"

// LifeFunc returns cycles to failure at a depth of discharge range (%).
type LifeFunc func(dodRange float64) float64

// Lifetime counts cycles over a stream of depth of discharge turning points
// with four-point rainflow counting and accumulates fatigue damage. Each
// counted range r adds 100/life(r) percent of damage.
//
// Callers feed a value only when the charge direction reverses, so every
// sample is a turning point.
type Lifetime struct {
	life LifeFunc

	peaks []float64
	// j is the index of the newest peak while ranges are being compared.
	// Between calls to Rainflow it equals len(peaks).
	j int
	// start is the reference point S and k its index in peaks.
	start float64
	k     int
	// x is the newest range, y the one before it.
	x, y float64

	cycles   int
	damage   float64
	finished bool
}

// expectedPeaks sizes the turning point buffer for a year of hourly steps
// with roughly daily reversals.
const expectedPeaks = 1024

// NewLifetime returns an empty counter scoring ranges with life.
func NewLifetime(life LifeFunc) *Lifetime {
	return &Lifetime{life: life, peaks: make([]float64, 0, expectedPeaks)}
}

// Rainflow consumes the next turning point and counts every half cycle it
// closes. Points arriving after Finish are ignored.
func (l *Lifetime) Rainflow(dod float64) {
	if l.finished {
		return
	}
	l.peaks = append(l.peaks, dod)
	if l.j == 0 {
		l.start = dod
		l.k = 0
	}
	for l.j >= 2 {
		l.ranges()
		if !l.compare() {
			break
		}
	}
	l.j++
}

func (l *Lifetime) ranges() {
	l.y = math.Abs(l.peaks[l.j-1] - l.peaks[l.j-2])
	l.x = math.Abs(l.peaks[l.j] - l.peaks[l.j-1])
}

// compare applies the four-point rule to x and y. It returns true when y
// was counted and the ranges must be formed again, false when more data
// is needed.
func (l *Lifetime) compare() bool {
	if l.x < l.y {
		return false
	}
	if l.start == l.peaks[l.j-1] || l.start == l.peaks[l.j-2] {
		// y contains the start point: move S forward when x is strictly
		// larger and wait for the next sample either way.
		if l.x > l.y && l.k+1 < len(l.peaks) {
			l.k++
			l.start = l.peaks[l.k]
		}
		return false
	}
	l.countY()
	return true
}

// countY scores range y and drops its two points, keeping the newest.
func (l *Lifetime) countY() {
	if cf := l.life(l.y); math.Abs(cf) > 0 {
		l.damage += 100 / cf
	}
	l.cycles++
	last := l.peaks[l.j]
	l.peaks = append(l.peaks[:l.j-2], last)
	l.j -= 2
}

// circularRanges forms x and y treating the peaks as a ring, for the point
// at index i.
func (l *Lifetime) circularRanges(i int) {
	end := len(l.peaks) - 1
	switch i {
	case 0:
		l.x = math.Abs(l.peaks[0] - l.peaks[end])
		l.y = math.Abs(l.peaks[end] - l.peaks[end-1])
	case 1:
		l.x = math.Abs(l.peaks[1] - l.peaks[0])
		l.y = math.Abs(l.peaks[0] - l.peaks[end])
	default:
		l.ranges()
	}
}

// Finish counts the ranges still open at the end of the run by walking the
// residual peaks as a ring until the start point has been read twice.
// Only the first call has any effect.
func (l *Lifetime) Finish() {
	if l.finished {
		return
	}
	l.finished = true
	// Drop a closing point equal to the first so no zero-width range is counted.
	if n := len(l.peaks); n > 1 && l.peaks[n-1] == l.peaks[0] {
		l.peaks = l.peaks[:n-1]
	}
	l.j = len(l.peaks) - 1

	ii := 0
	rereads := 0
	for rereads <= 1 && ii < len(l.peaks) {
		p := l.peaks[ii]
		if p == l.start {
			rereads++
		}
		for more := true; more; {
			switch {
			case l.j >= 2:
				l.circularRanges(ii)
			case l.j == 1:
				more = false
				l.peaks = append(l.peaks, p)
				l.j++
				ii = l.j
				l.circularRanges(ii)
			default:
				rereads++
				more = false
				continue
			}
			if l.x < l.y {
				more = false
				ii++
				continue
			}
			l.countY()
		}
	}
}

// Cycles returns the number of half cycles counted so far.
func (l *Lifetime) Cycles() int { return l.cycles }

// Damage returns the accumulated damage in percent. Before Finish it
// leaves out ranges that are still open.
func (l *Lifetime) Damage() float64 { return l.damage }

// Peaks returns a copy of the residual turning points.
func (l *Lifetime) Peaks() []float64 { return append([]float64(nil), l.peaks...) }

// Finished reports whether Finish has run.
func (l *Lifetime) Finished() bool { return l.finished }
