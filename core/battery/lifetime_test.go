package battery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func linearLife(r float64) float64 { return 10000 - 100*r }

func feed(l *Lifetime, dods ...float64) {
	for _, d := range dods {
		l.Rainflow(d)
	}
}

func TestRainflowReferenceSequence(t *testing.T) {
	l := NewLifetime(linearLife)
	feed(l, 0, 40, 20, 50, 10, 30, 0)

	// Online: ranges 20 (40->20) and 20 (10->30) close; 0-50-0 stays open.
	if l.Cycles() != 2 {
		t.Fatalf("cycles before finish = %d, want 2", l.Cycles())
	}
	if math.Abs(l.Damage()-0.025) > 1e-12 {
		t.Fatalf("damage before finish = %v, want 0.025", l.Damage())
	}
	assert.Equal(t, []float64{0, 50, 0}, l.Peaks())

	l.Finish()
	if l.Cycles() != 3 {
		t.Fatalf("cycles after finish = %d, want 3", l.Cycles())
	}
	if math.Abs(l.Damage()-0.045) > 1e-12 {
		t.Fatalf("damage after finish = %v, want 0.045", l.Damage())
	}
}

func TestRainflowFinishIsIdempotent(t *testing.T) {
	l := NewLifetime(linearLife)
	feed(l, 0, 40, 20, 50, 10, 30, 0)
	l.Finish()
	cycles, damage := l.Cycles(), l.Damage()
	l.Finish()
	if l.Cycles() != cycles || l.Damage() != damage {
		t.Fatalf("second finish changed totals: %d/%v -> %d/%v", cycles, damage, l.Cycles(), l.Damage())
	}
	if !l.Finished() {
		t.Fatalf("expected finished")
	}
}

func TestRainflowIgnoresInputAfterFinish(t *testing.T) {
	l := NewLifetime(linearLife)
	feed(l, 0, 60)
	l.Finish()
	before := l.Cycles()
	feed(l, 10, 90, 0, 90)
	if l.Cycles() != before {
		t.Fatalf("cycles changed after finish")
	}
}

func TestRainflowRepeatedFullCycles(t *testing.T) {
	l := NewLifetime(linearLife)
	feed(l, 0, 100, 0, 100, 0)
	// Every range touches the start point, so nothing closes online.
	if l.Cycles() != 0 {
		t.Fatalf("cycles before finish = %d", l.Cycles())
	}
	l.Finish()
	if l.Cycles() != 2 {
		t.Fatalf("cycles after finish = %d, want 2", l.Cycles())
	}
	if math.Abs(l.Damage()-2*100/linearLife(100)) > 1e-12 {
		t.Fatalf("damage = %v", l.Damage())
	}
}

func TestRainflowEmptyAndSinglePoint(t *testing.T) {
	l := NewLifetime(linearLife)
	l.Finish()
	assert.Equal(t, 0, l.Cycles())
	assert.Equal(t, 0.0, l.Damage())

	l = NewLifetime(linearLife)
	feed(l, 35)
	l.Finish()
	assert.Equal(t, 0, l.Cycles())
}

func TestRainflowZeroLifeAddsNoDamage(t *testing.T) {
	l := NewLifetime(func(float64) float64 { return 0 })
	feed(l, 0, 40, 20, 50)
	if l.Cycles() != 1 || l.Damage() != 0 {
		t.Fatalf("cycles %d damage %v", l.Cycles(), l.Damage())
	}
}
