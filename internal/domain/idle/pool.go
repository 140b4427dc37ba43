package idle

// Pool is a bounded quantity shared by currencies and stat pools.
type Pool struct {
	Current   float64 `json:"current"`
	Max       float64 `json:"max"`
	Min       float64 `json:"min"`
	Unbounded bool    `json:"unbounded,omitempty"`
}

// Add applies delta within [Min, Max] and returns the part actually applied.
func (p *Pool) Add(delta float64) float64 {
	before := p.Current
	p.Current += delta
	p.clamp()
	return p.Current - before
}

// Drain removes up to amount, never going below Min.
func (p *Pool) Drain(amount float64) float64 {
	return -p.Add(-amount)
}

func (p Pool) Has(amount float64) bool {
	return p.Current >= amount
}

func (p Pool) Full() bool {
	return !p.Unbounded && p.Current >= p.Max
}

func (p Pool) Fraction() float64 {
	if p.Unbounded || p.Max <= 0 {
		return 0
	}
	return p.Current / p.Max
}

// Resize moves the capacity by delta. Holdings above the new capacity are cut
// back so the pool never reports more than it can hold.
func (p *Pool) Resize(delta float64) {
	if p.Unbounded {
		return
	}
	p.Max += delta
	if p.Max < p.Min {
		p.Max = p.Min
	}
	p.clamp()
}

func (p *Pool) clamp() {
	if p.Current < p.Min {
		p.Current = p.Min
	}
	if !p.Unbounded && p.Current > p.Max {
		p.Current = p.Max
	}
}
