package internal

import "time"

type profileRecord struct {
	total time.Duration
	max   time.Duration
	count int64
}

// ProfileResult is elapsed time summary of a step in seconds
type ProfileResult struct {
	Total float64 `json:"total"`
	Max   float64 `json:"max"`
	Count int64   `json:"count"`
}

// Profile measures elapsed time of named steps. Not goroutine safe.
type Profile struct {
	records map[string]*profileRecord
	now     func() time.Time
}

// NewProfile is constructor of Profile
func NewProfile() *Profile {
	return &Profile{
		records: map[string]*profileRecord{},
		now:     time.Now,
	}
}

// Measure runs fn and adds its elapsed time to step, even if fn fails.
func (x *Profile) Measure(step string, fn func() error) error {
	p, ok := x.records[step]
	if !ok {
		p = &profileRecord{}
		x.records[step] = p
	}

	start := x.now()
	err := fn()
	sub := x.now().Sub(start)

	p.count++
	p.total += sub
	if p.max < sub {
		p.max = sub
	}

	Logger.WithField("step", step).WithField("elapsed", sub.Seconds()).Debug("Profile: step finished")
	return err
}

// Pack returns summary of all steps
func (x *Profile) Pack() map[string]ProfileResult {
	v := map[string]ProfileResult{}
	for k, r := range x.records {
		v[k] = ProfileResult{
			Total: r.total.Seconds(),
			Max:   r.max.Seconds(),
			Count: r.count,
		}
	}
	return v
}
