package domain

// Defaults holds resolved retrieval defaults, owned by the composition root.
type Defaults struct {
	TopK      int
	MaxTopK   int
	Threshold float64
}

// Query is a retrieval request. Zero TopK/Threshold mean "use defaults".
type Query struct {
	Question  string
	TopK      int
	Threshold float64
}

// Resolve returns a copy with defaults applied and TopK clamped to [1, MaxTopK].
// Threshold stays within [0, 1].
func (q Query) Resolve(d Defaults) Query {
	if q.TopK <= 0 {
		q.TopK = d.TopK
	}
	if q.TopK > d.MaxTopK {
		q.TopK = d.MaxTopK
	}
	if q.Threshold <= 0 {
		q.Threshold = d.Threshold
	}
	if q.Threshold > 1 {
		q.Threshold = 1
	}
	return q
}
