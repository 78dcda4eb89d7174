package diag

// Bag accumulates the issues of one composition run. It is the sink hosts
// push into; create one per run and never share it between runs.
type Bag struct {
	items []Issue
}

func NewBag() *Bag {
	return &Bag{items: make([]Issue, 0, 16)}
}

// Add appends one issue.
func (b *Bag) Add(issue Issue) {
	b.items = append(b.items, issue)
}

// AddAll appends issues in order.
func (b *Bag) AddAll(issues []Issue) {
	b.items = append(b.items, issues...)
}

// HasErrors возвращает true, если есть хотя бы одна ошибка.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity == SevError {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the accumulated issues.
func (b *Bag) Snapshot() []Issue {
	out := make([]Issue, len(b.items))
	copy(out, b.items)
	return out
}

// Errors returns the error issues in insertion order.
func (b *Bag) Errors() []Issue {
	return b.filter(SevError)
}

// Warnings returns the warning issues in insertion order.
func (b *Bag) Warnings() []Issue {
	return b.filter(SevWarning)
}

func (b *Bag) filter(sev Severity) []Issue {
	var out []Issue
	for _, it := range b.items {
		if it.Severity == sev {
			out = append(out, it)
		}
	}
	return out
}
