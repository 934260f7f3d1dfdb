package limits

import "fmt"

// Budget caps how many instructions a VM may execute. A zero limit means
// unlimited.
type Budget struct {
	limit int64
	used  int64
}

func NewBudget(limit int64) *Budget {
	if limit < 0 {
		limit = 0
	}
	return &Budget{limit: limit}
}

func (b *Budget) Limit() int64 {
	if b == nil {
		return 0
	}
	return b.limit
}

func (b *Budget) Used() int64 {
	if b == nil {
		return 0
	}
	return b.used
}

type StepLimitError struct {
	Limit int64
}

func (e StepLimitError) Error() string {
	return fmt.Sprintf("instruction budget exhausted (%d steps)", e.Limit)
}

// Charge records n executed instructions.
func (b *Budget) Charge(n int64) error {
	if b == nil || n <= 0 {
		return nil
	}
	if b.limit > 0 && b.used+n > b.limit {
		return StepLimitError{Limit: b.limit}
	}
	b.used += n
	return nil
}

// Reset clears the used count, keeping the limit.
func (b *Budget) Reset() {
	if b != nil {
		b.used = 0
	}
}
