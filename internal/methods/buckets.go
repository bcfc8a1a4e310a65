package methods

// BucketResult is a bucket's budget next to what was actually spent.
type BucketResult struct {
	Bucket Bucket  `json:"bucket"`
	Spent  float64 `json:"spent"`
	// Limit is 0 for buckets without a fixed allocation.
	Limit          float64 `json:"limit"`
	PercentageUsed float64 `json:"percentageUsed"`
}

// OverBudget reports strictly more than 100% of the limit used.
func (r BucketResult) OverBudget() bool {
	return r.PercentageUsed > 100
}

// BucketSpending maps expenseByCategory onto the method's buckets.
// Categories that no bucket matches do not count anywhere.
func BucketSpending(m Method, expenseByCategory map[string]float64, incomes float64) []BucketResult {
	out := make([]BucketResult, 0, len(m.Buckets))
	for _, b := range m.Buckets {
		var spent float64
		for _, c := range b.MatchCategories {
			spent += expenseByCategory[c]
		}
		var limit float64
		if b.Percentage > 0 {
			limit = incomes * b.Percentage / 100
		}
		var used float64
		if limit > 0 {
			used = spent / limit * 100
		}
		out = append(out, BucketResult{Bucket: b, Spent: spent, Limit: limit, PercentageUsed: used})
	}
	return out
}
