package statistics

const (
	// DefaultHistogramBuckets is the bucket count used when none is configured.
	DefaultHistogramBuckets = 100

	// DefaultSelectivity is returned for operators a histogram cannot estimate.
	DefaultSelectivity = 0.1

	// CostPerTuple is the cost of reading and processing one tuple in a scan.
	CostPerTuple = 0.01
)
