// Package statistics holds the per-column selectivity estimators used by the
// cost-based optimizer.
//
// Histograms are equi-width: the integer range [min, max] is split into
// buckets of width ceil((max-min+1)/buckets). Bucket i covers
// [min+i*w, min+(i+1)*w) intersected with [min, max]. Each histogram is built
// by one writer (AddValue) and is read-only afterwards, so estimates may be
// served concurrently once the build phase is over.
//
// TableStats groups one histogram per column of a table, Collector builds
// TableStats for many tables in parallel and Registry serves the finished
// statistics together with a memo of recent estimates.
package statistics
