package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"querycore/pkg/optimizer/statistics"
)

// DefaultBarWidth is the length of the bar for the fullest bucket.
const DefaultBarWidth = 40

// RenderHistogram draws one row per bucket: the bucket's value range, a bar
// scaled against the fullest bucket, and the bucket count.
func RenderHistogram(h *statistics.IntHistogram, barWidth int) string {
	if h == nil {
		return MutedStyle.Render("(no histogram)")
	}
	if barWidth < 1 {
		barWidth = DefaultBarWidth
	}

	min, max := h.Range()
	buckets := h.Buckets()

	labels := make([]string, len(buckets))
	labelWidth := 0
	var fullest int64
	for i, count := range buckets {
		lo, hi := bucketBounds(min, max, h.BucketWidth(), i)
		if lo == hi {
			labels[i] = strconv.FormatInt(lo, 10)
		} else {
			labels[i] = fmt.Sprintf("[%d, %d]", lo, hi)
		}
		labelWidth = Max(labelWidth, lipgloss.Width(labels[i]))
		if count > fullest {
			fullest = count
		}
	}

	rows := make([]string, 0, len(buckets)+1)
	rows = append(rows, strings.Join([]string{
		RenderLabel("range", fmt.Sprintf("[%d, %d]", min, max)),
		RenderLabel("width", strconv.FormatUint(h.BucketWidth(), 10)),
		RenderLabel("total", strconv.FormatInt(h.TotalCount(), 10)),
	}, "  "))

	for i, count := range buckets {
		n := 0
		if fullest > 0 {
			n = int(count * int64(barWidth) / fullest)
		}
		bar := BarStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", barWidth-n)
		rows = append(rows, RightAlign(labels[i], labelWidth)+" │"+bar+"│ "+strconv.FormatInt(count, 10))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderTableStats summarizes every column of ts and draws its histogram.
func RenderTableStats(ts *statistics.TableStats, barWidth int) string {
	if ts == nil {
		return MutedStyle.Render("(no statistics)")
	}

	desc := ts.TupleDesc()
	data := make([][]string, 0, desc.NumFields())
	sections := make([]string, 0, desc.NumFields())

	for i := 0; i < desc.NumFields(); i++ {
		name, _ := desc.GetFieldName(i)
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		typ, _ := desc.TypeAtIndex(i)

		hist, err := ts.Histogram(i)
		if err != nil {
			data = append(data, []string{name, typ.String(), "-", err.Error()})
			continue
		}
		data = append(data, []string{name, typ.String(), strconv.FormatInt(hist.TotalCount(), 10), hist.String()})

		var ints *statistics.IntHistogram
		switch h := hist.(type) {
		case *statistics.IntHistogram:
			ints = h
		case *statistics.StringHistogram:
			ints = h.Ints()
		}
		sections = append(sections, HeaderStyle.Render(" "+name+" "), RenderHistogram(ints, barWidth))
	}

	parts := []string{
		RenderTitle("▤", fmt.Sprintf("%s: %d tuples", ts.TableID(), ts.TotalTuples())),
		RenderTable([]string{"column", "type", "values", "histogram"}, data),
	}
	parts = append(parts, sections...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// bucketBounds returns the inclusive value range of bucket idx. Offsets are
// computed in uint64 so the full int64 domain does not overflow.
func bucketBounds(min, max int64, width uint64, idx int) (int64, int64) {
	span := uint64(max) - uint64(min)
	loOff := uint64(idx) * width
	hiOff := loOff + width - 1
	if hiOff > span || hiOff < loOff {
		hiOff = span
	}
	return int64(uint64(min) + loOff), int64(uint64(min) + hiOff)
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
