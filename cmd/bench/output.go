package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/olekukonko/tablewriter"
)

func writeResults(w io.Writer, format string, results []result) error {
	switch strings.ToLower(format) {
	case "table":
		return writeTable(w, results)
	case "json":
		return json.MarshalWrite(w, results, jsontext.WithIndent("  "))
	default:
		return fmt.Errorf("unknown format %q (use table or json)", format)
	}
}

func writeTable(w io.Writer, results []result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Strategy", "Workers", "Best", "Avg", "M values/s", "Peak heap MB", "Peak RSS MB", "Bucket MB")
	for _, r := range results {
		bucket := "-"
		if r.BucketMB > 0 {
			bucket = strconv.FormatFloat(r.BucketMB, 'f', 1, 64)
		}
		if err := table.Append([]string{
			r.Strategy,
			strconv.Itoa(r.Workers),
			time.Duration(r.BestNanos).Round(time.Microsecond).String(),
			time.Duration(r.AvgNanos).Round(time.Microsecond).String(),
			strconv.FormatFloat(r.MValuesPerSec, 'f', 2, 64),
			strconv.FormatFloat(r.PeakHeapMB, 'f', 1, 64),
			strconv.FormatFloat(r.PeakRSSMB, 'f', 1, 64),
			bucket,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
