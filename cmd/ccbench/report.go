package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// renderTable prints results the way cmd-list-blocks.go renders a block
// listing: tablewriter to stdout, one row per container.
func renderTable(results []result) {
	out := make([][]string, 0, len(results))
	for _, r := range results {
		nsPerOp := float64(0)
		if r.n > 0 {
			nsPerOp = float64(r.elapsed.Nanoseconds()) / float64(r.n)
		}
		out = append(out, []string{
			r.container,
			humanize.Comma(int64(r.n)),
			r.elapsed.String(),
			fmt.Sprintf("%.1f", nsPerOp),
		})
	}

	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"container", "elements", "elapsed", "ns/op"})
	w.AppendBulk(out)
	w.Render()
}

func renderPlain(results []result) {
	for _, r := range results {
		fmt.Printf("%-12s elements=%-10s elapsed=%s\n",
			r.container, humanize.Comma(int64(r.n)), r.elapsed)
	}
}
