package main

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/samuelfneumann/gomontecarlo/experiment"
	"github.com/samuelfneumann/gomontecarlo/experiment/tracker"
)

// Summarize prints the outcome of a run to w
func Summarize(w io.Writer, r *experiment.Result) {
	fmt.Fprintln(w, aurora.Bold(aurora.Cyan(fmt.Sprintf("%v on %v",
		r.Config.Algorithm, r.Config.Track))))
	fmt.Fprintf(w, "%-10s %v\n", "elapsed", r.Elapsed)

	printSummary(w, "returns", r.Returns)
	printSummary(w, "lengths", r.Lengths)
	printSummary(w, "recent", r.Recent)

	if r.Race == nil {
		return
	}

	fmt.Fprintln(w)
	if r.Race.Finished {
		fmt.Fprintln(w, aurora.Green(fmt.Sprintf("finished race in %d steps "+
			"with return %v", r.Race.Steps, r.Race.Return)))
	} else {
		fmt.Fprintln(w, aurora.Red(fmt.Sprintf("did not finish race within "+
			"%d steps", r.Race.Steps)))
	}
	fmt.Fprint(w, r.Race)
}

func printSummary(w io.Writer, name string, s tracker.Summary) {
	fmt.Fprintf(w, "%-10s %v episodes | mean %.3f | std %.3f | min %v | "+
		"max %v\n", aurora.Bold(name), s.Episodes, s.Mean, s.StdDev, s.Min,
		s.Max)
}
