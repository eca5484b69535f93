package bridge

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
)

// printFinalStats renders the end-of-run summary for both core components
// plus the pipeline's own counters.
func (p *Pipeline) printFinalStats() {
	runtime := time.Since(p.startTime)
	avgRate := 0.0
	if seconds := runtime.Seconds(); seconds > 0 {
		avgRate = float64(p.processed) / seconds
	}

	extractorStats := p.extractor.Stats()
	sinkStats := p.client.Stats()

	lastSend := "never"
	if !sinkStats.LastSend.IsZero() {
		lastSend = sinkStats.LastSend.Format(time.RFC3339)
	}

	pterm.DefaultSection.Println("bridge session summary")
	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Metric", "Value"},
		{"Session", p.sessionID},
		{"Runtime", runtime.Round(time.Second).String()},
		{"Send attempts", fmt.Sprintf("%d", p.processed)},
		{"Delivered", fmt.Sprintf("%d", p.delivered)},
		{"Filtered out", fmt.Sprintf("%d", p.skipped)},
		{"Average rate", fmt.Sprintf("%.2f msg/s", avgRate)},
		{"Ticks", fmt.Sprintf("%d (%d failed)", p.ticks, p.tickErrs)},
	}).Render()

	pterm.DefaultSection.Println("extractor statistics")
	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Metric", "Value"},
		{"Candidates received", fmt.Sprintf("%d", extractorStats.Received)},
		{"Parsed", fmt.Sprintf("%d", extractorStats.Parsed)},
		{"Invalid", fmt.Sprintf("%d", extractorStats.Invalid)},
		{"Parse rate", fmt.Sprintf("%.1f%%", extractorStats.ParseRate)},
		{"Buffer size", fmt.Sprintf("%d chars", extractorStats.BufferSize)},
	}).Render()

	pterm.DefaultSection.Println("sink statistics")
	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Metric", "Value"},
		{"Sent", fmt.Sprintf("%d", sinkStats.Sent)},
		{"Failed", fmt.Sprintf("%d", sinkStats.Failed)},
		{"Success rate", fmt.Sprintf("%.1f%%", sinkStats.SuccessRate)},
		{"Last send", lastSend},
	}).Render()
}
