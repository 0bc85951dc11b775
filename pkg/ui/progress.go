package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// SearchProgress tracks results streamed by a search
type SearchProgress struct {
	Found     int
	Limit     int
	StartTime time.Time
}

// NewSearchProgress starts tracking. A limit of 0 means unbounded.
func NewSearchProgress(limit int) *SearchProgress {
	return &SearchProgress{Limit: limit, StartTime: time.Now()}
}

// Add counts one result
func (p *SearchProgress) Add() {
	p.Found++
}

// Bar renders the progress towards the limit
func (p *SearchProgress) Bar() string {
	if p.Limit <= 0 {
		return fmt.Sprintf("[%d found]", p.Found)
	}

	const width = 20
	filled := p.Found * width / p.Limit
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, width-filled)
	return fmt.Sprintf("[%s] %d/%d", bar, p.Found, p.Limit)
}

// Rate returns results per minute
func (p *SearchProgress) Rate() float64 {
	elapsed := time.Since(p.StartTime).Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(p.Found) / elapsed
}

// Summary prints the final count to stderr, keeping stdout for results
func (p *SearchProgress) Summary() {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	writeLine(errOut, render(labelStyle, "Found:")+" "+render(valueStyle, fmt.Sprintf("%s in %s (%.1f/min)",
		p.Bar(), time.Since(p.StartTime).Round(time.Millisecond), p.Rate())))
}
