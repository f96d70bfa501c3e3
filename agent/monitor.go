package agent

import (
	"fmt"
	"io"

	"github.com/poiesic/mailroom/core"
)

// Monitor provides hooks to observe the query pipeline.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(query string)
	AfterDecision(needsRetrieval bool)
	AfterReformulation(searchQuery string)
	AfterSearch(hits []core.SearchHit)
	AfterContext(context string)
	Finish(answer string)
	Failed(err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                 {}
func (n *noopMonitor) AfterDecision(_ bool)           {}
func (n *noopMonitor) AfterReformulation(_ string)    {}
func (n *noopMonitor) AfterSearch(_ []core.SearchHit) {}
func (n *noopMonitor) AfterContext(_ string)          {}
func (n *noopMonitor) Finish(_ string)                {}
func (n *noopMonitor) Failed(_ error)                 {}

// PrintMonitor writes the routing decision and the assembled context to a writer.
type PrintMonitor struct {
	noopMonitor
	w io.Writer
}

var _ Monitor = (*PrintMonitor)(nil)

// NewPrintMonitor creates a monitor for verbose console sessions.
func NewPrintMonitor(w io.Writer) *PrintMonitor {
	return &PrintMonitor{w: w}
}

func (p *PrintMonitor) AfterDecision(needsRetrieval bool) {
	if needsRetrieval {
		fmt.Fprintln(p.w, "\nDecision: searching emails")
		return
	}
	fmt.Fprintln(p.w, "\nDecision: answering directly")
}

func (p *PrintMonitor) AfterReformulation(searchQuery string) {
	fmt.Fprintf(p.w, "Search query: %s\n", searchQuery)
}

func (p *PrintMonitor) AfterSearch(hits []core.SearchHit) {
	fmt.Fprintf(p.w, "Found %d emails\n", len(hits))
}

func (p *PrintMonitor) AfterContext(context string) {
	if context == "" {
		fmt.Fprintln(p.w, "Context: (none)")
		return
	}
	fmt.Fprintf(p.w, "Context:\n%s\n", context)
}
