package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/nguyentantai21042004/smelt-client/internal/ledger"
	"github.com/nguyentantai21042004/smelt-client/internal/session"
)

// progressPrinter prints a line whenever an item's progress changes. When out is not a
// terminal only finished and failed items are printed.
type progressPrinter struct {
	mu    sync.Mutex
	out   io.Writer
	live  bool
	last  map[string]ledger.Entry
	phase session.Phase
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out:  out,
		live: isTerminal(out),
		last: make(map[string]ledger.Entry),
	}
}

func (p *progressPrinter) observe(snap session.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range snap.Progress {
		if prev, ok := p.last[e.Identifier]; ok && prev == e {
			continue
		}
		p.last[e.Identifier] = e
		if !p.live && !e.Failed() && e.Status != ledger.StatusDone {
			continue
		}
		if e.Failed() {
			fmt.Fprintf(p.out, "[ ERR] %s  %s\n", e.Identifier, e.ErrorMessage)
			continue
		}
		fmt.Fprintf(p.out, "[%3d%%] %s  %s\n", e.Percent, e.Identifier, e.Status)
	}

	if snap.Phase != p.phase {
		p.phase = snap.Phase
		if snap.Phase == session.PhaseFailed {
			fmt.Fprintln(p.out, snap.ErrorMessage)
		}
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
