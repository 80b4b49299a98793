package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyentantai21042004/smelt-client/internal/collector"
	"github.com/nguyentantai21042004/smelt-client/internal/ledger"
	"github.com/nguyentantai21042004/smelt-client/internal/session"
)

func TestProgressPrinterOnlyFinalLinesWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)

	p.observe(session.Snapshot{Phase: session.PhaseCompleting, Progress: []ledger.Entry{
		{Identifier: "a.mp3", Percent: 40, Status: "TRANSCRIBING..."},
		{Identifier: "b.mp3", Status: ledger.StatusQueued},
	}})
	assert.Empty(t, buf.String())

	p.observe(session.Snapshot{Phase: session.PhaseDone, Progress: []ledger.Entry{
		{Identifier: "a.mp3", Percent: 100, Status: ledger.StatusDone},
		{Identifier: "b.mp3", Percent: 10, Status: "DECODING...", ErrorMessage: "bad codec"},
	}})
	// unchanged entries are not repeated
	p.observe(session.Snapshot{Phase: session.PhaseDone, Progress: []ledger.Entry{
		{Identifier: "a.mp3", Percent: 100, Status: ledger.StatusDone},
	}})

	assert.Equal(t, "[100%] a.mp3  DONE\n[ ERR] b.mp3  bad codec\n", buf.String())
}

func TestProgressPrinterReportsFailure(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)

	p.observe(session.Snapshot{Phase: session.PhaseFailed, ErrorMessage: "CONNECTION FAILED. IS THE SERVER RUNNING?"})
	assert.Equal(t, "CONNECTION FAILED. IS THE SERVER RUNNING?\n", buf.String())
}

func TestRenderOutcome(t *testing.T) {
	assert.Empty(t, renderOutcome(session.Outcome{}))

	out := renderOutcome(session.Outcome{
		Progress: []ledger.Entry{
			{Identifier: "a.mp3", Percent: 100, Status: ledger.StatusDone},
			{Identifier: "b.mp3", Percent: 10, Status: "DECODING...", ErrorMessage: "bad codec"},
		},
		Results: []collector.ResultItem{collector.NewResult("a.mp3", "# A")},
	})
	assert.Contains(t, out, "a_smelt.md")
	assert.Contains(t, out, "bad codec")
	assert.Contains(t, out, "100%")
}
