package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

const (
	jobKindImport jobKind = "import"
	jobKindSave   jobKind = "save"
	jobKindDelete jobKind = "delete"
)

// jobRunner does the blocking part of a job. The message it returns is fed
// back through Update once the job is done.
type jobRunner func(context.Context) (tea.Msg, error)

type jobDoneMsg struct {
	id     int
	result tea.Msg
}

// jobQueue keeps imports and script writes off the update loop and knows
// which of them are still in flight. Only the update loop touches it.
type jobQueue struct {
	seq      int
	inFlight map[int]struct{}
}

func newJobQueue() *jobQueue {
	return &jobQueue{inFlight: make(map[int]struct{})}
}

func (q *jobQueue) start(kind jobKind, run jobRunner) tea.Cmd {
	q.seq++
	id := q.seq
	q.inFlight[id] = struct{}{}
	return func() tea.Msg {
		began := time.Now()
		result, err := run(context.Background())
		took := time.Since(began).Round(time.Millisecond)
		if err != nil {
			log.Printf("[jobs] %s #%d failed after %s: %v", kind, id, took, err)
		} else {
			log.Printf("[jobs] %s #%d done in %s", kind, id, took)
		}
		return jobDoneMsg{id: id, result: result}
	}
}

func (q *jobQueue) finish(id int) {
	delete(q.inFlight, id)
}

func (q *jobQueue) busy() bool {
	return len(q.inFlight) > 0
}

// runJob starts a job and sets the spinner going when the queue was idle.
func (m *model) runJob(kind jobKind, run jobRunner) tea.Cmd {
	idle := !m.jobs.busy()
	cmd := m.jobs.start(kind, run)
	if idle {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}
