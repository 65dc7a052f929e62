package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestJobQueueTracksInFlight(t *testing.T) {
	q := newJobQueue()
	if q.busy() {
		t.Fatal("new queue should be idle")
	}
	first := q.start(jobKindSave, func(context.Context) (tea.Msg, error) {
		return saveResultMsg{}, nil
	})
	second := q.start(jobKindDelete, func(context.Context) (tea.Msg, error) {
		return nil, errors.New("gone")
	})

	done, ok := first().(jobDoneMsg)
	if !ok {
		t.Fatalf("job returned %T, want jobDoneMsg", first())
	}
	if _, ok := done.result.(saveResultMsg); !ok {
		t.Fatalf("result = %T, want saveResultMsg", done.result)
	}
	q.finish(done.id)
	if !q.busy() {
		t.Fatal("queue should stay busy while the delete runs")
	}

	failed := second().(jobDoneMsg)
	if failed.id == done.id {
		t.Fatalf("jobs share id %d", done.id)
	}
	if failed.result != nil {
		t.Fatalf("failed job result = %v, want nil", failed.result)
	}
	q.finish(failed.id)
	if q.busy() {
		t.Fatal("queue should be idle once every job finished")
	}
}

func TestRunJobBusyUntilDone(t *testing.T) {
	m := newTestModel(t)
	cmd := m.runJob(jobKindImport, func(context.Context) (tea.Msg, error) {
		return nil, nil
	})
	if cmd == nil || !m.jobs.busy() {
		t.Fatal("starting a job should mark the editor busy")
	}
	m.Update(jobDoneMsg{id: m.jobs.seq})
	if m.jobs.busy() {
		t.Fatal("finished job should clear the busy state")
	}
}
