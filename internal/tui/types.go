package tui

import (
	"time"

	"github.com/csheth/teleprompter/internal/display"
	"github.com/csheth/teleprompter/internal/importer"
	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/scripts"
)

type focus int

const (
	focusList focus = iota
	focusTitle
	focusBody
	focusCount
)

const (
	titleLimit           = 15
	defaultAutoSaveDelay = time.Second
	remoteTimeout        = 2 * time.Second
)

const (
	emptyListHint    = "No saved scripts yet."
	titlePlaceholder = "Script title"
	bodyPlaceholder  = "Type or paste your script. Markdown is supported."
)

type timerMsg struct {
	tag display.TimerTag
	at  time.Time
}

type autosaveMsg struct {
	generation int
}

type remoteMsg struct {
	msg   ipc.Message
	reply chan<- error
}

type importResultMsg struct {
	script importer.Script
	err    error
}

type saveResultMsg struct {
	script scripts.Script
	err    error
}

type deleteResultMsg struct {
	id  string
	err error
}
