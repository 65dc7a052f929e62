package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/teleprompter/internal/ipc"
)

// ErrRemoteTimeout is returned when the program does not apply a remote
// message in time.
var ErrRemoteTimeout = errors.New("tui: timed out waiting for the prompter")

// RemoteHandler forwards socket messages into the running program and
// waits for the update loop to apply them. send is usually
// (*tea.Program).Send.
func RemoteHandler(send func(tea.Msg)) ipc.Handler {
	return func(msg ipc.Message) error {
		reply := make(chan error, 1)
		send(remoteMsg{msg: msg, reply: reply})
		timer := time.NewTimer(remoteTimeout)
		defer timer.Stop()
		select {
		case err := <-reply:
			return err
		case <-timer.C:
			return ErrRemoteTimeout
		}
	}
}
