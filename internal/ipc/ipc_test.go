package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestKindWireNames(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		text, err := kind.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", kind, err)
		}
		var parsed Kind
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if parsed != kind {
			t.Fatalf("wire name %q decoded to %v, want %v", text, parsed, kind)
		}
	}
	if len(Kinds()) != 11 {
		t.Fatalf("expected 11 kinds, got %d", len(Kinds()))
	}
	if _, err := ParseKind("open-teleprompter"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unknown name should wrap ErrUnknownKind, got %v", err)
	}
}

func TestMessageJSONUsesWireNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Message{Kind: KindScroll, Direction: DirectionDown})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(data); got != `{"kind":"scroll","direction":"down"}` {
		t.Fatalf("unexpected encoding %s", got)
	}

	var decoded Message
	if err := json.Unmarshal([]byte(`{"kind":"adjust-speed","delta":-0.5}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Message{Kind: KindAdjustSpeed, Delta: -0.5}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		msg  Message
		ok   bool
	}{
		{name: "toggle", msg: Message{Kind: KindToggleScroll}, ok: true},
		{name: "speed", msg: Message{Kind: KindAdjustSpeed, Delta: 0.1}, ok: true},
		{name: "speed without delta", msg: Message{Kind: KindAdjustSpeed}},
		{name: "font", msg: Message{Kind: KindAdjustFont, Delta: -1}, ok: true},
		{name: "scroll up", msg: Message{Kind: KindScroll, Direction: DirectionUp}, ok: true},
		{name: "scroll sideways", msg: Message{Kind: KindScroll, Direction: "left"}},
		{name: "window size", msg: Message{Kind: KindUpdateWindowSize, Width: 800, Height: 600}, ok: true},
		{name: "window size zero", msg: Message{Kind: KindUpdateWindowSize, Width: 800}},
		{name: "empty set-text", msg: Message{Kind: KindSetText}, ok: true},
		{name: "zero kind", msg: Message{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("Validate() = nil, want error")
			}
		})
	}
}

func TestLoopbackDeliversValidMessages(t *testing.T) {
	t.Parallel()

	var got []Message
	loop := NewLoopback(func(msg Message) error {
		got = append(got, msg)
		return nil
	})
	ctx := context.Background()
	if err := loop.Send(ctx, Message{Kind: KindGoBack}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := loop.Send(ctx, Message{Kind: KindScroll}); err == nil {
		t.Fatal("invalid message should be rejected before the handler")
	}
	if diff := cmp.Diff([]Message{{Kind: KindGoBack}}, got); diff != "" {
		t.Fatalf("delivered mismatch (-want +got):\n%s", diff)
	}
}

func socketPath(t *testing.T) string {
	t.Helper()
	// Unix socket paths are length limited; t.TempDir can be too deep.
	dir, err := os.MkdirTemp("", "tp")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func TestServerRoundTrip(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []Message
	)
	server, err := Listen(socketPath(t), func(msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		if msg.Kind == KindOpenEditor {
			return errors.New("no editor")
		}
		got = append(got, msg)
		return nil
	})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go server.Serve()
	t.Cleanup(func() { server.Close() })

	client := NewClient(server.Addr())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sent := []Message{
		{Kind: KindSetText, Content: "# Hello\n\nworld"},
		{Kind: KindAdjustSpeed, Delta: 0.5},
		{Kind: KindScroll, Direction: DirectionUp},
	}
	for _, msg := range sent {
		if err := client.Send(ctx, msg); err != nil {
			t.Fatalf("send %s: %v", msg.Kind, err)
		}
	}
	err = client.Send(ctx, Message{Kind: KindOpenEditor})
	if err == nil || !strings.Contains(err.Error(), "no editor") {
		t.Fatalf("handler error should reach the client, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff(sent, got); diff != "" {
		t.Fatalf("server received mismatch (-want +got):\n%s", diff)
	}
}

func TestServerRejectsMalformedLines(t *testing.T) {
	t.Parallel()

	server, err := Listen(socketPath(t), func(Message) error { return nil })
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go server.Serve()
	t.Cleanup(func() { server.Close() })

	conn, err := net.Dial("unix", server.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("{\"kind\":\"warp-speed\"}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp reply
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if resp.OK || !strings.Contains(resp.Error, "unknown message kind") {
		t.Fatalf("unexpected reply %+v", resp)
	}
}

func TestListenReplacesStaleSocket(t *testing.T) {
	t.Parallel()

	path := socketPath(t)
	first, err := Listen(path, func(Message) error { return nil })
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if _, err := Listen(path, func(Message) error { return nil }); err == nil {
		t.Fatal("second listener on a live socket should fail")
	}

	// Simulate a crash: leave the socket file behind without a listener.
	first.listener.(*net.UnixListener).SetUnlinkOnClose(false)
	first.Close()

	second, err := Listen(path, func(Message) error { return nil })
	if err != nil {
		t.Fatalf("listen over stale socket: %v", err)
	}
	second.Close()
}

func TestClientDialFailure(t *testing.T) {
	t.Parallel()

	client := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Send(context.Background(), Message{Kind: KindToggleScroll}); err == nil {
		t.Fatal("expected dial error")
	}
}
