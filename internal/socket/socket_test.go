package socket

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	// unix socket paths are short; keep the directory name small
	dir, err := os.MkdirTemp("", "tua")
	if err != nil {
		t.Fatalf("Failed to create socket dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	server, err := NewServerIn(dir, os.Getpid())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(server.Stop)
	server.Start()
	return server, dir
}

func newClient(t *testing.T, server *Server) *Client {
	t.Helper()
	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestSendAddComment(t *testing.T) {
	server, _ := startServer(t)
	client := newClient(t, server)

	response, err := client.SendAddComment("Box is too wide", "bob")
	if err != nil {
		t.Fatalf("Failed to send add_comment: %v", err)
	}
	if !response.Success {
		t.Errorf("Expected success=true, got success=false: %s", response.Message)
	}

	select {
	case msg := <-server.Messages():
		if msg.Command != CommandAddComment {
			t.Errorf("Expected command=%s, got command=%s", CommandAddComment, msg.Command)
		}
		if msg.Text != "Box is too wide" || msg.Author != "bob" {
			t.Errorf("Unexpected message: %+v", msg)
		}
		if msg.ResponseChan != nil {
			t.Error("add_comment is asynchronous and must not carry a response channel")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestRegionCountIsSynchronous(t *testing.T) {
	server, _ := startServer(t)
	client := newClient(t, server)

	go func() {
		msg := <-server.Messages()
		if msg.ResponseChan == nil {
			return
		}
		msg.ResponseChan <- &Response{Success: true, Data: &RegionCounts{Total: 3, Visible: 2, Hidden: 1}}
	}()

	counts, err := client.RegionCount()
	if err != nil {
		t.Fatalf("RegionCount failed: %v", err)
	}
	if *counts != (RegionCounts{Total: 3, Visible: 2, Hidden: 1}) {
		t.Errorf("Unexpected counts: %+v", counts)
	}
}

func TestInvalidMessages(t *testing.T) {
	server, _ := startServer(t)
	client := newClient(t, server)

	tests := []struct {
		name string
		msg  Message
	}{
		{"missing command", Message{}},
		{"unknown command", Message{Command: "add_node"}},
		{"comment without text", Message{Command: CommandAddComment}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := client.Send(tt.msg)
			if err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			if response.Success {
				t.Errorf("Expected failure for %+v", tt.msg)
			}
		})
	}

	select {
	case msg := <-server.Messages():
		t.Errorf("Invalid message reached the app: %+v", msg)
	default:
	}
}

func TestFindRunningInstance(t *testing.T) {
	server, dir := startServer(t)

	socketPath, foundPid, err := FindRunningInstanceIn(dir)
	if err != nil {
		t.Fatalf("Failed to find running instance: %v", err)
	}
	if socketPath != server.SocketPath() {
		t.Errorf("Expected socketPath=%s, got socketPath=%s", server.SocketPath(), socketPath)
	}
	if foundPid != os.Getpid() {
		t.Errorf("Expected pid=%d, got pid=%d", os.Getpid(), foundPid)
	}
	if filepath.Base(socketPath) != SocketName(os.Getpid()) {
		t.Errorf("Unexpected socket name %s", filepath.Base(socketPath))
	}
}

func TestFindRunningInstanceNone(t *testing.T) {
	if _, _, err := FindRunningInstanceIn(t.TempDir()); err == nil {
		t.Fatal("Expected an error for an empty socket directory")
	}
}
