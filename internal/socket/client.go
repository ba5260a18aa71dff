package socket

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client represents a Unix socket client for sending commands
type Client struct {
	socketPath string
	timeout    time.Duration
}

// FindRunningInstance finds the socket of a running tua instance in the
// default socket directory
func FindRunningInstance() (string, int, error) {
	return FindRunningInstanceIn(SocketDir())
}

// FindRunningInstanceIn returns the newest socket in socketDir and the pid
// encoded in its name (0 when it cannot be parsed)
func FindRunningInstanceIn(socketDir string) (string, int, error) {
	var sockets []string
	err := filepath.WalkDir(socketDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), "tua-") && strings.HasSuffix(d.Name(), ".sock") {
			sockets = append(sockets, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	if len(sockets) == 0 {
		return "", 0, fmt.Errorf("no running tua instance found")
	}

	socketPath := sockets[0]
	if len(sockets) > 1 {
		var newestTime time.Time
		socketPath = ""
		for _, sock := range sockets {
			info, err := os.Stat(sock)
			if err != nil {
				continue
			}
			if info.ModTime().After(newestTime) {
				newestTime = info.ModTime()
				socketPath = sock
			}
		}
		if socketPath == "" {
			return "", 0, fmt.Errorf("no accessible socket found")
		}
	}

	pidStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(socketPath), "tua-"), ".sock")
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0
	}

	return socketPath, pid, nil
}

// NewClient creates a new client connected to the specified socket
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}

	return &Client{
		socketPath: socketPath,
		timeout:    SyncTimeout + 5*time.Second,
	}, nil
}

// Send sends a message to the server and returns the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}

	return &response, nil
}

// SendAddComment queues a comment on the annotation of the running instance
func (c *Client) SendAddComment(text, author string) (*Response, error) {
	return c.Send(Message{
		Command: CommandAddComment,
		Text:    text,
		Author:  author,
	})
}

// RegionCount asks the running instance for its region counts
func (c *Client) RegionCount() (*RegionCounts, error) {
	response, err := c.Send(Message{Command: CommandRegionCount})
	if err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("region_count failed: %s", response.Message)
	}
	if response.Data == nil {
		return nil, fmt.Errorf("region_count returned no data")
	}
	return response.Data, nil
}
