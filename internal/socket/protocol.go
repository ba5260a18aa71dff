package socket

// Message represents a command sent to the running tua instance
type Message struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
	Author  string `json:"author,omitempty"`

	// ResponseChan is set by the server for synchronous commands; the
	// handler must send exactly one response on it
	ResponseChan chan *Response `json:"-"`
}

// RegionCounts is the payload of a region_count response
type RegionCounts struct {
	Total   int `json:"total"`
	Visible int `json:"visible"`
	Hidden  int `json:"hidden"`
}

// Response represents the response from the server
type Response struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *RegionCounts `json:"data,omitempty"`
}

// Command types
const (
	CommandAddComment  = "add_comment"
	CommandRegionCount = "region_count"
)

// IsSync reports whether the client waits for the handler's response
func IsSync(command string) bool {
	return command == CommandRegionCount
}
