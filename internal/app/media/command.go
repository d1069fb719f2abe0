package media

// CommandType represents an instruction sent to a remote media element.
type CommandType int

const (
	CommandLoad CommandType = iota
	CommandUnload
	CommandPlay
	CommandPause
	CommandLoop
	CommandSeek
)

// String returns the string representation of the command type.
func (c CommandType) String() string {
	switch c {
	case CommandLoad:
		return "load"
	case CommandUnload:
		return "unload"
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandLoop:
		return "loop"
	case CommandSeek:
		return "seek"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c CommandType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Command is an instruction for the element living in the browser.
type Command struct {
	Type     CommandType `json:"command"`
	Src      string      `json:"src,omitempty"`
	Autoplay bool        `json:"autoplay,omitempty"`
	Loop     bool        `json:"loop"`
	Position int         `json:"position"`
}

// Snapshot describes the last known state of a remote element.
type Snapshot struct {
	Src      string `json:"src"`
	Loop     bool   `json:"loop"`
	Paused   bool   `json:"paused"`
	Position int    `json:"position"`
}
