package client

// CommandType is the fixed set of commands the panel accepts
type CommandType string

const (
	// CmdArm arms the system
	CmdArm CommandType = "ARM"
	// CmdDisarm disarms the system
	CmdDisarm CommandType = "DISARM"
)

// Command is sent to the panel server when the user arms or disarms
type Command struct {
	Cmd CommandType `json:"cmd"`
	Pin string      `json:"pin"`
}

// StatusMessage is the state pushed by the panel server. Zones are true
// when the zone is open or faulted.
type StatusMessage struct {
	State string
	Entry float64
	Zones []bool
}

// statusFrame is the wire shape, pointers tell missing fields apart
type statusFrame struct {
	State *string       `json:"state"`
	Entry *float64      `json:"entry"`
	Zones *[]zoneStatus `json:"zones"`
}
