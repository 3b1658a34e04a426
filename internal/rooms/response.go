package rooms

// Outbound is the envelope for every server-to-client event.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
