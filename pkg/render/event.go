package render

// EventKind is the type of a drawing event.
type EventKind string

// Constants for the drawing events emitted by the Recorder.
const (
	EventCreateCanvas EventKind = "canvas.create"
	EventDrawBar      EventKind = "bar.draw"
	EventUpdateBar    EventKind = "bar.update"
	EventClearClass   EventKind = "class.clear"
	EventDrawText     EventKind = "text.draw"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Event describes one geometry change. Only the fields relevant to Kind are set.
type Event struct {
	Seq     uint64    `json:"seq"               msgpack:"seq"     codec:"seq"`
	Kind    EventKind `json:"kind"              msgpack:"kind"    codec:"kind"`
	Canvas  CanvasID  `json:"canvas"            msgpack:"canvas"  codec:"canvas"`
	Bar     BarID     `json:"bar,omitempty"     msgpack:"bar"     codec:"bar"`
	Class   string    `json:"class,omitempty"   msgpack:"class"   codec:"class"`
	X       float64   `json:"x"                 msgpack:"x"       codec:"x"`
	Y       float64   `json:"y"                 msgpack:"y"       codec:"y"`
	Width   float64   `json:"width"             msgpack:"width"   codec:"width"`
	Height  float64   `json:"height"            msgpack:"height"  codec:"height"`
	Fill    string    `json:"fill,omitempty"    msgpack:"fill"    codec:"fill"`
	Opacity float64   `json:"opacity,omitempty" msgpack:"opacity" codec:"opacity"`
	Text    string    `json:"text,omitempty"    msgpack:"text"    codec:"text"`
}

// Sink receives published events, in order.
type Sink interface {
	Publish(ev Event)
}

// SinkFunc is an adapter to use a plain function as a Sink.
type SinkFunc func(ev Event)

// Publish calls f(ev).
func (f SinkFunc) Publish(ev Event) {
	f(ev)
}
