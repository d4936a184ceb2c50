package render

import (
	"sync"
)

// Recorder is the Adapter used by the core. It allocates handles synchronously and publishes one
// Event per call to every sink, stamped with a monotonically increasing sequence number.
type Recorder struct {
	mu      sync.Mutex
	seq     uint64
	nextBar BarID
	bars    map[BarID]barOwner
	sinks   []Sink
}

type barOwner struct {
	canvas CanvasID
	class  string
}

// NewRecorder returns a Recorder publishing to sinks.
func NewRecorder(sinks ...Sink) *Recorder {
	return &Recorder{
		bars:  make(map[BarID]barOwner),
		sinks: sinks,
	}
}

// Subscribe adds a sink. Events published before the call are not replayed.
func (r *Recorder) Subscribe(sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sinks = append(r.sinks, sink)
}

// Seq returns the sequence number of the last published event.
func (r *Recorder) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.seq
}

// CreateCanvas implements Adapter.
func (r *Recorder) CreateCanvas(id string, width, height int) CanvasID {
	r.mu.Lock()
	defer r.mu.Unlock()

	canvas := CanvasID(id)

	for bar, owner := range r.bars {
		if owner.canvas == canvas {
			delete(r.bars, bar)
		}
	}

	r.publish(Event{Kind: EventCreateCanvas, Canvas: canvas, Width: float64(width), Height: float64(height)})

	return canvas
}

// DrawBar implements Adapter.
func (r *Recorder) DrawBar(canvas CanvasID, class string, x, y, width, height float64, fill string, opacity float64) BarID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextBar++
	bar := r.nextBar
	r.bars[bar] = barOwner{canvas: canvas, class: class}

	r.publish(Event{
		Kind:    EventDrawBar,
		Canvas:  canvas,
		Bar:     bar,
		Class:   class,
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Fill:    fill,
		Opacity: opacity,
	})

	return bar
}

// UpdateBar implements Adapter. Updates of unknown or cleared bars are dropped.
func (r *Recorder) UpdateBar(bar BarID, y, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.bars[bar]
	if !ok {
		return
	}

	r.publish(Event{Kind: EventUpdateBar, Canvas: owner.canvas, Bar: bar, Y: y, Height: height})
}

// ClearByClass implements Adapter. Handles of the removed bars become invalid.
func (r *Recorder) ClearByClass(canvas CanvasID, class string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for bar, owner := range r.bars {
		if owner.canvas == canvas && owner.class == class {
			delete(r.bars, bar)
		}
	}

	r.publish(Event{Kind: EventClearClass, Canvas: canvas, Class: class})
}

// Bars returns the number of live bar handles.
func (r *Recorder) Bars() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.bars)
}

// DrawText implements Adapter.
func (r *Recorder) DrawText(canvas CanvasID, text string, x, y float64, color string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.publish(Event{Kind: EventDrawText, Canvas: canvas, Text: text, X: x, Y: y, Fill: color})
}

// publish must be called with r.mu held, so sinks observe events in sequence order.
func (r *Recorder) publish(ev Event) {
	r.seq++
	ev.Seq = r.seq

	for _, sink := range r.sinks {
		sink.Publish(ev)
	}
}
