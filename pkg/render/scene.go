package render

import (
	"slices"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/sentinel"
)

// Bar is the retained state of a drawn bar.
type Bar struct {
	ID      BarID   `json:"id"      msgpack:"id"      codec:"id"`
	Class   string  `json:"class"   msgpack:"class"   codec:"class"`
	X       float64 `json:"x"       msgpack:"x"       codec:"x"`
	Y       float64 `json:"y"       msgpack:"y"       codec:"y"`
	Width   float64 `json:"width"   msgpack:"width"   codec:"width"`
	Height  float64 `json:"height"  msgpack:"height"  codec:"height"`
	Fill    string  `json:"fill"    msgpack:"fill"    codec:"fill"`
	Opacity float64 `json:"opacity" msgpack:"opacity" codec:"opacity"`
}

// Text is a line of text drawn on a canvas.
type Text struct {
	Text  string  `json:"text"  msgpack:"text"  codec:"text"`
	X     float64 `json:"x"     msgpack:"x"     codec:"x"`
	Y     float64 `json:"y"     msgpack:"y"     codec:"y"`
	Color string  `json:"color" msgpack:"color" codec:"color"`
}

// CanvasSnapshot is a copy of a canvas, bars in drawing order.
type CanvasSnapshot struct {
	ID     CanvasID `json:"id"     msgpack:"id"     codec:"id"`
	Width  int      `json:"width"  msgpack:"width"  codec:"width"`
	Height int      `json:"height" msgpack:"height" codec:"height"`
	Bars   []Bar    `json:"bars"   msgpack:"bars"   codec:"bars"`
	Texts  []Text   `json:"texts"  msgpack:"texts"  codec:"texts"`
}

type canvas struct {
	width, height int
	bars          map[BarID]*Bar
	order         []BarID
	texts         []Text
}

// Scene is a Sink keeping the current picture of every canvas. It is safe for concurrent use.
type Scene struct {
	mu       sync.RWMutex
	canvases map[CanvasID]*canvas
	order    []CanvasID
	seq      uint64
}

// NewScene returns an empty Scene.
func NewScene() *Scene {
	return &Scene{canvases: make(map[CanvasID]*canvas)}
}

// Publish implements Sink.
func (s *Scene) Publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq = ev.Seq

	if ev.Kind == EventCreateCanvas {
		if _, ok := s.canvases[ev.Canvas]; !ok {
			s.order = append(s.order, ev.Canvas)
		}

		s.canvases[ev.Canvas] = &canvas{
			width:  int(ev.Width),
			height: int(ev.Height),
			bars:   make(map[BarID]*Bar),
		}

		return
	}

	c, ok := s.canvases[ev.Canvas]
	if !ok {
		return
	}

	switch ev.Kind {
	case EventDrawBar:
		c.bars[ev.Bar] = &Bar{
			ID:      ev.Bar,
			Class:   ev.Class,
			X:       ev.X,
			Y:       ev.Y,
			Width:   ev.Width,
			Height:  ev.Height,
			Fill:    ev.Fill,
			Opacity: ev.Opacity,
		}
		c.order = append(c.order, ev.Bar)
	case EventUpdateBar:
		if bar, found := c.bars[ev.Bar]; found {
			bar.Y = ev.Y
			bar.Height = ev.Height
		}
	case EventClearClass:
		c.order = slices.DeleteFunc(c.order, func(id BarID) bool {
			if c.bars[id].Class != ev.Class {
				return false
			}

			delete(c.bars, id)

			return true
		})
	case EventDrawText:
		t := Text{Text: ev.Text, X: ev.X, Y: ev.Y, Color: ev.Fill}

		i := slices.IndexFunc(c.texts, func(prev Text) bool { return prev.X == t.X && prev.Y == t.Y })
		if i >= 0 {
			c.texts[i] = t
		} else {
			c.texts = append(c.texts, t)
		}
	}
}

// Seq returns the sequence number of the last applied event.
func (s *Scene) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.seq
}

// Canvas returns a snapshot of one canvas.
func (s *Scene) Canvas(id CanvasID) (CanvasSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.canvases[id]
	if !ok {
		return CanvasSnapshot{}, ewrap.Wrap(sentinel.ErrCanvasNotFound, string(id))
	}

	return c.snapshot(id), nil
}

// Snapshot returns every canvas in creation order.
func (s *Scene) Snapshot() []CanvasSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CanvasSnapshot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.canvases[id].snapshot(id))
	}

	return out
}

func (c *canvas) snapshot(id CanvasID) CanvasSnapshot {
	snap := CanvasSnapshot{
		ID:     id,
		Width:  c.width,
		Height: c.height,
		Bars:   make([]Bar, 0, len(c.order)),
		Texts:  slices.Clone(c.texts),
	}

	for _, bar := range c.order {
		snap.Bars = append(snap.Bars, *c.bars[bar])
	}

	return snap
}

// Count returns the number of bars of a class on a canvas.
func (s CanvasSnapshot) Count(class string) int {
	n := 0

	for _, bar := range s.Bars {
		if bar.Class == class {
			n++
		}
	}

	return n
}
