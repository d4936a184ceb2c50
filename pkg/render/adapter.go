// Package render describes what the sampling demo draws without drawing it.
//
// The core talks to an Adapter. The Recorder implementation turns every call into an Event and
// hands it to its sinks: a Scene keeps the retained picture, a Journal keeps recent events for
// clients that poll, and Rasterize turns a Scene canvas into an image. Timing of transitions is
// left to whoever consumes the events.
package render

// CanvasID identifies a canvas.
type CanvasID string

// BarID identifies a bar. Bar ids are unique across canvases.
type BarID uint64

// Adapter is the narrow drawing interface consumed by the histograms and the session.
// Calls never block on rendering and never fail: geometry changes are fire and forget.
type Adapter interface {
	// CreateCanvas registers a canvas and returns its handle. Creating an existing id clears it.
	CreateCanvas(id string, width, height int) CanvasID
	// DrawBar adds a rectangle whose top-left corner is (x, y).
	DrawBar(canvas CanvasID, class string, x, y, width, height float64, fill string, opacity float64) BarID
	// UpdateBar moves the top of a bar and changes its height (animated by the consumer).
	UpdateBar(bar BarID, y, height float64)
	// ClearByClass removes every bar of a class from a canvas.
	ClearByClass(canvas CanvasID, class string)
	// DrawText writes a line of text anchored at (x, y). Text at the same anchor is replaced.
	DrawText(canvas CanvasID, text string, x, y float64, color string)
}
