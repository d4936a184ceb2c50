package render

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/sampledist/internal/sentinel"
)

func newPipeline(journalSize int) (*Recorder, *Scene, *Journal) {
	scene := NewScene()
	journal := NewJournal(journalSize)

	return NewRecorder(scene, journal), scene, journal
}

func TestRecorder_SequencesAndHandles(t *testing.T) {
	rec, scene, journal := newPipeline(16)

	c := rec.CreateCanvas("pop-graph", 800, 200)
	assert.Equal(t, CanvasID("pop-graph"), c)

	a := rec.DrawBar(c, "bars", 0, 190, 1, 10, "steelblue", 1)
	b := rec.DrawBar(c, "bars", 1, 180, 1, 20, "steelblue", 1)
	assert.True(t, a != b)

	rec.UpdateBar(a, 150, 50)
	rec.UpdateBar(BarID(999), 0, 0)

	assert.Equal(t, uint64(4), rec.Seq())
	assert.Equal(t, uint64(4), scene.Seq())
	assert.Equal(t, 4, journal.Len())

	snap, err := scene.Canvas(c)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(snap.Bars))
	assert.Equal(t, 150.0, snap.Bars[0].Y)
	assert.Equal(t, 50.0, snap.Bars[0].Height)
}

func TestScene_ClearByClassAndText(t *testing.T) {
	rec, scene, _ := newPipeline(16)

	c := rec.CreateCanvas("sdm-graph", 800, 200)
	rec.DrawBar(c, "bars", 0, 0, 1, 1, "green", 1)
	m1 := rec.DrawBar(c, "animatedMean", 10, 190, 11, 10, "red", 1)
	rec.DrawBar(c, "animatedMean", 20, 190, 11, 10, "red", 1)
	assert.Equal(t, 3, rec.Bars())

	rec.ClearByClass(c, "animatedMean")
	assert.Equal(t, 1, rec.Bars())

	// updates of cleared bars are dropped
	seq := rec.Seq()
	rec.UpdateBar(m1, 0, 200)
	assert.Equal(t, seq, rec.Seq())

	rec.DrawText(c, "Sample statistics: mean = 1 sd = 2", 20, 50, "#ff8c00")
	rec.DrawText(c, "Sample statistics: mean = 3 sd = 4", 20, 50, "#ff8c00")
	rec.DrawText(c, "other", 20, 70, "black")

	snap, err := scene.Canvas(c)
	assert.Nil(t, err)
	assert.Equal(t, 0, snap.Count("animatedMean"))
	assert.Equal(t, 1, snap.Count("bars"))
	assert.Equal(t, 2, len(snap.Texts))
	assert.Equal(t, "Sample statistics: mean = 3 sd = 4", snap.Texts[0].Text)

	_, err = scene.Canvas("missing")
	if !errors.Is(err, sentinel.ErrCanvasNotFound) {
		t.Fatalf("expected ErrCanvasNotFound, got %v", err)
	}
}

func TestScene_RecreateCanvasClearsIt(t *testing.T) {
	rec, scene, _ := newPipeline(16)

	c := rec.CreateCanvas("pop-graph", 800, 200)
	rec.DrawBar(c, "bars", 0, 0, 1, 1, "green", 1)
	rec.CreateCanvas("pop-graph", 400, 100)
	rec.CreateCanvas("sdm-graph", 400, 100)

	snaps := scene.Snapshot()
	assert.Equal(t, 2, len(snaps))
	assert.Equal(t, CanvasID("pop-graph"), snaps[0].ID)
	assert.Equal(t, 400, snaps[0].Width)
	assert.Equal(t, 0, len(snaps[0].Bars))
	assert.Equal(t, 0, rec.Bars())
}

func TestJournal_SinceAndTruncation(t *testing.T) {
	rec, _, journal := newPipeline(4)

	c := rec.CreateCanvas("pop-graph", 10, 10)
	for range 5 {
		rec.DrawBar(c, "bars", 0, 0, 1, 1, "red", 1)
	}

	// 6 events, only 3..6 retained
	events, truncated := journal.Since(0)
	assert.True(t, truncated)
	assert.Equal(t, 4, len(events))
	assert.Equal(t, uint64(3), events[0].Seq)
	assert.Equal(t, uint64(6), events[3].Seq)

	events, truncated = journal.Since(4)
	assert.False(t, truncated)
	assert.Equal(t, 2, len(events))

	events, _ = journal.Since(6)
	assert.Equal(t, 0, len(events))
}

func TestJournal_Wait(t *testing.T) {
	rec, _, journal := newPipeline(8)
	c := rec.CreateCanvas("pop-graph", 10, 10)

	go func() {
		time.Sleep(20 * time.Millisecond)
		rec.DrawBar(c, "bars", 0, 0, 1, 1, "red", 1)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events, _, err := journal.Wait(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(events))
	assert.Equal(t, EventDrawBar, events[0].Kind)

	short, cancelShort := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelShort()

	_, _, err = journal.Wait(short, 2)
	if !errors.Is(err, sentinel.ErrTimeoutOrCanceled) {
		t.Fatalf("expected ErrTimeoutOrCanceled, got %v", err)
	}
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, color.RGBA{255, 140, 0, 255}, ParseColor("#ff8c00"))
	assert.Equal(t, color.RGBA{255, 255, 0, 255}, ParseColor("#ff0"))
	assert.Equal(t, color.RGBA{70, 130, 180, 255}, ParseColor("SteelBlue"))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, ParseColor("#zzzzzz"))
}

func TestRasterize(t *testing.T) {
	snap := CanvasSnapshot{
		ID:     "pop-graph",
		Width:  20,
		Height: 10,
		Bars: []Bar{
			{X: 2, Y: 5, Width: 3, Height: 5, Fill: "red", Opacity: 1},
			{X: 10, Y: 0, Width: 3, Height: 0, Fill: "red", Opacity: 1},
		},
	}

	img := Rasterize(snap)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(3, 7))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(3, 2))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(11, 5))

	var buf bytes.Buffer
	assert.Nil(t, EncodePNG(&buf, snap))

	decoded, err := png.Decode(&buf)
	assert.Nil(t, err)
	assert.Equal(t, 20, decoded.Bounds().Dx())
}
