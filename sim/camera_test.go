package sim

import (
	"bytes"
	"testing"
)

// TestRenderFrameDeterministic validates that rendering the same scene
// twice yields identical bytes, the property pixel-exact assertions
// depend on.
func TestRenderFrameDeterministic(t *testing.T) {
	w := NewWorld("determinism")
	box := NewVisual("box::link::visual", RectAround(0, 0, 10, 10), 0.5,
		Color{R: 255}, false)
	if err := w.Scene().AddVisual(box); err != nil {
		t.Fatalf("AddVisual() failed: %v", err)
	}

	cam, err := w.SpawnCamera("camera_model", "camera_sensor", 0, 0, 32, 24)
	if err != nil {
		t.Fatalf("SpawnCamera() failed: %v", err)
	}

	var a, b []byte
	conn := cam.ConnectNewFrame(func(data []byte, width, height, depth int) {
		if a == nil {
			a = append([]byte(nil), data...)
		} else if b == nil {
			b = append([]byte(nil), data...)
		}
	})

	w.Step()
	w.Step()
	conn.Close()

	if a == nil || b == nil {
		t.Fatal("expected two delivered frames")
	}
	if !bytes.Equal(a, b) {
		t.Error("same scene rendered different bytes")
	}

	// The box fills the 32x24 footprint at the default scale: every
	// pixel is pure red.
	for i := 0; i < len(a); i += 3 {
		if a[i] != 255 || a[i+1] != 0 || a[i+2] != 0 {
			t.Fatalf("pixel %d = (%d,%d,%d), want (255,0,0)", i/3, a[i], a[i+1], a[i+2])
		}
	}
}

// TestRenderFrameGeometry validates the delivered buffer matches the
// camera geometry and the stats advance per render.
func TestRenderFrameGeometry(t *testing.T) {
	w := NewWorld("geometry")
	cam, err := w.SpawnCamera("m", "s", 0, 0, 20, 10)
	if err != nil {
		t.Fatalf("SpawnCamera() failed: %v", err)
	}

	var gotLen, gotW, gotH, gotD int
	conn := cam.ConnectNewFrame(func(data []byte, width, height, depth int) {
		gotLen, gotW, gotH, gotD = len(data), width, height, depth
	})
	defer conn.Close()

	w.Step()

	if gotW != 20 || gotH != 10 || gotD != 3 {
		t.Errorf("delivered geometry %dx%dx%d, want 20x10x3", gotW, gotH, gotD)
	}
	if gotLen != 20*10*3 {
		t.Errorf("delivered %d bytes, want %d", gotLen, 20*10*3)
	}

	stats := cam.Stats()
	if stats.Frames != 1 {
		t.Errorf("Frames = %d, want 1", stats.Frames)
	}
	if stats.LastTraceID == "" {
		t.Error("LastTraceID empty after render")
	}
}

// TestSpawnCameraValidation covers the fail-fast spawn checks.
func TestSpawnCameraValidation(t *testing.T) {
	w := NewWorld("validation")

	if _, err := w.SpawnCamera("m", "", 0, 0, 10, 10); err == nil {
		t.Error("empty sensor name accepted")
	}
	if _, err := w.SpawnCamera("m", "s", 0, 0, 0, 10); err == nil {
		t.Error("zero width accepted")
	}
	if _, err := w.SpawnCamera("m", "s", 0, 0, 10, 10); err != nil {
		t.Fatalf("SpawnCamera() failed: %v", err)
	}
	if _, err := w.SpawnCamera("m2", "s", 1, 1, 10, 10); err == nil {
		t.Error("duplicate sensor name accepted")
	}

	if cam, ok := w.CameraBySensor("s"); !ok || cam.Sensor() != "s" {
		t.Error("CameraBySensor failed to resolve spawned camera")
	}
}
