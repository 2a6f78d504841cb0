package core

import "testing"

func TestInputFrameActions(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Error("new frame should be empty")
	}

	f.Set(ActionRotate)
	if !f.Has(ActionRotate) || f.Has(ActionFlip) {
		t.Error("Has should report only set actions")
	}

	var zero InputFrame
	if zero.Has(ActionGrab) {
		t.Error("zero frame should have no actions")
	}
	zero.Set(ActionGrab)
	if !zero.Has(ActionGrab) {
		t.Error("Set should allocate on a zero frame")
	}
}

func TestInputFramePointer(t *testing.T) {
	f := NewInputFrame()
	f.AddPointer(PointerEvent{X: 3, Y: 4, Button: ButtonLeft, Kind: PointerPress})
	f.AddPointer(PointerEvent{X: 5, Y: 4, Button: ButtonLeft, Kind: PointerRelease})

	if f.Empty() {
		t.Fatal("pointer events alone make a frame non-empty")
	}
	if len(f.Pointer) != 2 || f.Pointer[1].Kind != PointerRelease {
		t.Errorf("pointer events should keep arrival order, got %+v", f.Pointer)
	}

	f.Clear()
	if !f.Empty() {
		t.Error("Clear should drop actions and pointer events")
	}
}

func TestActionString(t *testing.T) {
	if ActionFlip.String() != "Flip" {
		t.Errorf("unexpected name %q", ActionFlip.String())
	}
	if Action(99).String() != "Unknown" {
		t.Error("unknown actions should be named Unknown")
	}
}
