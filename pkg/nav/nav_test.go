package nav

import "testing"

func TestInitialState(t *testing.T) {
	var s State
	if s.Active() != Chat || !s.ComposerVisible() || s.SidebarOpen() {
		t.Fatalf("unexpected initial state %+v", s)
	}
}

func TestShowClosesSidebarAndTogglesComposer(t *testing.T) {
	var s State
	for _, v := range Views {
		s.ToggleSidebar()
		s.Show(v)
		if s.SidebarOpen() {
			t.Fatalf("%s: expected sidebar closed", v)
		}
		visible := 0
		for _, other := range Views {
			if s.Visible(other) {
				visible++
			}
		}
		if visible != 1 || !s.Visible(v) {
			t.Fatalf("%s: expected exactly one visible view", v)
		}
		if s.ComposerVisible() != (v == Chat) {
			t.Fatalf("%s: unexpected composer visibility", v)
		}
	}
}

func TestNextPrevWrap(t *testing.T) {
	var s State
	s.Prev()
	if s.Active() != Settings {
		t.Fatalf("expected settings, got %s", s.Active())
	}
	s.Next()
	if s.Active() != Chat {
		t.Fatalf("expected chat, got %s", s.Active())
	}
}

func TestParseView(t *testing.T) {
	v, err := ParseView(" Journal ")
	if err != nil || v != Journal {
		t.Fatalf("unexpected %v %v", v, err)
	}
	if _, err := ParseView("home"); err == nil {
		t.Fatalf("expected error")
	}
}
