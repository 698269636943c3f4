package timestamp

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampRoundTrip(t *testing.T) {
	in := Of(time.Date(2026, 10, 19, 8, 30, 15, 123000000, time.UTC))
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Timestamp
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Equal(in.Time) {
		t.Fatalf("expected %v, got %v", in, out)
	}
}

func TestTimestampAcceptsEpochMillis(t *testing.T) {
	var out Timestamp
	if err := json.Unmarshal([]byte(`1760860800000`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.UnixMilli() != 1760860800000 {
		t.Fatalf("unexpected millis %d", out.UnixMilli())
	}
}

func TestTimestampAcceptsClock(t *testing.T) {
	var out Timestamp
	if err := json.Unmarshal([]byte(`"14:05"`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Hour() != 14 || out.Minute() != 5 {
		t.Fatalf("unexpected clock %v", out)
	}
}

func TestParseTwelveHourClock(t *testing.T) {
	tests := []struct {
		in         string
		hour, mins int
	}{
		{"02:05 PM", 14, 5},
		{"2:05 pm", 14, 5},
		{"12:30 AM", 0, 30},
		{"11:59PM", 23, 59},
		{" 9:00 am ", 9, 0},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got.Hour() != tt.hour || got.Minute() != tt.mins {
			t.Fatalf("Parse(%q) = %02d:%02d, want %02d:%02d", tt.in, got.Hour(), got.Minute(), tt.hour, tt.mins)
		}
	}
	if _, err := Parse("13:05 PM"); err == nil {
		t.Fatalf("13:05 PM should not parse")
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var out Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &out); err == nil {
		t.Fatalf("expected error")
	}
	if err := json.Unmarshal([]byte(`{}`), &out); err == nil {
		t.Fatalf("expected error for object")
	}
}

func TestZeroMarshalsEmpty(t *testing.T) {
	b, err := json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `""` {
		t.Fatalf("expected empty string, got %s", b)
	}
}

func TestSameDay(t *testing.T) {
	a := Of(time.Date(2026, 10, 19, 0, 1, 0, 0, time.Local))
	if !a.SameDay(time.Date(2026, 10, 19, 23, 59, 0, 0, time.Local)) {
		t.Fatalf("expected same day")
	}
	if a.SameDay(time.Date(2026, 10, 18, 23, 59, 0, 0, time.Local)) {
		t.Fatalf("expected different day")
	}
}
