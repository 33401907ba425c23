package date

import (
	"testing"
	"time"
)

func TestHistoryAppendKeepsOrder(t *testing.T) {
	var h History[float64]
	h.Append(New(2025, time.January, 3), 3)
	h.Append(New(2025, time.January, 1), 1)
	h.Append(New(2025, time.January, 2), 2)

	want := []float64{1, 2, 3}
	got := h.Slice()
	if len(got) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHistoryAppendReplacesDuplicateDay(t *testing.T) {
	var h History[float64]
	day := New(2025, time.January, 1)
	h.Append(day, 1).Append(day, 2)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if v, ok := h.Get(day); !ok || v != 2 {
		t.Errorf("Get() = %v, %v, want 2, true", v, ok)
	}
}

func TestHistoryValueAsOf(t *testing.T) {
	var h History[float64]
	h.Append(New(2025, time.January, 10), 10)
	h.Append(New(2025, time.January, 20), 20)

	testCases := []struct {
		day    Date
		want   float64
		wantOK bool
	}{
		{day: New(2025, time.January, 9), wantOK: false},
		{day: New(2025, time.January, 10), want: 10, wantOK: true},
		{day: New(2025, time.January, 15), want: 10, wantOK: true},
		{day: New(2025, time.January, 25), want: 20, wantOK: true},
	}
	for _, tc := range testCases {
		got, ok := h.ValueAsOf(tc.day)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ValueAsOf(%v) = %v, %v, want %v, %v", tc.day, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestHistoryLatest(t *testing.T) {
	var h History[float64]
	if day, v := h.Latest(); !day.IsZero() || v != 0 {
		t.Errorf("Latest() on empty = %v, %v, want zero values", day, v)
	}
	h.Append(New(2025, time.January, 1), 1)
	h.Append(New(2025, time.January, 5), 5)
	day, v := h.Latest()
	if !day.Equal(New(2025, time.January, 5)) || v != 5 {
		t.Errorf("Latest() = %v, %v, want 2025-01-05, 5", day, v)
	}
}
