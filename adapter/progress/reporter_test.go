package progress

import (
	"testing"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

type recordingSink struct {
	events []contractx.StatusEvent
}

func (s *recordingSink) Notify(event contractx.StatusEvent) {
	s.events = append(s.events, event)
}

func TestParseVerbosity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    Verbosity
		wantErr bool
	}{
		{"Off", VerbosityOff, false},
		{"Basic", VerbosityBasic, false},
		{"Full", VerbosityFull, false},
		{"", VerbosityOff, false},
		{"loud", "", true},
	}
	for _, tc := range cases {
		got, err := ParseVerbosity(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVerbosity(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseVerbosity(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestEmitForwardsOrderedEvents(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	reporter := NewReporter("ynab", sink, VerbosityOff)

	reporter.Emit("Determining which YNAB data to retrieve...", StatusInProgress, false, nil)
	reporter.Emit("Fetching YNAB account data...", StatusInProgress, false, nil)
	reporter.Emit("YNAB account data fetched successfully", StatusComplete, true, nil)

	if len(sink.events) != 3 {
		t.Fatalf("event count = %d, want 3", len(sink.events))
	}
	if sink.events[0].Description != "Determining which YNAB data to retrieve..." {
		t.Fatalf("first event = %+v", sink.events[0])
	}
	if sink.events[0].Done || sink.events[1].Done {
		t.Fatal("intermediate events must not be terminal")
	}
	if !sink.events[2].Done || sink.events[2].Status != StatusComplete {
		t.Fatalf("terminal event = %+v", sink.events[2])
	}

	for _, ev := range sink.events {
		if ev.RunID != reporter.RunID() {
			t.Fatalf("event run id = %q, want %q", ev.RunID, reporter.RunID())
		}
	}
}

func TestEmitWithoutSink(t *testing.T) {
	t.Parallel()

	reporter := NewReporter("actual", nil, VerbosityFull)
	// must not panic without an observer
	reporter.Emit("Opening Actual session...", StatusInProgress, false, nil)
	reporter.Dump("decision", map[string]string{"kind": "accounts"})
}
