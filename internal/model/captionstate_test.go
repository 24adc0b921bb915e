package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCaptionState_MarshalOmitsUnknown(t *testing.T) {
	v := Video{
		VideoID:       "vid-1",
		VideoTitle:    "Title",
		PublishedTime: "01-02-2025",
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "captions_available") {
		t.Fatalf("expected unknown caption state to be omitted, got %s", data)
	}
}

func TestCaptionState_RoundTripsKnownStates(t *testing.T) {
	cases := []struct {
		state CaptionState
		want  string
	}{
		{CaptionsEnabled, `"captions_available":true`},
		{CaptionsDisabled, `"captions_available":false`},
	}
	for _, tc := range cases {
		v := Video{VideoID: "vid-1", CaptionsAvailable: tc.state}
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), tc.want) {
			t.Fatalf("expected %s in %s", tc.want, data)
		}

		var back Video
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatal(err)
		}
		if back.CaptionsAvailable != tc.state {
			t.Fatalf("expected state %v after round trip, got %v", tc.state, back.CaptionsAvailable)
		}
	}
}

func TestCaptionState_UnmarshalRejectsNonBool(t *testing.T) {
	var v Video
	err := json.Unmarshal([]byte(`{"video_id":"x","captions_available":"yes"}`), &v)
	if err == nil {
		t.Fatal("expected error for non-boolean captions_available")
	}
}

func TestVideo_DoneRules(t *testing.T) {
	cases := []struct {
		name  string
		video Video
		done  bool
	}{
		{"primary fetched", Video{FetchedPrimary: true}, true},
		{"secondary fetched with captions disabled", Video{CaptionsAvailable: CaptionsDisabled, FetchedSecondary: true}, true},
		{"secondary fetched but availability unknown", Video{FetchedSecondary: true}, false},
		{"secondary fetched but captions enabled", Video{CaptionsAvailable: CaptionsEnabled, FetchedSecondary: true}, false},
		{"nothing fetched", Video{}, false},
	}
	for _, tc := range cases {
		if got := tc.video.Done(); got != tc.done {
			t.Fatalf("%s: expected Done()=%v, got %v", tc.name, tc.done, got)
		}
	}
}
