package audio

import "testing"

func TestSelectLoopback(t *testing.T) {
	speakers := Device{ID: "a1", Name: "Speakers", Default: true}
	headset := Device{ID: "b2", Name: "Headset"}

	tests := []struct {
		name      string
		outputs   []Device
		loopbacks []Device
		want      string
		ok        bool
	}{
		{
			name:      "no loopbacks",
			outputs:   []Device{speakers},
			loopbacks: nil,
			ok:        false,
		},
		{
			name:      "id match wins",
			outputs:   []Device{headset, speakers},
			loopbacks: []Device{{ID: "b2", Name: "Headset"}, {ID: "a1", Name: "Speakers"}},
			want:      "a1",
			ok:        true,
		},
		{
			name:      "name match",
			outputs:   []Device{speakers},
			loopbacks: []Device{{ID: "m1", Name: "Monitor of Headset"}, {ID: "m2", Name: "Monitor of Speakers"}},
			want:      "m2",
			ok:        true,
		},
		{
			name:      "name match ignores case",
			outputs:   []Device{{ID: "o1", Name: "Speakers (Realtek Audio)", Default: true}},
			loopbacks: []Device{{ID: "h", Name: "HDMI loopback"}, {ID: "r", Name: "speakers (realtek audio) loopback"}},
			want:      "r",
			ok:        true,
		},
		{
			name:      "first loopback",
			outputs:   []Device{speakers},
			loopbacks: []Device{{ID: "x", Name: "Stereo Mix"}, {ID: "y", Name: "Other"}},
			want:      "x",
			ok:        true,
		},
		{
			name:      "no outputs",
			outputs:   nil,
			loopbacks: []Device{{ID: "x", Name: "Stereo Mix"}},
			want:      "x",
			ok:        true,
		},
		{
			name:      "first output when none default",
			outputs:   []Device{{ID: "b2", Name: "Headset"}, {ID: "a1", Name: "Speakers"}},
			loopbacks: []Device{{ID: "a1"}, {ID: "b2"}},
			want:      "b2",
			ok:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectLoopback(tt.outputs, tt.loopbacks)
			if ok != tt.ok {
				t.Fatalf("SelectLoopback() ok = %v, want %v", ok, tt.ok)
			}
			if got.ID != tt.want {
				t.Errorf("SelectLoopback() = %q, want %q", got.ID, tt.want)
			}
		})
	}
}
