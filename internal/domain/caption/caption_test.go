package caption

import "testing"

func TestDerive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		filename string
		wantText string
		wantSkip bool
	}{
		{
			name:     "underscore suffix",
			filename: "Northern-Canada_1.mp4",
			wantText: "Northern Canada",
			wantSkip: false,
		},
		{
			name:     "underscore suffix with marker",
			filename: "Northern-Canada_1NoStable.mp4",
			wantText: "Northern Canada",
			wantSkip: true,
		},
		{
			name:     "parenthesized suffix",
			filename: "Another-Spot (4).mp4",
			wantText: "Another Spot",
			wantSkip: false,
		},
		{
			name:     "parenthesized suffix with marker",
			filename: "Some-Place (4NoStable).mp4",
			wantText: "Some Place",
			wantSkip: true,
		},
		{
			name:     "bare name",
			filename: "Waterfall.mp4",
			wantText: "Waterfall",
			wantSkip: false,
		},
		{
			name:     "bare name with dashes",
			filename: "Baja-Coast-Drive.mp4",
			wantText: "Baja Coast Drive",
			wantSkip: false,
		},
		{
			name:     "underscore wins over parenthesis",
			filename: "Ridge-Line_2 (old).mp4",
			wantText: "Ridge Line",
			wantSkip: false,
		},
		{
			name:     "marker is case-insensitive",
			filename: "Pier_3nostable.mp4",
			wantText: "Pier",
			wantSkip: true,
		},
		{
			name:     "marker in parenthesis with underscore caption",
			filename: "Dunes_4 (NoStable).mp4",
			wantText: "Dunes",
			wantSkip: true,
		},
		{
			name:     "full path input",
			filename: "/footage/batch/Northern-Canada_1.mp4",
			wantText: "Northern Canada",
			wantSkip: false,
		},
		{
			name:     "marker before any separator does not trigger",
			filename: "NoStable-Ride.mp4",
			wantText: "NoStable Ride",
			wantSkip: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			text, skip := Derive(tc.filename)
			if text != tc.wantText {
				t.Fatalf("caption text = %q, want %q", text, tc.wantText)
			}
			if skip != tc.wantSkip {
				t.Fatalf("skipStabilization = %v, want %v", skip, tc.wantSkip)
			}
		})
	}
}
