package domain

import "testing"

func TestReport_CountChanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report Report
		want   int
	}{
		{
			name:   "should return zero for empty report",
			report: Report{},
			want:   0,
		},
		{
			name: "should count only changed files",
			report: Report{
				Files: []FileResult{
					{Path: "a/FooTest.java", Status: FileStatusChanged},
					{Path: "a/BarTest.java", Status: FileStatusUnchanged},
					{Path: "a/BazTest.java", Status: FileStatusChanged},
					{Path: "a/QuxTest.java", Status: FileStatusFailed},
				},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.report.CountChanged(); got != tt.want {
				t.Errorf("CountChanged() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReport_TotalStat(t *testing.T) {
	report := Report{
		Files: []FileResult{
			{Stat: DiffStat{Added: 2, Changed: 1, Deleted: 3}},
			{Stat: DiffStat{Added: 1}},
		},
	}

	want := DiffStat{Added: 3, Changed: 1, Deleted: 3}
	if got := report.TotalStat(); got != want {
		t.Errorf("TotalStat() = %+v, want %+v", got, want)
	}
}
