package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContentDiffers(t *testing.T) {
	if IDFromContent("alpha") == IDFromContent("beta") {
		t.Error("IDFromContent() produced identical IDs for different content")
	}
}

func TestStatementLocation(t *testing.T) {
	stmt := &Statement{Text: "x", SourceFile: "docs/spec.md", LineNumber: 42}
	if got := stmt.Location(); got != "docs/spec.md:42" {
		t.Errorf("Location() = %q, want %q", got, "docs/spec.md:42")
	}
}

func TestClusterResultIndices(t *testing.T) {
	cr := &ClusterResult{Labels: []int{0, 1, 0, NoiseLabel, 1, 0}}

	tests := []struct {
		name      string
		clusterID int
		want      []int
	}{
		{name: "cluster 0", clusterID: 0, want: []int{0, 2, 5}},
		{name: "cluster 1", clusterID: 1, want: []int{1, 4}},
		{name: "noise", clusterID: NoiseLabel, want: []int{3}},
		{name: "absent cluster", clusterID: 7, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cr.ClusterIndices(tt.clusterID)
			if len(got) != len(tt.want) {
				t.Fatalf("ClusterIndices(%d) = %v, want %v", tt.clusterID, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ClusterIndices(%d)[%d] = %d, want %d", tt.clusterID, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestClusterResultSizes(t *testing.T) {
	cr := &ClusterResult{Labels: []int{0, 1, 0, NoiseLabel, 1, 0}}
	sizes := cr.ClusterSizes()

	if sizes[0] != 3 || sizes[1] != 2 || sizes[NoiseLabel] != 1 {
		t.Errorf("ClusterSizes() = %v", sizes)
	}
}

func TestNewSimilarPairOrdering(t *testing.T) {
	p := NewSimilarPair(5, 2, 0.9)
	if p.IndexA != 2 || p.IndexB != 5 {
		t.Errorf("NewSimilarPair(5, 2) = (%d, %d), want indices in ascending order", p.IndexA, p.IndexB)
	}
}

func TestSortedFileSet(t *testing.T) {
	files := map[string]struct{}{"c.md": {}, "a.md": {}, "b.md": {}}
	got := SortedFileSet(files)
	want := []string{"a.md", "b.md", "c.md"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedFileSet() = %v, want %v", got, want)
		}
	}
}
