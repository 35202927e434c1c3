package layout

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		expected map[string]Classification
	}{
		{
			name: "anchor with one linked neighbor",
			snapshot: Snapshot{
				Nodes: []SnapshotNode{
					{ID: "A"}, {ID: "B"}, {ID: "C"},
				},
				Links:     []SnapshotLink{{SourceID: "A", TargetID: "B", Weight: 0.8}},
				AnchorIDs: []string{"A"},
			},
			expected: map[string]Classification{
				"A": ClassAnchor,
				"B": ClassRelated,
				"C": ClassOther,
			},
		},
		{
			name: "link direction does not matter",
			snapshot: Snapshot{
				Nodes: []SnapshotNode{
					{ID: "A"}, {ID: "B"},
				},
				Links:     []SnapshotLink{{SourceID: "B", TargetID: "A", Weight: 0.5}},
				AnchorIDs: []string{"A"},
			},
			expected: map[string]Classification{
				"A": ClassAnchor,
				"B": ClassRelated,
			},
		},
		{
			name: "empty anchor set classifies everything other",
			snapshot: Snapshot{
				Nodes: []SnapshotNode{
					{ID: "A"}, {ID: "B"},
				},
				Links: []SnapshotLink{{SourceID: "A", TargetID: "B", Weight: 1}},
			},
			expected: map[string]Classification{
				"A": ClassOther,
				"B": ClassOther,
			},
		},
		{
			name: "anchor beats related",
			snapshot: Snapshot{
				Nodes: []SnapshotNode{
					{ID: "A"}, {ID: "B"},
				},
				Links:     []SnapshotLink{{SourceID: "A", TargetID: "B", Weight: 1}},
				AnchorIDs: []string{"A", "B"},
			},
			expected: map[string]Classification{
				"A": ClassAnchor,
				"B": ClassAnchor,
			},
		},
		{
			name: "link between non-anchors stays other",
			snapshot: Snapshot{
				Nodes: []SnapshotNode{
					{ID: "A"}, {ID: "B"}, {ID: "C"},
				},
				Links:     []SnapshotLink{{SourceID: "B", TargetID: "C", Weight: 0.9}},
				AnchorIDs: []string{"A"},
			},
			expected: map[string]Classification{
				"A": ClassAnchor,
				"B": ClassOther,
				"C": ClassOther,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(&tt.snapshot)
			if len(result) != len(tt.expected) {
				t.Fatalf("Classify() returned %d entries, want %d", len(result), len(tt.expected))
			}
			for id, want := range tt.expected {
				if got := result[id]; got != want {
					t.Errorf("Classify()[%q] = %q, want %q", id, got, want)
				}
			}
		})
	}
}

func TestRadiusFor(t *testing.T) {
	if got := RadiusFor(ClassAnchor); got != 30 {
		t.Errorf("RadiusFor(anchor) = %v, want 30", got)
	}
	if got := RadiusFor(ClassRelated); got != 20 {
		t.Errorf("RadiusFor(related) = %v, want 20", got)
	}
	if got := RadiusFor(ClassOther); got != 10 {
		t.Errorf("RadiusFor(other) = %v, want 10", got)
	}
}
