package layout

// Classify assigns every node in the snapshot exactly one classification.
//
// A node is an anchor when its id is in the anchor set, related when any link
// (in either direction) connects it to an anchor, and other otherwise. Link
// direction never affects the result, only endpoint membership. An empty
// anchor set classifies every node as other.
func Classify(snapshot *Snapshot) map[string]Classification {
	result := make(map[string]Classification, len(snapshot.Nodes))

	anchors := make(map[string]bool, len(snapshot.AnchorIDs))
	for _, id := range snapshot.AnchorIDs {
		anchors[id] = true
	}

	related := make(map[string]bool)
	for _, link := range snapshot.Links {
		if anchors[link.SourceID] {
			related[link.TargetID] = true
		}
		if anchors[link.TargetID] {
			related[link.SourceID] = true
		}
	}

	for _, node := range snapshot.Nodes {
		switch {
		case anchors[node.ID]:
			result[node.ID] = ClassAnchor
		case related[node.ID]:
			result[node.ID] = ClassRelated
		default:
			result[node.ID] = ClassOther
		}
	}

	return result
}
