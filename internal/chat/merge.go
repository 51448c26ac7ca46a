package chat

import "sort"

// MergeMessages folds pushed messages into an existing list, deduplicating by
// message id. The realtime feed can redeliver a message the client already
// fetched over HTTP; merging must not duplicate it.
func MergeMessages(existing []Message, incoming ...Message) []Message {
	seen := make(map[uint]bool, len(existing))
	for _, m := range existing {
		seen[m.ID] = true
	}

	merged := existing
	added := false
	for _, m := range incoming {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		merged = append(merged, m)
		added = true
	}

	if added {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].CreatedAt.Before(merged[j].CreatedAt)
		})
	}
	return merged
}
