package core

// findBestMatch scans the pool for the candidate with the most overlapping
// interests, excluding excludeID, treating "random" as matching only
// another "random" declaration. Ties break by
// pool order, which the hub keeps FIFO by appending entries to the
// waitingPool in JoinedAtNano order — so replacing the running best only on a strictly greater
// common count naturally keeps the earliest-joined, equally-good candidate.
func findBestMatch(candidate []string, excludeID string, pool *waitingPool) (*waitingEntry, bool) {
	candidateSet := toSet(candidate)
	candidateRandom := candidateSet[randomTag]

	var best *waitingEntry
	bestCommon := -1

	entries := pool.iter()
	for i := range entries {
		entry := &entries[i]
		if entry.ClientID == excludeID {
			continue
		}

		common := 0
		entryRandom := false
		for _, tag := range entry.Interests {
			if tag == randomTag {
				entryRandom = true
			}
			if candidateSet[tag] {
				common++
			}
		}

		bothRandom := candidateRandom && entryRandom
		if common == 0 && !bothRandom {
			continue
		}

		if common > bestCommon {
			bestCommon = common
			best = entry
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

func toSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
