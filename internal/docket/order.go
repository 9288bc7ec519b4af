package docket

import "sort"

// Sort orders records ascending by explicit insertion order (absent sorts
// last), then insertion timestamp (absent sorts last), then scan position.
// This is the ordering the reconciler and the composite builder depend on;
// it is stable and fully deterministic because scan positions are unique.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]

		ao, bo := a.InsertionOrder, b.InsertionOrder
		switch {
		case ao != nil && bo == nil:
			return true
		case ao == nil && bo != nil:
			return false
		case ao != nil && bo != nil && *ao != *bo:
			return *ao < *bo
		}

		at, bt := a.InsertionTime, b.InsertionTime
		switch {
		case at != nil && bt == nil:
			return true
		case at == nil && bt != nil:
			return false
		case at != nil && bt != nil && !at.Equal(*bt):
			return at.Before(*bt)
		}

		return a.ScanPosition < b.ScanPosition
	})
}

// IDs projects the ordered record list to its id sequence.
func IDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}
