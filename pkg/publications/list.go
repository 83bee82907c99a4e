package publications

// List is the ordered catalog. Methods never modify the receiver; mutating
// helpers return a new slice so a published snapshot stays stable.
type List []Record

// Clone returns a deep copy.
func (l List) Clone() List {
	if l == nil {
		return List{}
	}
	out := make(List, len(l))
	for i, r := range l {
		out[i] = r.Clone()
	}
	return out
}

// Index returns the position of id, or -1.
func (l List) Index(id int64) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the record with id.
func (l List) Find(id int64) (Record, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i].Clone(), true
	}
	return Record{}, false
}

// Prepend puts r first. Any record already holding r.ID is dropped.
func (l List) Prepend(r Record) List {
	out := make(List, 0, len(l)+1)
	out = append(out, r)
	for _, existing := range l {
		if existing.ID != r.ID {
			out = append(out, existing)
		}
	}
	return out
}

// Replace swaps the record at id's position for r, keeping order.
// Any other record already holding r.ID is dropped.
func (l List) Replace(id int64, r Record) List {
	out := make(List, 0, len(l))
	for _, existing := range l {
		switch {
		case existing.ID == id:
			out = append(out, r)
		case existing.ID == r.ID:
		default:
			out = append(out, existing)
		}
	}
	return out
}

// Remove drops the record with id.
func (l List) Remove(id int64) List {
	out := make(List, 0, len(l))
	for _, existing := range l {
		if existing.ID != id {
			out = append(out, existing)
		}
	}
	return out
}

// Dedupe keeps the first occurrence of each id and reports how many were dropped.
func (l List) Dedupe() (List, int) {
	seen := make(map[int64]struct{}, len(l))
	out := make(List, 0, len(l))
	for _, r := range l {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, len(l) - len(out)
}
