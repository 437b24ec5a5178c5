package planner

// Classify groups items by their Status. An item whose Status matches no
// column falls back to the first column; its stored Status is left alone.
// Every column gets an entry, possibly empty.
func Classify(items []Item, columns []Column) map[string][]Item {
	out := make(map[string][]Item, len(columns))
	if len(columns) == 0 {
		return out
	}
	for _, c := range columns {
		out[c.ID] = []Item{}
	}
	first := columns[0].ID
	for _, it := range items {
		key := it.Status
		if _, ok := out[key]; !ok {
			key = first
		}
		out[key] = append(out[key], it)
	}
	return out
}
