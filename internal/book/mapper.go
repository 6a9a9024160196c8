package book

// ToView converts a stored record to its wire representation.
func ToView(r Record) View {
	return View{
		ISBN:   r.ISBN,
		Title:  r.Title,
		Author: r.Author,
		Volume: r.Volume,
	}
}

// ToRecord converts a wire representation to a storable record.
func ToRecord(v View) Record {
	return Record{
		ISBN:   v.ISBN,
		Title:  v.Title,
		Author: v.Author,
		Volume: v.Volume,
	}
}

func toViews(records []Record) []View {
	out := make([]View, 0, len(records))
	for _, r := range records {
		out = append(out, ToView(r))
	}
	return out
}
