package domain

// Summary counts records per status and per interaction type.
type Summary struct {
	Total    int
	ByStatus map[Status]int
	ByType   map[InteractionType]int
}

func Summarize(records []Record) Summary {
	s := Summary{
		Total:    len(records),
		ByStatus: make(map[Status]int, len(statuses)),
		ByType:   make(map[InteractionType]int, len(interactionTypes)),
	}
	for _, r := range records {
		s.ByStatus[r.Status]++
		s.ByType[r.Type]++
	}
	return s
}
