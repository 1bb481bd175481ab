package domain

// Topic is a submission category with its own field schema.
type Topic struct {
	ID       int64
	EventID  int64
	URLCode  string
	CardCode string
	Title    string
	Order    int

	Sections    []Section
	Submissions []*Submission
}

// Fields returns the fields of all sections in section order, then field order.
func (t *Topic) Fields() []Field {
	var fields []Field
	for _, s := range t.Sections {
		fields = append(fields, s.Fields...)
	}
	return fields
}

type Section struct {
	ID      int64
	TopicID int64
	Title   string
	Order   int
	Fields  []Field
}

type Field struct {
	ID        int64
	TopicID   int64
	SectionID int64
	Title     string
	Order     int
	Type      ValueType
}
