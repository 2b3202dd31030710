package models

// Group is a grupos row with grade and label resolved from the schema.
type Group struct {
	ID    int64  `json:"id"`
	Grade string `json:"grado"`
	Label string `json:"grupo"`
}

// GroupCatalog lists groups plus the distinct values used by filters.
type GroupCatalog struct {
	Groups       []Group  `json:"grupos"`
	GradeOptions []string `json:"grados"`
	LabelOptions []string `json:"etiquetas"`
}
