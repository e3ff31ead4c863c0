package internal

const (
	Unclassified   = "Sin clasificar"
	AllDisciplines = "Todas"
	OtherCategory  = "Otros"
)

type InputKind string

const (
	InputCSV  InputKind = "csv"
	InputXLSX InputKind = "xlsx"
	InputIFC  InputKind = "ifc"
)

type Element struct {
	GUID             string
	Name             string
	Tag              string
	Discipline       string
	TypeName         string
	TypeGUID         string
	Operation        string
	ModelClass       string
	Category         string
	CustomProperties map[string]string
}

type ExtractReport struct {
	Source        InputKind
	Rows          int
	Extracted     int
	SkippedNoID   int
	SkippedNoTag  int
	SkippedBadTag int
}

type DisciplineCount struct {
	Discipline string
	Count      int
}

// ElementURL is the public page of a tag, as encoded in its QR label.
func ElementURL(baseURL, tag string) string {
	return baseURL + "/e/" + tag + "/"
}
