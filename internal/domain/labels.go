package domain

// classLabels maps the upstream model's integer class IDs to display names.
// Fixed at build time; indexes match the model's label encoding.
var classLabels = []string{
	0: "theft",
	1: "vehicle theft",
	2: "robbery",
	3: "burglary",
	4: "assault",
	5: "vandalism",
	6: "drug offense",
	7: "homicide",
}

// LabelForClass looks up the display name for a class ID. The second return
// value is false when the ID is outside the table, in which case callers fall
// back to the record's own crime_type.
func LabelForClass(classID int) (string, bool) {
	if classID < 0 || classID >= len(classLabels) {
		return "", false
	}
	return classLabels[classID], true
}
