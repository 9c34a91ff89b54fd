package section

const (
	// Marker starts every encoded stream.
	Marker = "π"

	headerTerminator = '@'
	fieldSeparator   = '&'
	recordTerminator = ';'

	// maxFieldDigits bounds start and length fields; 18 digits always fit in an int64.
	maxFieldDigits = 18
)
