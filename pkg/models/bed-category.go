package models

// The remote system reports beds in four fixed categories. Each remote
// category code maps to a short label used throughout the local schema.
const (
	BedCategoryDormitory   = "ML"  // shared dormitory (Massenlager)
	BedCategoryMultiBed    = "MBZ" // multi-bed room
	BedCategoryTwoBed      = "ZBZ" // two-bed room
	BedCategorySpecial     = "SO"  // special/overflow berths
	bedCategoryCodeUnknown = ""
)

// BedCategoryLabels maps the remote system's numeric category codes to
// their short labels. Codes outside this map are not persisted.
var BedCategoryLabels = map[int]string{
	1: BedCategoryDormitory,
	2: BedCategoryMultiBed,
	3: BedCategoryTwoBed,
	4: BedCategorySpecial,
}

// BedCategoryLabel resolves a remote category code. The second return
// value is false for unrecognized codes.
func BedCategoryLabel(code int) (string, bool) {
	label, ok := BedCategoryLabels[code]
	if !ok {
		return bedCategoryCodeUnknown, false
	}
	return label, true
}
