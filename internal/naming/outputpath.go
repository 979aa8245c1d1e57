package naming

import "path/filepath"

// DestinationPath returns input's path after renaming its stem to newStem.
// The directory and extension are kept.
//
//	/docs/Invoice March 2015.pdf + "2015 03 Invoice" → /docs/2015 03 Invoice.pdf
func DestinationPath(input, newStem string) string {
	_, ext := SplitStem(filepath.Base(input))
	return filepath.Join(filepath.Dir(input), newStem+ext)
}
