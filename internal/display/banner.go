package display

import (
	"fmt"
	"io"

	"github.com/backmassage/datestamp/internal/term"
)

// PrintBanner writes the ASCII art banner, colored when colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Paint(term.Banner, `     _       _            _                          
  __| | __ _| |_ ___  ___| |_ __ _ _ __ ___  _ __  
 / _`+"`"+` |/ _`+"`"+` | __/ _ \/ __| __/ _`+"`"+` | '_ `+"`"+` _ \| '_ \ 
| (_| | (_| | ||  __/\__ \ || (_| | | | | | | |_) |
 \__,_|\__,_|\__\___||___/\__\__,_|_| |_| |_| .__/ 
                                            |_|    
`))
	fmt.Fprintf(w, "datestamp v%s\n\n", version)
}
