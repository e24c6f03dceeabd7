// SPDX-License-Identifier: MPL-2.0

package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const (
	// Width is the terminal width help output is laid out for.
	Width   = 80
	indent  = 2
	padding = 3
)

// row is one entry of a two-column table.
type row struct {
	spec string
	desc string
}

// writeColumns prints rows as an indented two-column table. Descriptions
// are word wrapped to the space left of Width; continuation lines start at
// the description column. Rows without a description carry no trailing
// whitespace.
func writeColumns(w io.Writer, rows []row) error {
	specWidth := 0
	for _, r := range rows {
		specWidth = max(specWidth, len(r.spec))
	}
	descWidth := Width - specWidth - indent - padding - 1
	descWidth = max(descWidth, 1)
	lead := strings.Repeat(" ", indent)
	hang := strings.Repeat(" ", indent+specWidth+padding)

	for _, r := range rows {
		if r.desc == "" {
			if _, err := fmt.Fprintln(w, strings.TrimRight(lead+r.spec, " ")); err != nil {
				return err
			}
			continue
		}
		lines := strings.Split(wordwrap.WrapString(r.desc, uint(descWidth)), "\n")
		first := lead + r.spec + strings.Repeat(" ", specWidth-len(r.spec)+padding)
		if _, err := fmt.Fprintln(w, first+lines[0]); err != nil {
			return err
		}
		for _, line := range lines[1:] {
			if _, err := fmt.Fprintln(w, hang+line); err != nil {
				return err
			}
		}
	}
	return nil
}
