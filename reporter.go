// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package main

import (
	"fmt"
	"io"
	"strings"
)

// consoleReporter prints fatal errors as a framed message box.
type consoleReporter struct {
	out io.Writer
}

// ReportFatal implements frameloop.Reporter.
func (r consoleReporter) ReportFatal(title, message string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(r.out, "%s\n%s\n\n%s\n%s\n", rule, title, message, rule)
}
