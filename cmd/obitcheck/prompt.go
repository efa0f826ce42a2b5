package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// promptAppend asks whether existing output files should be appended to or
// overwritten. Without a terminal it answers append, so cron and pipeline
// invocations never destroy earlier output.
func promptAppend(in io.Reader, out io.Writer) (bool, error) {
	if !isInteractive(in) {
		return true, nil
	}
	fmt.Fprint(out, "Output files already exist. Append to them? [Y/n] ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return true, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func isInteractive(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
