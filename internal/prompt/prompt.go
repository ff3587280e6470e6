// Package prompt asks the user which mission to score.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoMissions is returned when there is nothing to choose from.
var ErrNoMissions = errors.New("no missions found")

// Select lists names on out and reads an index from in. Invalid input is
// reported and asked again until in is exhausted.
func Select(in io.Reader, out io.Writer, names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoMissions
	}

	fmt.Fprintln(out, "Type the number of the mission you want to score:")
	for i, name := range names {
		fmt.Fprintf(out, "[%d]: %s\n", i, name)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("error reading selection: %w", err)
			}
			return "", io.ErrUnexpectedEOF
		}

		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || n < 0 || n >= len(names) {
			fmt.Fprintf(out, "Enter a number between 0 and %d\n", len(names)-1)
			continue
		}
		return names[n], nil
	}
}

// WaitForEnter prints message and blocks until a line (or EOF) is read.
func WaitForEnter(in io.Reader, out io.Writer, message string) {
	fmt.Fprint(out, message)
	_, _ = bufio.NewReader(in).ReadString('\n')
}
