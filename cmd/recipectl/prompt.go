package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// terminalPrompter reads passwords without echo from a terminal, or one
// line per prompt when input is piped.
type terminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

func newTerminalPrompter(in *os.File, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *terminalPrompter) Prompt(label string) (string, error) {
	fd := int(p.in.Fd()) //nolint:gosec

	if !term.IsTerminal(fd) {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", fmt.Errorf("read line: %w", err)
		}

		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(p.out, label)

	password, err := term.ReadPassword(fd)

	fmt.Fprintln(p.out)

	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return string(password), nil
}
