package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetMultiline reads lines until an empty one and joins them with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}
	lines, err := readLines(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetList reads up to max non-empty items, one per line, ending on an empty
// line. Surrounding spaces are trimmed.
func GetList(reader *bufio.Reader, prompt string, max int, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprintf(w, "%s (up to %d, empty line to finish)\n", prompt, max); err != nil {
		return nil, err
	}
	lines, err := readLines(reader)
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			items = append(items, l)
		}
	}
	if len(items) > max {
		return nil, fmt.Errorf("at most %d items, got %d", max, len(items))
	}
	return items, nil
}

// GetChoice reads a line and checks it against options. An empty answer
// picks def when def is not empty.
func GetChoice(reader *bufio.Reader, prompt string, options []string, def string, w io.Writer) (string, error) {
	p := fmt.Sprintf("%s [%s]", prompt, strings.Join(options, "/"))
	if def != "" {
		p += fmt.Sprintf(" (default %s)", def)
	}
	answer, err := GetSimpleText(reader, p, w)
	if err != nil {
		return "", err
	}
	answer = strings.ToLower(answer)
	if answer == "" && def != "" {
		return def, nil
	}
	for _, o := range options {
		if answer == o {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown choice %q", answer)
}

// readLines reads until an empty line or EOF. CR/LF are stripped.
func readLines(reader *bufio.Reader) ([]string, error) {
	lines := make([]string, 0)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return lines, nil
		}
		lines = append(lines, line)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, nil
			}
			return nil, err
		}
	}
}
