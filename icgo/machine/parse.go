package machine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseProgram reads a comma separated list of base 10 integers. The list may
// be split across lines; lines are joined before splitting.
func ParseProgram(r io.Reader) (Program, error) {
	var sb strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		sb.WriteString(strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	src := strings.TrimSuffix(sb.String(), ",")
	if src == "" {
		return nil, fmt.Errorf("empty program")
	}
	fields := strings.Split(src, ",")
	out := make(Program, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid word %d (%q): %w", i, f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadProgram parses the program stored at path.
func LoadProgram(path string) (Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program %q: %w", path, err)
	}
	defer f.Close()
	p, err := ParseProgram(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program %q: %w", path, err)
	}
	return p, nil
}

// MustParse parses a program literal, panicking on malformed input.
func MustParse(src string) Program {
	p, err := ParseProgram(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return p
}
