package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type seedPair struct {
	Key   string
	Value string
}

// parseSeedFile extracts the [data] section of an INI-style seed file. Every
// line in that section is a literal "key = value" pair: values are taken
// verbatim after trimming surrounding whitespace, with no unquoting, so
// pre-computed password hashes survive untouched.
func parseSeedFile(path string) ([]seedPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return parseSeedData(f)
}

func parseSeedData(r io.Reader) ([]seedPair, error) {
	scanner := bufio.NewScanner(r)
	var (
		pairs  []seedPair
		inData bool
		lineNo int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section := strings.TrimSpace(line[1 : len(line)-1])
			inData = strings.EqualFold(section, "data")
			continue
		}
		if !inData {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected key = value", lineNo)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}
		pairs = append(pairs, seedPair{Key: key, Value: strings.TrimSpace(value)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return pairs, nil
}
