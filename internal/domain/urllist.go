package domain

import (
	"bufio"
	"io"
	"strings"
)

// ParseURLList reads one source URL per line. Blank lines and lines
// starting with # are skipped. Entries are kept in order and are not
// deduplicated: a URL listed twice is processed twice.
func ParseURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
