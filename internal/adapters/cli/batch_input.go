package cli

import (
	"io"
	"os"

	"github.com/devbush/tubescribe/internal/domain"
)

// ParseInputFile reads a file containing URLs, one per line.
// Blank lines and lines starting with # are ignored.
func ParseInputFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return domain.ParseURLList(file)
}

// CollectInputs combines CLI arguments and file input, args first.
// A file path of "-" reads the list from stdin. Duplicates are kept:
// every occurrence becomes its own task.
func CollectInputs(args []string, filePath string, stdin io.Reader) ([]string, error) {
	urls := make([]string, 0, len(args))
	urls = append(urls, args...)

	switch filePath {
	case "":
	case "-":
		fileURLs, err := domain.ParseURLList(stdin)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fileURLs...)
	default:
		fileURLs, err := ParseInputFile(filePath)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fileURLs...)
	}

	return urls, nil
}
