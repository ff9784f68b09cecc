package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/catalog"
)

// readIDsFile parses one product identifier per line, ignoring blank
// lines and '#' comments.
func readIDsFile(path string) ([]catalog.ProductID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ids file: %w", err)
	}
	defer f.Close()

	var ids []catalog.ProductID
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id := catalog.ProductID(line)
		if !id.Valid() {
			return nil, fmt.Errorf("invalid product id %q in %s", line, path)
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ids file: %w", err)
	}
	return ids, nil
}

// promptIDs collects identifiers interactively: one numeric id per
// line, "yes" to start. Anything else is rejected with a hint.
func promptIDs(in io.Reader, out io.Writer) []catalog.ProductID {
	fmt.Fprintln(out, "Enter product ids, type 'yes' to start downloading:")
	var ids []catalog.ProductID
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "yes" {
			break
		}
		id := catalog.ProductID(line)
		if !id.Valid() {
			fmt.Fprintln(out, "enter digits only, or 'yes' to start")
			continue
		}
		ids = append(ids, id)
		fmt.Fprintf(out, "added %s\n", id)
	}
	return ids
}
