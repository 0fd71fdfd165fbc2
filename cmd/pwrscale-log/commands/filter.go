package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

// RunFilter copies events matching filter from path into a new trace file
// at output and reports how many were written.
func RunFilter(path, output string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output trace: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
		count++
	}

	if n := logger.Dropped(); n > 0 {
		return fmt.Errorf("failed to write %d of %d events", n, count)
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, output)
	return nil
}
