package commands

import (
	"fmt"
	"io"

	eventService "github.com/allisson/webhooks/internal/event/service"
)

// RunListEventTypes prints the subscribable event types, core types first.
func RunListEventTypes(catalog eventService.EventTypeCatalog, writer io.Writer, format string) error {
	types := catalog.List()

	if format == "json" {
		return writeJSON(writer, map[string]any{"data": types})
	}

	for _, info := range types {
		if _, err := fmt.Fprintf(writer, "%-24s %-10s %s\n", info.Type, info.Source, info.Description); err != nil {
			return err
		}
	}
	return nil
}
