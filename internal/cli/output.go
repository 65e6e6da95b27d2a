package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// jsonOutput reports whether the JSON output format is selected.
func jsonOutput() bool {
	return cfg != nil && cfg.Output.DefaultFormat == "json"
}

// writeJSON encodes the value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// out writes formatted output.
func out(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// outln writes a line of output.
func outln(w io.Writer, args ...any) {
	_, _ = fmt.Fprintln(w, args...)
}

// printError renders an error, including its suggestion when present.
func printError(w io.Writer, err error) {
	if jsonOutput() {
		payload := map[string]string{
			"error": err.Error(),
			"code":  wardenerr.Code(err),
		}
		var werr *wardenerr.WardenError
		if errors.As(err, &werr) && werr.Suggestion != "" {
			payload["suggestion"] = werr.Suggestion
		}
		_ = writeJSON(w, payload)
		return
	}

	out(w, "Error: %s\n", err.Error())
	var werr *wardenerr.WardenError
	if errors.As(err, &werr) && werr.Suggestion != "" {
		out(w, "Hint: %s\n", werr.Suggestion)
	}
}
