package output

import (
	"encoding/json"
	"io"

	"github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

func WriteJSON(w io.Writer, r *scans.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
