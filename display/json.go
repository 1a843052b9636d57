package display

import (
	"encoding/json"
	"os"
)

// MarshalJSON marshals JSON with pretty formatting for humans, or compact
// formatting when CHARTPARSE_JSON_COMPACT is set (for piping into tools)
func MarshalJSON(v interface{}) ([]byte, error) {
	if os.Getenv("CHARTPARSE_JSON_COMPACT") != "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
