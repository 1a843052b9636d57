package display

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/chartparse/errors"
)

// ShouldOutputJSON determines if a command should output JSON based on flags
// and the CHARTPARSE_JSON environment variable
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return envJSON()
	}

	// Check if --json flag was explicitly set on the command
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// Check global --json flag
	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return envJSON()
}

func envJSON() bool {
	switch os.Getenv("CHARTPARSE_JSON") {
	case "1", "true", "yes":
		return true
	}
	return false
}

// OutputJSON marshals and prints JSON using display.MarshalJSON
func OutputJSON(v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	fmt.Println(string(data))
	return nil
}
