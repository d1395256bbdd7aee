// cmd/trackfusion/cmd/decode.go
package cmd

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"unicode"

	"github.com/kallerwest/trackfusion/plot"
	"github.com/spf13/cobra"
)

func init() {
	decodeCmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode an ASTERIX file into JSON plots",
		Long: `Read FILE (raw binary, or hex text) as one or more concatenated
ASTERIX data blocks and print the decoded plots as a JSON array.`,
		Args: cobra.ExactArgs(1),
		RunE: runDecode,
	}
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	logger := ConfigureLogger(Verbose, JSONLogs)

	cfg, err := loadConfig(logger)
	if err != nil {
		return exitError{code: 2, err: err}
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return exitError{code: 1, err: fmt.Errorf("reading %s: %w", args[0], err)}
	}
	payload, err := decodeFileBytes(raw)
	if err != nil {
		return exitError{code: 1, err: err}
	}

	decoder, err := plot.NewDecoder(cfg.Origin(), logger)
	if err != nil {
		return exitError{code: 1, err: fmt.Errorf("initializing plot decoder: %w", err)}
	}

	plots, err := decoder.Decode(payload)
	if err != nil {
		return exitError{code: 1, err: fmt.Errorf("decoding %s: %w", args[0], err)}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plots); err != nil {
		return exitError{code: 1, err: fmt.Errorf("encoding plots as JSON: %w", err)}
	}
	return nil
}

// decodeFileBytes accepts either raw binary content or a hex-text dump (one
// or more whitespace-separated hex runs), returning the underlying bytes.
func decodeFileBytes(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if looksLikeHex(trimmed) {
		clean := make([]byte, 0, len(trimmed))
		for _, b := range trimmed {
			if unicode.IsSpace(rune(b)) {
				continue
			}
			clean = append(clean, b)
		}
		decoded, err := hex.DecodeString(string(clean))
		if err != nil {
			return nil, fmt.Errorf("decoding hex input: %w", err)
		}
		return decoded, nil
	}
	return raw, nil
}

func looksLikeHex(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, b := range data {
		switch {
		case b >= '0' && b <= '9':
		case b >= 'a' && b <= 'f':
		case b >= 'A' && b <= 'F':
		case unicode.IsSpace(rune(b)):
		default:
			return false
		}
	}
	return true
}
