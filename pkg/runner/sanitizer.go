package runner

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxInputSize bounds a single user message in bytes.
	DefaultMaxInputSize = 4096

	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "WALKTHROUGH_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// escapeSequence matches CSI (colours, cursor moves) and OSC (titles,
// hyperlinks) terminal sequences as a whole, so no "[31m" residue is left.
var escapeSequence = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// SanitizeInput is the policy every surface applies to free text before it
// reaches the transcript. Oversized or malformed input is rejected, never
// truncated. Terminal escape sequences and control characters other than
// newline and tab are removed, and CRLF line endings become LF.
func SanitizeInput(input string) (string, error) {
	if limit := MaxInputSize(); len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.ContainsRune(input, '\x1b') {
		input = escapeSequence.ReplaceAllString(input, "")
	}
	input = strings.ReplaceAll(input, "\r\n", "\n")

	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, input), nil
}

// MaxInputSize returns the active limit.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
