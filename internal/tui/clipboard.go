package tui

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// cleanClipboardText drops rich-text markup and control characters and
// normalizes line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return normalized
}

// singleLine folds a pasted block into one row, since every editable field is
// a single line.
func singleLine(text string) string {
	text = strings.ReplaceAll(text, "\t", " ")
	return strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")
}

func stripRTF(text string) string {
	if !strings.HasPrefix(text, "{\\rtf") {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '{' || r == '}' {
			continue
		}
		if r == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			switch {
			case (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z'):
				i++
				for i < len(runes) && runes[i] != ' ' && runes[i] != '\\' && runes[i] != '{' && runes[i] != '}' {
					i++
				}
				if i < len(runes) && runes[i] != ' ' {
					i--
				}
			case next == '\\' || next == '{' || next == '}':
				result.WriteRune(next)
				i++
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
