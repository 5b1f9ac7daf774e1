package nlp

import "fmt"

// Extractor locates a JSON object inside free-form model output. It is an
// interface so the extraction strategy can be swapped and tested
// independently of the network call.
type Extractor interface {
	Extract(text string) (string, error)
}

// BraceExtractor returns the first balanced {...} substring, tolerating
// surrounding prose and markdown code fences. Braces inside JSON strings are
// skipped so values like "a}b" don't truncate the scan.
type BraceExtractor struct{}

func (BraceExtractor) Extract(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}
	return "", fmt.Errorf("no JSON object found in model output")
}
