// Package autocomplete computes inline address-bar completions.
package autocomplete

import "strings"

// ComputeCompletionSuffix returns the suffix if input is a case-insensitive prefix of fullText.
// Returns the suffix and true if input matches as a prefix, otherwise empty string and false.
func ComputeCompletionSuffix(input, fullText string) (string, bool) {
	if input == "" || fullText == "" {
		return "", false
	}
	if !strings.HasPrefix(strings.ToLower(fullText), strings.ToLower(input)) {
		return "", false
	}

	// Keep the original case of the completion
	suffix := fullText[len(input):]
	return suffix, suffix != ""
}

// StripProtocol removes an http:// or https:// prefix.
func StripProtocol(url string) string {
	if rest, ok := strings.CutPrefix(url, "https://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(url, "http://"); ok {
		return rest
	}
	return url
}

// ComputeURLCompletionSuffix completes input against fullURL, ignoring the
// scheme and a leading "www." on either side.
func ComputeURLCompletionSuffix(input, fullURL string) (suffix, matchedURL string, ok bool) {
	if suffix, ok := ComputeCompletionSuffix(input, fullURL); ok {
		return suffix, fullURL, true
	}

	stripped := StripProtocol(fullURL)
	if suffix, ok := ComputeCompletionSuffix(input, stripped); ok {
		return suffix, stripped, true
	}

	inputNoWWW := strings.TrimPrefix(input, "www.")
	strippedNoWWW := strings.TrimPrefix(stripped, "www.")
	if suffix, ok := ComputeCompletionSuffix(inputNoWWW, strippedNoWWW); ok {
		if strings.HasPrefix(strings.ToLower(stripped), strings.ToLower(input)) {
			return stripped[len(input):], stripped, true
		}
		return suffix, strippedNoWWW, true
	}

	return "", "", false
}

// BestURLCompletion returns the first completion of input among urls,
// in order. Input without a slash completes to a host only, so typing a
// domain never drags in the path of the top-ranked visit.
func BestURLCompletion(input string, urls []string) (suffix, matchedURL string, ok bool) {
	if input == "" {
		return "", "", false
	}
	pathLike := strings.Contains(input, "/")

	for _, u := range urls {
		candidate := StripProtocol(u)
		if !pathLike {
			candidate = hostPart(candidate)
		}
		if suffix, matched, ok := ComputeURLCompletionSuffix(input, candidate); ok {
			return suffix, matched, true
		}
	}
	return "", "", false
}

func hostPart(s string) string {
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		return s[:i]
	}
	return s
}
