package core

import "strings"

// commandMarker introduces a slash command in chat text.
const commandMarker = "/"

// parseSlash splits chat text into a lowercase command word and its raw
// argument string. ok is false if the text is not a slash command.
func parseSlash(text string) (word, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, commandMarker) {
		return "", "", false
	}
	text = text[len(commandMarker):]
	if text == "" {
		return "", "", false
	}
	if i := strings.IndexByte(text, ' '); i >= 0 {
		word, args = text[:i], strings.TrimSpace(text[i+1:])
	} else {
		word = text
	}
	return strings.ToLower(word), args, true
}

// splitTarget extracts the first command argument and the trimmed
// remainder. The argument may be a double-quoted string (internal spaces
// preserved) or a single bare token. ok is false when no argument can be
// parsed, including an unterminated quote.
func splitTarget(args string) (target, rest string, ok bool) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "", "", false
	}

	if args[0] == '"' {
		end := strings.IndexByte(args[1:], '"')
		if end < 0 {
			return "", "", false
		}
		target = args[1 : 1+end]
		rest = strings.TrimSpace(args[2+end:])
		if target == "" {
			return "", "", false
		}
		return target, rest, true
	}

	if i := strings.IndexByte(args, ' '); i >= 0 {
		return args[:i], strings.TrimSpace(args[i+1:]), true
	}
	return args, "", true
}
