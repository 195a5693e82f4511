// Package csvline parses single lines of loosely quoted delimited text.
//
// The grammar accepted here is wider than RFC 4180: fields may be wrapped
// in single or double quotes with backslash escapes, or left bare with
// internal whitespace preserved. encoding/csv cannot express this, so the
// scanner is written by hand.
package csvline

// ParseLine splits one line into its field values.
//
// Field forms, in order of precedence at each boundary:
//
//  1. 'single quoted' — \' unescapes to ', everything else is verbatim.
//  2. "double quoted" — \" unescapes to ", everything else is verbatim.
//  3. bare run — stops at comma, either quote, or backslash; padding
//     around the field is trimmed but internal whitespace is kept as-is.
//
// Fields are separated by a comma, which may be padded with whitespace on
// either side. A line ending in a comma yields one extra empty field. An
// empty or whitespace-only line yields no fields.
//
// ParseLine never fails: malformed quoting (an unterminated quote, a stray
// backslash) degrades to whatever the grammar can still match. Rejecting
// short records is the caller's job.
func ParseLine(line string) []string {
	fields := []string{}
	n := len(line)
	i := 0

	for {
		// Stop when only whitespace remains; the trailing-comma rule
		// below decides whether a final empty field is owed.
		j := i
		for j < n && isSpace(line[j]) {
			j++
		}
		if j >= n {
			break
		}

		switch line[j] {
		case ',':
			// Empty field between separators.
			fields = append(fields, "")
			i = j + 1
			continue
		case '\'':
			val, next := scanQuoted(line, j+1, '\'')
			fields = append(fields, val)
			j = next
		case '"':
			val, next := scanQuoted(line, j+1, '"')
			fields = append(fields, val)
			j = next
		default:
			val, next := scanBare(line, j)
			if next == j {
				// Stray backslash: nothing the grammar can do
				// with it, drop the character and move on.
				i = j + 1
				continue
			}
			fields = append(fields, val)
			j = next
		}

		// Consume the separator, if any.
		for j < n && isSpace(line[j]) {
			j++
		}
		if j < n && line[j] == ',' {
			j++
		}
		i = j
	}

	if endsWithComma(line) {
		fields = append(fields, "")
	}
	return fields
}

// scanQuoted reads a quoted field body starting just after the opening
// quote. Only backslash-quote is an escape; a lone backslash is literal.
// An unterminated quote consumes the rest of the line.
func scanQuoted(line string, start int, quote byte) (string, int) {
	var buf []byte
	i := start
	n := len(line)
	for i < n {
		c := line[i]
		if c == '\\' && i+1 < n && line[i+1] == quote {
			buf = append(buf, quote)
			i += 2
			continue
		}
		if c == quote {
			return string(buf), i + 1
		}
		buf = append(buf, c)
		i++
	}
	return string(buf), n
}

// scanBare reads an unquoted field. The run ends at a comma, either quote
// character, or a backslash; trailing whitespace before the terminator is
// not part of the value.
func scanBare(line string, start int) (string, int) {
	i := start
	n := len(line)
	last := start - 1 // index of last non-space byte seen
	for i < n {
		c := line[i]
		if c == ',' || c == '\'' || c == '"' || c == '\\' {
			break
		}
		if !isSpace(c) {
			last = i
		}
		i++
	}
	if last < start {
		return "", i
	}
	return line[start : last+1], i
}

// endsWithComma reports whether the line's last non-whitespace byte is a
// comma, i.e. whether a trailing empty field was written.
func endsWithComma(line string) bool {
	for i := len(line) - 1; i >= 0; i-- {
		if isSpace(line[i]) {
			continue
		}
		return line[i] == ','
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}
