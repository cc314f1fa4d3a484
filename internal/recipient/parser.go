package recipient

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	// textSep splits freeform text: commas and/or any whitespace.
	textSep = regexp.MustCompile(`[,\s]+`)
	// csvSep splits CSV rows: comma, semicolon, tab or spaces.
	csvSep = regexp.MustCompile(`[,;\s]+`)
	// pairSep splits a single --to value: "addr:amount", "addr=amount" or "addr,amount".
	pairSep = regexp.MustCompile(`[:=,]`)
)

// ParseText parses freeform text with one "address, amount" candidate per line.
// Blank lines are skipped. A line with fewer than two fields is reported as a
// malformed line; nothing is returned until every line parses.
func ParseText(text string) ([]Recipient, error) {
	return parseLines(strings.NewReader(text), textSep)
}

// ParseCSV parses CSV content whose columns are separated by comma, semicolon,
// tab or spaces. Two or three columns are accepted: address, amount and an
// optional label. There is no header row.
func ParseCSV(r io.Reader) ([]Recipient, error) {
	return parseLines(r, csvSep)
}

// ParseFile reads and parses a CSV recipient file.
func ParseFile(path string) ([]Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recipient file: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseArgs parses recipients given on the command line, e.g.
// --to 0xabc…:1.5 --to 0xdef…=2. Line is left at 0.
func ParseArgs(args []string) ([]Recipient, error) {
	v := &ValidationError{}
	out := make([]Recipient, 0, len(args))
	for _, a := range args {
		parts := pairSep.Split(strings.TrimSpace(a), 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			v.add(LineError{
				Kind:  KindMalformedLine,
				Value: a,
				Msg:   fmt.Sprintf("%q is not an address:amount pair", a),
			})
			continue
		}
		out = append(out, Recipient{
			Address: strings.TrimSpace(parts[0]),
			Amount:  strings.TrimSpace(parts[1]),
		})
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseLines(r io.Reader, sep *regexp.Regexp) ([]Recipient, error) {
	v := &ValidationError{}
	var out []Recipient

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			continue
		}

		fields := splitFields(line, sep)
		if len(fields) < 2 {
			v.add(LineError{
				Line:  lineNo,
				Kind:  KindMalformedLine,
				Value: line,
				Msg:   fmt.Sprintf("%q has %d column(s), expected address and amount", line, len(fields)),
			})
			continue
		}

		rec := Recipient{Address: fields[0], Amount: fields[1], Line: lineNo}
		if len(fields) > 2 {
			rec.Label = strings.Join(fields[2:], " ")
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading recipients: %w", err)
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// splitFields splits on sep and drops empty fields produced by leading or
// doubled separators.
func splitFields(line string, sep *regexp.Regexp) []string {
	raw := sep.Split(line, -1)
	fields := raw[:0]
	for _, f := range raw {
		if f = strings.Trim(f, `"'`); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
