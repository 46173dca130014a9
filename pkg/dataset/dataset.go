// Package dataset reads the places TSV: name, countryCode, stateName, latitude, longitude, alternativeNames.
package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/datastructure"
)

const (
	FIELD_COUNT = 6

	ctxCheckInterval = 4096
)

var ErrMalformedRow = errors.New("malformed dataset row")

// LineFunc is called once per physical line. lineIdx is the zero based line number, which is the ordinal
// of the row; offset is the byte offset of the first byte of the line. line has no trailing "\n" / "\r\n".
type LineFunc func(lineIdx int, offset int64, line string) error

// ForEachLine streams r line by line. there is no row length limit here, unlike the random access reads
// of the document store.
func ForEachLine(ctx context.Context, r io.Reader, fn LineFunc) error {
	br := bufio.NewReaderSize(r, 1<<16)
	var offset int64
	for lineIdx := 0; ; lineIdx++ {
		if lineIdx%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		raw, err := br.ReadString('\n')
		if len(raw) == 0 && err == io.EOF {
			return nil
		}
		if err != nil && err != io.EOF {
			return fmt.Errorf("error when reading dataset line %d: %w", lineIdx, err)
		}

		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if fnErr := fn(lineIdx, offset, line); fnErr != nil {
			return fnErr
		}
		offset += int64(len(raw))

		if err == io.EOF {
			return nil
		}
	}
}

// ForEachLineInFile opens path and streams it with ForEachLine.
func ForEachLineInFile(ctx context.Context, path string, fn LineFunc) error {
	file, err := os.Open(path)
	if err != nil {
		return pkg.WrapErrorf(err, pkg.ErrMissingStorage, "dataset file %s cannot be opened", path)
	}
	defer file.Close()
	return ForEachLine(ctx, file, fn)
}

// ForEachRow is ForEachLineInFile without the header line and blank lines.
func ForEachRow(ctx context.Context, path string, hasHeader bool, fn func(ordinal int, line string) error) error {
	return ForEachLineInFile(ctx, path, func(lineIdx int, _ int64, line string) error {
		if (hasHeader && lineIdx == 0) || strings.TrimSpace(line) == "" {
			return nil
		}
		return fn(lineIdx, line)
	})
}

// SplitAlternativeNames splits on both "," and ";". empty names between separators are kept,
// an empty field gives no names at all.
func SplitAlternativeNames(field string) []string {
	if field == "" {
		return []string{}
	}
	names := make([]string, 0, strings.Count(field, ",")+strings.Count(field, ";")+1)
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == ',' || field[i] == ';' {
			names = append(names, field[start:i])
			start = i + 1
		}
	}
	return append(names, field[start:])
}

// NameFields returns only the columns the trie needs.
func NameFields(line string) (string, []string) {
	fields := strings.SplitN(line, "\t", FIELD_COUNT)
	name := fields[0]
	if len(fields) < FIELD_COUNT {
		return name, []string{}
	}
	return name, SplitAlternativeNames(fields[5])
}

// Coordinates returns only the latitude and longitude columns.
func Coordinates(line string) (float64, float64, error) {
	fields := strings.SplitN(line, "\t", FIELD_COUNT)
	lat, err := parseCoordinate(fields, 3)
	if err != nil {
		return 0, 0, err
	}
	lon, err := parseCoordinate(fields, 4)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// ParseRow decodes one TSV row. missing trailing fields default to "" / 0.
func ParseRow(line string, ordinal int) (datastructure.Place, error) {
	if strings.TrimSpace(line) == "" {
		return datastructure.Place{}, fmt.Errorf("%w: row %d is empty", ErrMalformedRow, ordinal)
	}

	fields := strings.SplitN(line, "\t", FIELD_COUNT)
	lat, err := parseCoordinate(fields, 3)
	if err != nil {
		return datastructure.Place{}, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, ordinal, err)
	}
	lon, err := parseCoordinate(fields, 4)
	if err != nil {
		return datastructure.Place{}, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, ordinal, err)
	}

	return datastructure.NewPlace(ordinal, field(fields, 0), field(fields, 1), field(fields, 2), lat, lon,
		SplitAlternativeNames(field(fields, 5))), nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func parseCoordinate(fields []string, i int) (float64, error) {
	raw := strings.TrimSpace(field(fields, i))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", raw)
	}
	return v, nil
}
