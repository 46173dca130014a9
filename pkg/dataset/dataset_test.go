package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachLine(t *testing.T) {
	input := "name\tcc\nAnkara\ttr\r\n\nİzmir\ttr"

	type line struct {
		idx    int
		offset int64
		text   string
	}
	var got []line
	err := ForEachLine(context.Background(), strings.NewReader(input), func(lineIdx int, offset int64, text string) error {
		got = append(got, line{lineIdx, offset, text})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []line{
		{0, 0, "name\tcc"},
		{1, 8, "Ankara\ttr"},
		{2, 19, ""},
		{3, 20, "İzmir\ttr"},
	}, got)
}

func TestForEachLineTrailingNewline(t *testing.T) {
	count := 0
	err := ForEachLine(context.Background(), strings.NewReader("a\nb\n"), func(int, int64, string) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestForEachLineStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	err := ForEachLine(context.Background(), strings.NewReader("a\nb\nc\n"), func(lineIdx int, _ int64, _ string) error {
		if lineIdx == 1 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
}

func TestForEachLineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEachLine(ctx, strings.NewReader("a\n"), func(int, int64, string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForEachRowSkipsHeaderAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.tsv")
	writeFile(t, path, "name\tcountry\nAnkara\ttr\n   \nİzmir\ttr\n")

	tests := []struct {
		name      string
		hasHeader bool
		expected  []int
	}{
		{name: "with header", hasHeader: true, expected: []int{1, 3}},
		{name: "without header", hasHeader: false, expected: []int{0, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ordinals []int
			err := ForEachRow(context.Background(), path, tt.hasHeader, func(ordinal int, _ string) error {
				ordinals = append(ordinals, ordinal)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ordinals)
		})
	}
}

func TestForEachLineInFileMissing(t *testing.T) {
	err := ForEachLineInFile(context.Background(), filepath.Join(t.TempDir(), "missing.tsv"),
		func(int, int64, string) error { return nil })
	assert.ErrorIs(t, err, pkg.ErrMissingStorage)
}

func TestSplitAlternativeNames(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{input: "", expected: []string{}},
		{input: "Angora", expected: []string{"Angora"}},
		{input: "Angora,Ankyra;Анкара", expected: []string{"Angora", "Ankyra", "Анкара"}},
		{input: "a,,b", expected: []string{"a", "", "b"}},
		{input: ";", expected: []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitAlternativeNames(tt.input))
		})
	}
}

func TestParseRow(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		place, err := ParseRow("Ankara\ttr\tAnkara\t39.91987\t32.85427\tAngora,Ankyra", 42)
		require.NoError(t, err)
		assert.Equal(t, 42, place.ID)
		assert.Equal(t, "Ankara", place.Name)
		assert.Equal(t, "tr", place.CountryCode)
		assert.Equal(t, "Ankara", place.StateName)
		assert.InDelta(t, 39.91987, place.Latitude, 1e-9)
		assert.InDelta(t, 32.85427, place.Longitude, 1e-9)
		assert.Equal(t, []string{"Angora", "Ankyra"}, place.AlternativeNames)
	})

	t.Run("missing trailing fields", func(t *testing.T) {
		place, err := ParseRow("Andorra la Vella\tad", 1)
		require.NoError(t, err)
		assert.Equal(t, "Andorra la Vella", place.Name)
		assert.Equal(t, "ad", place.CountryCode)
		assert.Equal(t, "", place.StateName)
		assert.Equal(t, 0.0, place.Latitude)
		assert.Equal(t, []string{}, place.AlternativeNames)
	})

	t.Run("tabs inside alternative names are kept", func(t *testing.T) {
		place, err := ParseRow("X\tus\t\t1\t2\ta\tb", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"a\tb"}, place.AlternativeNames)
	})

	t.Run("empty row", func(t *testing.T) {
		_, err := ParseRow("  ", 3)
		assert.ErrorIs(t, err, ErrMalformedRow)
	})

	t.Run("bad latitude", func(t *testing.T) {
		_, err := ParseRow("X\tus\t\tnorth\t2\t", 3)
		assert.ErrorIs(t, err, ErrMalformedRow)
	})
}

func TestNameFieldsAndCoordinates(t *testing.T) {
	name, alts := NameFields("İstanbul\ttr\tİstanbul\t41.01\t28.94\tConstantinople;Ыстанбұл")
	assert.Equal(t, "İstanbul", name)
	assert.Equal(t, []string{"Constantinople", "Ыстанбұл"}, alts)

	name, alts = NameFields("Solo")
	assert.Equal(t, "Solo", name)
	assert.Empty(t, alts)

	lat, lon, err := Coordinates("İstanbul\ttr\tİstanbul\t41.01\t28.94\t")
	require.NoError(t, err)
	assert.InDelta(t, 41.01, lat, 1e-9)
	assert.InDelta(t, 28.94, lon, 1e-9)

	_, _, err = Coordinates("x\ty\tz\t1\tabc")
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
