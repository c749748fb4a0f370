package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// errNotText is returned when a file is not a valid UTF-8 line stream.
var errNotText = errors.New("content is not valid UTF-8 text")

const counterBufferSize = 64 * 1024

// countLines returns the number of newline-delimited lines in the file at path.
// A trailing line without a terminator still counts.
func countLines(fs afero.Fs, path string) (int, error) {
	file, err := fs.Open(path)
	if err != nil {
		return 0, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer file.Close()

	lines, err := countReaderLines(file)
	if err != nil {
		return 0, fmt.Errorf("error reading %s: %w", path, err)
	}
	return lines, nil
}

// countReaderLines streams r without holding more than one line in memory.
func countReaderLines(r io.Reader) (int, error) {
	reader := bufio.NewReaderSize(r, counterBufferSize)
	var lines int
	var partial []byte // Holds a line longer than the reader buffer

	for {
		chunk, err := reader.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			partial = append(partial, chunk...)
			continue
		}
		if err != nil && err != io.EOF {
			return 0, err
		}

		line := chunk
		if len(partial) > 0 {
			partial = append(partial, chunk...)
			line = partial
		}
		if len(line) > 0 {
			if !utf8.Valid(line) {
				return 0, errNotText
			}
			lines++
		}
		partial = partial[:0]

		if err == io.EOF {
			return lines, nil
		}
	}
}
