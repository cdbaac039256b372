package rotaug

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LogRecord is one line of an angle log
type LogRecord struct {
	Stem  string
	Angle int
}

// AngleLog appends "{stem}\t{angle}\n" lines to a text file.
// Existing content is never rewritten.
type AngleLog struct {
	f *os.File
	w *bufio.Writer
}

// OpenAngleLog opens path for appending, creating it if necessary
func OpenAngleLog(path string) (*AngleLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &AngleLog{
		f: f,
		w: bufio.NewWriter(f),
	}, nil
}

func (l *AngleLog) Append(stem string, angle int) error {
	_, err := fmt.Fprintf(l.w, "%s\t%d\n", stem, angle)
	return err
}

// Close flushes buffered records and closes the file
func (l *AngleLog) Close() error {
	flushErr := l.w.Flush()
	closeErr := l.f.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// ReadAngleLog parses every record of the log at path, in file order
func ReadAngleLog(path string) ([]LogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records := []LogRecord{}
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if line == "" {
			continue
		}
		// Stems may contain tabs, the angle never does
		tab := strings.LastIndexByte(line, '\t')
		if tab < 0 {
			return nil, fmt.Errorf("%w: line %d has no tab", ErrMalformedLog, lineno)
		}
		angle, err := strconv.Atoi(line[tab+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedLog, lineno, err)
		}
		records = append(records, LogRecord{Stem: line[:tab], Angle: angle})
	}
	return records, scanner.Err()
}
