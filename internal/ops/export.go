package ops

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"ecolearn/internal/telemetry"
)

const (
	EventsFile = "events.jsonl"
	StatsFile  = "stats.json"
)

// WriteEventArchive writes a gzipped tar holding one JSON event per line
// plus the stats computed over them.
func WriteEventArchive(w io.Writer, events []telemetry.Event, since, now time.Time) error {
	stats, err := telemetry.CalculateStats(events, since)
	if err != nil {
		return fmt.Errorf("calculate stats: %w", err)
	}

	var lines bytes.Buffer
	enc := json.NewEncoder(&lines)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("encode event %d: %w", ev.ID, err)
		}
	}
	statsJSON, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	for _, f := range []struct {
		name string
		body []byte
	}{
		{EventsFile, lines.Bytes()},
		{StatsFile, statsJSON},
	} {
		hdr := &tar.Header{
			Name:    f.name,
			Mode:    0o644,
			Size:    int64(len(f.body)),
			ModTime: now.UTC(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(f.body); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// ReadEventArchive returns the events stored by WriteEventArchive.
func ReadEventArchive(r io.Reader) ([]telemetry.Event, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("archive has no %s", EventsFile)
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg || path.Clean(hdr.Name) != EventsFile {
			continue
		}

		var events []telemetry.Event
		sc := bufio.NewScanner(tr)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for line := 1; sc.Scan(); line++ {
			if len(bytes.TrimSpace(sc.Bytes())) == 0 {
				continue
			}
			var ev telemetry.Event
			if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", EventsFile, line, err)
			}
			events = append(events, ev)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return events, nil
	}
}
