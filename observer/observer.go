// Package observer is the external observer boundary (§9): a CSV sink
// that snapshots droplet state on demand without the manager or router
// depending on it. A nil *Observer is a valid no-op sink, and the first
// write per file carries the header via gocsv.Marshal while subsequent
// writes append with gocsv.MarshalWithoutHeaders.
package observer

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/dropletgrid/grid"
)

// Row is one droplet's state at one recorded tick, the gocsv-tagged shape
// written to the CSV sink.
type Row struct {
	Tick        int     `csv:"tick"`
	ProcessId   uint64  `csv:"process_id"`
	LocalId     uint64  `csv:"local_id"`
	Y           int     `csv:"y"`
	X           int     `csv:"x"`
	Height      int     `csv:"height"`
	Width       int     `csv:"width"`
	Volume      float64 `csv:"volume"`
	HasDest     bool    `csv:"has_destination"`
	DestY       int     `csv:"dest_y"`
	DestX       int     `csv:"dest_x"`
}

func toRow(tick int, info grid.Info) Row {
	r := Row{
		Tick:      tick,
		ProcessId: uint64(info.Id.ProcessId),
		LocalId:   info.Id.Local,
		Y:         info.Location.Y,
		X:         info.Location.X,
		Height:    info.Dimensions.Y,
		Width:     info.Dimensions.X,
		Volume:    info.Volume,
	}
	if info.Destination != nil {
		r.HasDest = true
		r.DestY = info.Destination.Y
		r.DestX = info.Destination.X
	}
	return r
}

// Observer writes droplet-state snapshots to a CSV file, one row per
// droplet per recorded tick. A nil *Observer is a valid no-op sink, so
// callers can wire it unconditionally and let config.TelemetryConfig.Enabled
// decide whether a live one ever gets constructed.
type Observer struct {
	file          *os.File
	headerWritten bool
}

// New opens path for writing and truncates any existing content. Passing
// an empty path is a caller error, not a disable switch — callers that
// want telemetry off should simply not call New and use a nil *Observer.
func New(path string) (*Observer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating observer output %q: %w", path, err)
	}
	return &Observer{file: f}, nil
}

// WriteTick appends one row per droplet in infos, tagged with tick.
func (o *Observer) WriteTick(tick int, infos []grid.Info) error {
	if o == nil {
		return nil
	}

	rows := make([]Row, len(infos))
	for i, info := range infos {
		rows[i] = toRow(tick, info)
	}

	if !o.headerWritten {
		if err := gocsv.Marshal(rows, o.file); err != nil {
			return fmt.Errorf("writing observer rows: %w", err)
		}
		o.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, o.file); err != nil {
		return fmt.Errorf("writing observer rows: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (o *Observer) Close() error {
	if o == nil {
		return nil
	}
	return o.file.Close()
}
