// plot/decoder.go
package plot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/kallerwest/trackfusion/asterix"
	"github.com/kallerwest/trackfusion/cat/cat010"
	v105 "github.com/kallerwest/trackfusion/cat/cat010/dataitems/v105"
	"github.com/kallerwest/trackfusion/cat/cat021"
	v26 "github.com/kallerwest/trackfusion/cat/cat021/dataitems/v26"
	"github.com/kallerwest/trackfusion/cat/cat048"
	v132 "github.com/kallerwest/trackfusion/cat/cat048/dataitems/v132"
	common "github.com/kallerwest/trackfusion/cat/common/dataitems"
	"github.com/kallerwest/trackfusion/geo"
)

// Decoder converts raw UDP payloads, each potentially containing several
// concatenated ASTERIX data blocks, into Plot records. It is stateless with
// respect to prior datagrams; the only state carried across calls is the
// per-process drop-accounting used for observability.
type Decoder struct {
	uaps   map[asterix.Category]asterix.UAP
	origin geo.Origin
	logger *slog.Logger
	Counts DropCounters
	warned map[asterix.Category]bool
}

// NewDecoder creates a Decoder with UAPs for Categories 10, 21 and 48
// registered, and the given station origin for the polar→WGS-84 transform.
func NewDecoder(origin geo.Origin, logger *slog.Logger) (*Decoder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	uap010, err := cat010.NewUAP(cat010.LatestVersion())
	if err != nil {
		return nil, fmt.Errorf("initializing CAT010 UAP: %w", err)
	}
	uap021, err := cat021.NewUAP(cat021.LatestVersion())
	if err != nil {
		return nil, fmt.Errorf("initializing CAT021 UAP: %w", err)
	}
	uap048, err := cat048.NewUAP(cat048.LatestVersion())
	if err != nil {
		return nil, fmt.Errorf("initializing CAT048 UAP: %w", err)
	}

	return &Decoder{
		uaps: map[asterix.Category]asterix.UAP{
			asterix.Cat010: uap010,
			asterix.Cat021: uap021,
			asterix.Cat048: uap048,
		},
		origin: origin,
		logger: logger,
		warned: make(map[asterix.Category]bool),
	}, nil
}

// Decode parses a UDP payload into zero or more Plots. A malformed block
// framing rejects the whole payload; an unsupported category drops only
// that block; a truncated item drops only the remaining fields of that
// record, keeping whatever was already decoded.
func (d *Decoder) Decode(payload []byte) ([]*Plot, error) {
	var plots []*Plot
	offset := 0

	for offset < len(payload) {
		if len(payload)-offset < 3 {
			d.Counts.MalformedFrames++
			return nil, fmt.Errorf("%w: %d trailing bytes cannot hold a block header",
				asterix.ErrMalformedFrame, len(payload)-offset)
		}

		cat := asterix.Category(payload[offset])
		length := int(binary.BigEndian.Uint16(payload[offset+1 : offset+3]))
		if length < 3 {
			d.Counts.MalformedFrames++
			return nil, fmt.Errorf("%w: block length %d < 3", asterix.ErrMalformedFrame, length)
		}
		if offset+length > len(payload) {
			d.Counts.MalformedFrames++
			return nil, fmt.Errorf("%w: block length %d exceeds remaining payload %d",
				asterix.ErrMalformedFrame, length, len(payload)-offset)
		}

		block := payload[offset : offset+length]
		offset += length

		uap, supported := d.uaps[cat]
		if !supported {
			d.Counts.UnsupportedCatDrops++
			if !d.warned[cat] {
				d.warned[cat] = true
				d.logger.Warn("dropping unsupported ASTERIX category", "category", cat)
			}
			continue
		}

		blockPlots := d.decodeBlock(cat, uap, block[3:])
		plots = append(plots, blockPlots...)
	}

	return plots, nil
}

// decodeBlock decodes every record in a single data block, in UAP order,
// converting each into a Plot. A record whose data truncates mid-item keeps
// the items already decoded and stops decoding further records in the
// block, since the buffer position after a short read cannot be trusted to
// mark the start of the next record.
func (d *Decoder) decodeBlock(cat asterix.Category, uap asterix.UAP, recordBytes []byte) []*Plot {
	var plots []*Plot
	buf := bytes.NewBuffer(recordBytes)

	for buf.Len() > 0 {
		fspec := asterix.NewFSPEC()
		if _, err := fspec.Decode(buf); err != nil {
			d.Counts.ShortItemRecords++
			break
		}
		if fspec.Size() > 4 {
			d.Counts.MalformedFrames++
			break
		}

		items := make(map[string]asterix.DataItem)
		short := false

		for _, field := range uap.Fields() {
			if !fspec.GetFRN(field.FRN) {
				continue
			}

			item, err := uap.CreateDataItem(field.DataItem)
			if err != nil {
				short = true
				break
			}
			if _, err := item.Decode(buf); err != nil {
				short = true
				break
			}
			items[field.DataItem] = item
		}

		if short {
			d.Counts.ShortItemRecords++
		}

		if len(items) > 0 {
			plot := d.buildPlot(cat, items)
			if err := plot.Validate(); err != nil {
				d.Counts.OutOfRangeFields++
			}
			plots = append(plots, plot)
		}

		if short {
			break
		}
	}

	return plots
}

// buildPlot converts decoded category-specific data items into engineering
// units on a Plot, applying the polar→WGS-84 transform for the categories
// that report range/azimuth rather than lat/lon directly.
func (d *Decoder) buildPlot(cat asterix.Category, items map[string]asterix.DataItem) *Plot {
	var sensor SensorType
	switch cat {
	case asterix.Cat010:
		sensor = SensorSecondary
	case asterix.Cat021:
		sensor = SensorADSB
	case asterix.Cat048:
		sensor = SensorRadar
	default:
		sensor = SensorUnknown
	}

	p := NewPlot(sensor, "")
	p.Quality = 1.0

	switch cat {
	case asterix.Cat048:
		if ds, ok := items["I048/010"].(*common.DataSourceIdentifier); ok {
			p.SensorID = fmt.Sprintf("%d/%d", ds.SAC, ds.SIC)
		}
		if tod, ok := items["I048/140"].(*v132.TimeOfDay); ok {
			p.Timestamp = timeFromSecondsSinceMidnight(tod.Time)
		}
		if pos, ok := items["I048/040"].(*v132.MeasuredPosition); ok {
			p.RangeM = pos.RHO * metresPerNM
			p.AzimuthDeg = pos.THETA
			p.LatDeg, p.LonDeg = geo.PolarToWGS84(d.origin, pos.RHO, pos.THETA)
		}
		if m3a, ok := items["I048/070"].(*v132.Mode3ACode); ok {
			p.Mode3AOctal = fmt.Sprintf("%04d", m3a.Code)
		}
		if fl, ok := items["I048/090"].(*v132.FlightLevel); ok {
			alt := fl.Level * 100
			p.AltitudeFt = &alt
		}
		if addr, ok := items["I048/220"].(*v132.AircraftAddress); ok {
			p.AircraftAddress = addr.String()
		}
		if ident, ok := items["I048/240"].(*v132.AircraftIdentification); ok {
			p.Callsign = ident.Ident
		}
		if dop, ok := items["I048/120"].(*v132.RadialDopplerSpeed); ok {
			v := float64(dop.Speed) * knotsToMS
			p.DopplerVelocityMS = &v
		}

	case asterix.Cat021:
		if ds, ok := items["I021/010"].(*common.DataSourceIdentifier); ok {
			p.SensorID = fmt.Sprintf("%d/%d", ds.SAC, ds.SIC)
		}
		if pos, ok := items["I021/040"].(*v26.Position); ok {
			p.LatDeg = pos.Latitude
			p.LonDeg = pos.Longitude
		}
		if addr, ok := items["I021/080"].(*v26.TargetAddress); ok {
			p.AircraftAddress = addr.String()
		}
		if fl, ok := items["I021/145"].(*common.FlightLevel); ok {
			alt := fl.Value * 100
			p.AltitudeFt = &alt
		}
		if cs, ok := items["I021/170"].(*v26.CallSign); ok {
			p.Callsign = cs.Ident
		}

	case asterix.Cat010:
		if ds, ok := items["I010/010"].(*common.DataSourceIdentifier); ok {
			p.SensorID = fmt.Sprintf("%d/%d", ds.SAC, ds.SIC)
		}
		if pos, ok := items["I010/040"].(*v105.MeasuredPosition); ok {
			p.RangeM = pos.RHO * metresPerNM
			p.AzimuthDeg = pos.THETA
			p.LatDeg, p.LonDeg = geo.PolarToWGS84(d.origin, pos.RHO, pos.THETA)
		}
		if addr, ok := items["I010/220"].(*v105.TargetAddress); ok {
			p.AircraftAddress = addr.String()
		}
		if cs, ok := items["I010/245"].(*v105.CallSign); ok {
			p.Callsign = cs.Ident
		}
	}

	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}

	return p
}

const metresPerNM = 1852.0
const knotsToMS = 0.514444

func timeFromSecondsSinceMidnight(seconds float64) time.Time {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(seconds * float64(time.Second)))
}
