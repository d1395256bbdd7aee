// cot/cot.go
package cot

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/kallerwest/trackfusion/track"
)

// Affiliation is the CoT affiliation of a track, mapped onto the second
// segment of the event type string.
type Affiliation int

const (
	Unknown Affiliation = iota
	Friendly
	Hostile
	Neutral
)

func (a Affiliation) letter() string {
	switch a {
	case Friendly:
		return "f"
	case Hostile:
		return "h"
	case Neutral:
		return "n"
	default:
		return "u"
	}
}

// TrackType selects the base CoT type for a Snapshot, independent of
// affiliation.
type TrackType int

const (
	Aircraft TrackType = iota
	Helicopter
	Vessel
	Vehicle
	Person
	Other
)

func baseType(tt TrackType, aff Affiliation) string {
	letter := aff.letter()
	switch tt {
	case Aircraft:
		return "a-" + letter + "-A"
	case Helicopter:
		return "a-" + letter + "-H"
	case Vessel:
		return "a-n-S"
	case Vehicle:
		return "a-" + letter + "-G"
	case Person:
		return "a-" + letter + "-G-I"
	default:
		return "a-u-G"
	}
}

const isoMicros = "2006-01-02T15:04:05.000000Z"

// Event is a single Cursor on Target event message.
type Event struct {
	XMLName xml.Name `xml:"event"`
	Version string   `xml:"version,attr"`
	UID     string   `xml:"uid,attr"`
	Type    string   `xml:"type,attr"`
	How     string   `xml:"how,attr"`
	Time    string   `xml:"time,attr"`
	Start   string   `xml:"start,attr"`
	Stale   string   `xml:"stale,attr"`
	Point   Point    `xml:"point"`
	Detail  Detail   `xml:"detail"`
}

// Point is the CoT point sub-element.
type Point struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
	Hae float64 `xml:"hae,attr"`
	CE  float64 `xml:"ce,attr"`
	LE  float64 `xml:"le,attr"`
}

// Detail wraps the CoT detail children.
type Detail struct {
	Contact Contact         `xml:"contact"`
	Track   *TrackDetail    `xml:"track,omitempty"`
	Remarks string          `xml:"remarks,omitempty"`
	Precis  *PrecisLocation `xml:"precisionlocation,omitempty"`
	ADSB    *ADSBDetail     `xml:"adsb,omitempty"`
}

// Contact carries the callsign.
type Contact struct {
	Callsign string `xml:"callsign,attr"`
}

// TrackDetail carries course/speed/climb.
type TrackDetail struct {
	Course float64  `xml:"course,attr"`
	Speed  float64  `xml:"speed,attr"`
	Climb  *float64 `xml:"climb,attr,omitempty"`
}

// PrecisLocation carries the location/altitude source tags.
type PrecisLocation struct {
	Altsrc      string `xml:"altsrc,attr"`
	Geopointsrc string `xml:"geopointsrc,attr"`
}

// ADSBDetail carries the ADS-B-specific decoder output.
type ADSBDetail struct {
	ICAO24         string `xml:"icao24,attr"`
	Squawk         string `xml:"squawk,attr,omitempty"`
	FlightStatus   string `xml:"flight_status,attr,omitempty"`
	Category       string `xml:"category,attr,omitempty"`
	WakeTurbulence string `xml:"wake_turbulence,attr,omitempty"`
}

// Events wraps a batch of CoT events.
type Events struct {
	XMLName xml.Name `xml:"events"`
	Version string   `xml:"version,attr"`
	Event   []Event  `xml:"event"`
}

// Options controls the affiliation/type classification and optional
// ADS-B-sourced fields that are not carried on a bare Snapshot.
type Options struct {
	Affiliation Affiliation
	TrackType   TrackType
	IsADSB      bool
	ICAO24      string
	Squawk      string
	CE          float64 // 0 selects the default of 10, whatever the source
	LE          float64 // 0 selects the default of 15, whatever the source
}

func staleFor(isADSB bool) time.Duration {
	if isADSB {
		return 2 * time.Minute
	}
	return 5 * time.Minute
}

// Encode builds a single CoT event for a track snapshot at the given
// reference time. The event's lat/lon must be set by the caller (e.g. via
// EncodeXML), since a Snapshot carries station-Cartesian coordinates, not
// geodetic ones.
func Encode(s track.Snapshot, opts Options, now time.Time) (Event, error) {
	ce, le := opts.CE, opts.LE
	if ce == 0 {
		ce = 10
	}
	if le == 0 {
		le = 15
	}

	hae := 0.0
	if s.AltitudeFt != nil {
		hae = *s.AltitudeFt * 0.3048
	}

	stale := now.Add(staleFor(opts.IsADSB))

	callsign := s.Callsign
	if callsign == "" {
		callsign = s.TrackID
	}
	detail := Detail{
		Contact: Contact{Callsign: callsign},
		Track: &TrackDetail{
			Course: s.HeadingDeg,
			Speed:  s.SpeedMS,
		},
		Remarks: fmt.Sprintf("plots=%d misses=%d quality=%.2f", s.PlotCount, s.ConsecutiveMisses, s.QualityScore),
		Precis:  &PrecisLocation{Altsrc: "GPS", Geopointsrc: "CALC"},
	}
	if opts.IsADSB {
		detail.ADSB = &ADSBDetail{ICAO24: opts.ICAO24, Squawk: opts.Squawk}
	}

	ev := Event{
		Version: "2.0",
		UID:     "trackfusion-" + s.TrackID,
		Type:    baseType(opts.TrackType, opts.Affiliation),
		How:     "m-g",
		Time:    now.UTC().Format(isoMicros),
		Start:   now.UTC().Format(isoMicros),
		Stale:   stale.UTC().Format(isoMicros),
		Point: Point{
			Hae: hae,
			CE:  ce,
			LE:  le,
		},
		Detail: detail,
	}
	return ev, nil
}

// EncodeXML marshals a single-track event, including the XML declaration.
func EncodeXML(s track.Snapshot, opts Options, now time.Time, latDeg, lonDeg float64) ([]byte, error) {
	ev, err := Encode(s, opts, now)
	if err != nil {
		return nil, err
	}
	ev.Point.Lat = latDeg
	ev.Point.Lon = lonDeg

	body, err := xml.MarshalIndent(ev, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cot: marshal event: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// EncodeBatchXML marshals a batch of (snapshot, lat, lon) tracks as an
// <events> root.
func EncodeBatchXML(items []BatchItem, now time.Time) ([]byte, error) {
	events := make([]Event, 0, len(items))
	for _, it := range items {
		ev, err := Encode(it.Snapshot, it.Options, now)
		if err != nil {
			return nil, err
		}
		ev.Point.Lat = it.LatDeg
		ev.Point.Lon = it.LonDeg
		events = append(events, ev)
	}

	batch := Events{Version: "2.0", Event: events}
	body, err := xml.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cot: marshal batch: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// BatchItem pairs a snapshot with its geodetic position and encode options.
type BatchItem struct {
	Snapshot track.Snapshot
	LatDeg   float64
	LonDeg   float64
	Options  Options
}

// Decoded is the minimum Plot-like set rebuilt from a parsed CoT event,
// sufficient to validate the round-trip invariants.
type Decoded struct {
	UID        string
	LatDeg     float64
	LonDeg     float64
	AltitudeFt *float64
	SpeedMS    float64
	HeadingDeg float64
	Callsign   string
}

// Decode parses a single CoT <event> document.
func Decode(data []byte) (Decoded, error) {
	var ev Event
	if err := xml.Unmarshal(data, &ev); err != nil {
		return Decoded{}, fmt.Errorf("cot: unmarshal event: %w", err)
	}
	return fromEvent(ev), nil
}

// DecodeBatch parses either an <events> batch root or tolerates a document
// that is itself a single <event>.
func DecodeBatch(data []byte) ([]Decoded, error) {
	var probe struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("cot: probe root element: %w", err)
	}

	if probe.XMLName.Local == "events" {
		var batch Events
		if err := xml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("cot: unmarshal events: %w", err)
		}
		out := make([]Decoded, 0, len(batch.Event))
		for _, ev := range batch.Event {
			out = append(out, fromEvent(ev))
		}
		return out, nil
	}

	d, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return []Decoded{d}, nil
}

func fromEvent(ev Event) Decoded {
	d := Decoded{
		UID:      ev.UID,
		LatDeg:   ev.Point.Lat,
		LonDeg:   ev.Point.Lon,
		Callsign: ev.Detail.Contact.Callsign,
	}
	if ev.Point.Hae != 0 {
		alt := ev.Point.Hae / 0.3048
		d.AltitudeFt = &alt
	}
	if ev.Detail.Track != nil {
		d.SpeedMS = ev.Detail.Track.Speed
		d.HeadingDeg = ev.Detail.Track.Course
	}
	return d
}

// EncodeChat builds a chat-type event, stale exactly 1 hour after time, per
// the chat-message mapping rule.
func EncodeChat(uid, message string, now time.Time) ([]byte, error) {
	ev := Event{
		Version: "2.0",
		UID:     uid,
		Type:    "b-t-f",
		How:     "h-g-i-g-o",
		Time:    now.UTC().Format(isoMicros),
		Start:   now.UTC().Format(isoMicros),
		Stale:   now.UTC().Add(time.Hour).Format(isoMicros),
		Detail:  Detail{Remarks: message},
	}
	body, err := xml.MarshalIndent(ev, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cot: marshal chat: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// EncodeHeartbeat builds a heartbeat event whose stale time equals its
// time, per the heartbeat mapping rule.
func EncodeHeartbeat(uid string, now time.Time) ([]byte, error) {
	ts := now.UTC().Format(isoMicros)
	ev := Event{
		Version: "2.0",
		UID:     uid,
		Type:    "t-x-c-t",
		How:     "h-g-i-g-o",
		Time:    ts,
		Start:   ts,
		Stale:   ts,
	}
	body, err := xml.MarshalIndent(ev, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cot: marshal heartbeat: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
