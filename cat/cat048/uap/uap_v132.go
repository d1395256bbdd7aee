// cat/cat048/uap/uap_v132.go
package uap

import (
	"fmt"

	"github.com/kallerwest/trackfusion/asterix"
	cat048 "github.com/kallerwest/trackfusion/cat/cat048/dataitems/v132"
	common "github.com/kallerwest/trackfusion/cat/common/dataitems"
)

// UAP048 implements the User Application Profile for ASTERIX Category 048,
// narrowed to the core subset of monoradar target report items.
type UAP048 struct {
	*asterix.BaseUAP
}

// NewUAP132 creates a new instance of the Category 048 UAP version 1.32
func NewUAP132() (*UAP048, error) {
	base, err := asterix.NewBaseUAP(asterix.Cat048, "1.32", cat048Fields)
	if err != nil {
		return nil, err
	}

	return &UAP048{
		BaseUAP: base,
	}, nil
}

// CreateDataItem creates a new instance of a Cat048 data item
func (u *UAP048) CreateDataItem(id string) (asterix.DataItem, error) {
	switch id {
	case "I048/010":
		return &common.DataSourceIdentifier{}, nil
	case "I048/140":
		return &cat048.TimeOfDay{}, nil
	case "I048/020":
		return &cat048.TargetReportDescriptor{}, nil
	case "I048/040":
		return &cat048.MeasuredPosition{}, nil
	case "I048/070":
		return &cat048.Mode3ACode{}, nil
	case "I048/090":
		return &cat048.FlightLevel{}, nil
	case "I048/220":
		return &cat048.AircraftAddress{}, nil
	case "I048/240":
		return &cat048.AircraftIdentification{}, nil
	case "I048/161":
		return &cat048.TrackNumber{}, nil
	case "I048/200":
		return &cat048.CalculatedTrackVelocity{}, nil
	case "I048/120":
		return &cat048.RadialDopplerSpeed{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", asterix.ErrUnknownDataItem, id)
	}
}

// Validate implements critical validations for Cat048
func (u *UAP048) Validate(items map[string]asterix.DataItem) error {
	if err := u.BaseUAP.Validate(items); err != nil {
		return err
	}

	// I048/040 Measured Position shall be present whenever I048/020 (Target
	// Report Descriptor) TYP indicates an actual detection (TYP != 0).
	if trdItem, exists := items["I048/020"]; exists {
		if trd, ok := trdItem.(*cat048.TargetReportDescriptor); ok {
			if trd.TYP != 0 {
				if _, exists := items["I048/040"]; !exists {
					return fmt.Errorf("%w: I048/040 required when detection exists", asterix.ErrMandatoryField)
				}
			}
		}
	}

	return nil
}

// cat048Fields defines the core UAP subset for Category 048
var cat048Fields = []asterix.DataField{
	{FRN: 1, DataItem: "I048/010", Description: "Data Source Identifier", Type: asterix.Fixed, Length: 2, Mandatory: true},
	{FRN: 2, DataItem: "I048/140", Description: "Time of Day", Type: asterix.Fixed, Length: 3, Mandatory: true},
	{FRN: 3, DataItem: "I048/020", Description: "Target Report Descriptor", Type: asterix.Extended, Length: 1, Mandatory: true},
	{FRN: 4, DataItem: "I048/040", Description: "Measured Position in Polar Co-ordinates", Type: asterix.Fixed, Length: 4, Mandatory: false},
	{FRN: 5, DataItem: "I048/070", Description: "Mode-3/A Code in Octal Representation", Type: asterix.Fixed, Length: 2, Mandatory: false},
	{FRN: 6, DataItem: "I048/090", Description: "Flight Level in Binary Representation", Type: asterix.Fixed, Length: 2, Mandatory: false},
	{FRN: 7, DataItem: "I048/220", Description: "Aircraft Address", Type: asterix.Fixed, Length: 3, Mandatory: false},
	{FRN: 8, DataItem: "I048/240", Description: "Aircraft Identification", Type: asterix.Fixed, Length: 6, Mandatory: false},
	{FRN: 9, DataItem: "I048/161", Description: "Track Number", Type: asterix.Fixed, Length: 2, Mandatory: false},
	{FRN: 10, DataItem: "I048/200", Description: "Calculated Track Velocity in Polar Representation", Type: asterix.Fixed, Length: 4, Mandatory: false},
	{FRN: 11, DataItem: "I048/120", Description: "Radial Doppler Speed", Type: asterix.Fixed, Length: 2, Mandatory: false},
}
