// cat/cat010/uap/uap_v105.go
package uap

import (
	"fmt"

	"github.com/kallerwest/trackfusion/asterix"
	v105 "github.com/kallerwest/trackfusion/cat/cat010/dataitems/v105"
	common "github.com/kallerwest/trackfusion/cat/common/dataitems"
)

// UAP105 implements the User Application Profile for ASTERIX Category 010,
// narrowed to the core surface-movement subset shared with Cat048/Cat021.
type UAP105 struct {
	*asterix.BaseUAP
}

// NewUAP105 creates a new instance of the Category 010 UAP
func NewUAP105() (*UAP105, error) {
	base, err := asterix.NewBaseUAP(asterix.Cat010, "1.05", cat010Fields)
	if err != nil {
		return nil, err
	}

	return &UAP105{
		BaseUAP: base,
	}, nil
}

// CreateDataItem creates a new instance of a Cat010 data item
func (u *UAP105) CreateDataItem(id string) (asterix.DataItem, error) {
	switch id {
	case "I010/010":
		return &common.DataSourceIdentifier{}, nil
	case "I010/040":
		return &v105.MeasuredPosition{}, nil
	case "I010/220":
		return &v105.TargetAddress{}, nil
	case "I010/245":
		return &v105.CallSign{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", asterix.ErrUnknownDataItem, id)
	}
}

// cat010Fields defines the core UAP subset for Category 010
var cat010Fields = []asterix.DataField{
	{FRN: 1, DataItem: "I010/010", Description: "Data Source Identification", Type: asterix.Fixed, Length: 2, Mandatory: true},
	{FRN: 2, DataItem: "I010/040", Description: "Measured Position in Polar Co-ordinates", Type: asterix.Fixed, Length: 4, Mandatory: true},
	{FRN: 3, DataItem: "I010/220", Description: "Target Address", Type: asterix.Fixed, Length: 3, Mandatory: false},
	{FRN: 4, DataItem: "I010/245", Description: "Target Identification", Type: asterix.Fixed, Length: 6, Mandatory: false},
}
