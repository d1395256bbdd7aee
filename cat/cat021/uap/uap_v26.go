// cat/cat021/uap/uap_v26.go
package uap

import (
	"fmt"

	"github.com/kallerwest/trackfusion/asterix"
	v26 "github.com/kallerwest/trackfusion/cat/cat021/dataitems/v26"
	common "github.com/kallerwest/trackfusion/cat/common/dataitems"
)

// UAP26 implements the User Application Profile for ASTERIX Category 021,
// narrowed to the core ADS-B subset.
type UAP26 struct {
	*asterix.BaseUAP
}

// NewUAP26 creates a new instance of the Category 021 UAP
func NewUAP26() (*UAP26, error) {
	base, err := asterix.NewBaseUAP(asterix.Cat021, "2.6", cat021Fields)
	if err != nil {
		return nil, err
	}

	return &UAP26{
		BaseUAP: base,
	}, nil
}

// CreateDataItem creates a new instance of a Cat021 data item
func (u *UAP26) CreateDataItem(id string) (asterix.DataItem, error) {
	switch id {
	case "I021/010":
		return &common.DataSourceIdentifier{}, nil
	case "I021/040":
		return &v26.Position{}, nil
	case "I021/080":
		return &v26.TargetAddress{}, nil
	case "I021/145":
		return &common.FlightLevel{}, nil
	case "I021/170":
		return &v26.CallSign{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", asterix.ErrUnknownDataItem, id)
	}
}

// cat021Fields defines the core UAP subset for Category 021
var cat021Fields = []asterix.DataField{
	{FRN: 1, DataItem: "I021/010", Description: "Data Source Identification", Type: asterix.Fixed, Length: 2, Mandatory: true},
	{FRN: 2, DataItem: "I021/040", Description: "Position in WGS-84 Co-ordinates", Type: asterix.Fixed, Length: 6, Mandatory: true},
	{FRN: 3, DataItem: "I021/080", Description: "Target Address", Type: asterix.Fixed, Length: 3, Mandatory: true},
	{FRN: 4, DataItem: "I021/145", Description: "Flight Level", Type: asterix.Fixed, Length: 2, Mandatory: false},
	{FRN: 5, DataItem: "I021/170", Description: "Target Identification", Type: asterix.Fixed, Length: 6, Mandatory: false},
}
