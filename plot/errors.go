// plot/errors.go
package plot

import (
	"fmt"

	"github.com/kallerwest/trackfusion/asterix"
)

var errOutOfRange = asterix.ErrOutOfRange

// DropCounters accumulates per-process counts of dropped input, mirroring
// the error-handling design: malformed frames and unsupported categories
// are dropped, not fatal, and the drop is recorded for observability.
type DropCounters struct {
	MalformedFrames     int64
	UnsupportedCatDrops int64
	ShortItemRecords    int64
	OutOfRangeFields    int64
}

func (c *DropCounters) String() string {
	return fmt.Sprintf("malformed=%d unsupported=%d short=%d out_of_range=%d",
		c.MalformedFrames, c.UnsupportedCatDrops, c.ShortItemRecords, c.OutOfRangeFields)
}
