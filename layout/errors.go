package layout

import (
	"errors"
	"fmt"
)

var ErrUnknownChip = errors.New("chip is not registered")

// ConfigurationError reports a malformed region table.
type ConfigurationError struct {
	Region RegionName
	Reason string
}

func configErr(region RegionName, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Region: region, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Region == "" {
		return "layout: configuration: " + e.Reason
	}
	return fmt.Sprintf("layout: configuration: region %s: %s", e.Region, e.Reason)
}

// OverflowError reports kernel content that does not fit its region.
type OverflowError struct {
	Region RegionName
	Unit   UnitName
	// Required is the number of bytes from the region origin to the end of
	// the offending unit.
	Required  uint64
	Available uint64
}

// Over returns the number of bytes beyond the end of the region.
func (e *OverflowError) Over() uint64 {
	return e.Required - e.Available
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("layout: region %s overflowed by %#x bytes at unit %s (required %#x, available %#x)",
		e.Region, e.Over(), e.Unit, e.Required, e.Available)
}

// ExhaustionError reports an application region that granularity rounding
// left without room.
type ExhaustionError struct {
	Region RegionName
	// Start and End are the rounded boundaries. Start > End when the
	// remaining space could not hold a single aligned page boundary.
	Start     uint64
	End       uint64
	Requested uint64
}

func (e *ExhaustionError) Error() string {
	if e.Start > e.End {
		return fmt.Sprintf("layout: region %s: no room for application memory, aligned start %#x is past aligned end %#x",
			e.Region, e.Start, e.End)
	}
	return fmt.Sprintf("layout: region %s: application memory %#x bytes, requested at least %#x",
		e.Region, e.End-e.Start, e.Requested)
}
