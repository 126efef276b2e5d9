package layout

import "fmt"

type UnitName string

const (
	Text     UnitName = "text"
	Rodata   UnitName = "rodata"
	Relocate UnitName = "relocate"
	Stack    UnitName = "stack"
	Zero     UnitName = "zero"
)

// Sizes maps each placement unit to its size in bytes as produced by the
// kernel build. Missing units are empty.
type Sizes map[UnitName]uint64

// Validate rejects unit names the engine does not place.
func (s Sizes) Validate() error {
	for name := range s {
		switch name {
		case Text, Rodata, Relocate, Stack, Zero:
		default:
			return fmt.Errorf("layout: unknown placement unit %q", name)
		}
	}
	return nil
}

// Flash returns the number of kernel bytes stored in flash, ignoring
// alignment padding.
func (s Sizes) Flash() uint64 {
	return s[Text] + s[Rodata] + s[Relocate]
}

// RAM returns the number of kernel bytes in RAM, ignoring alignment padding.
func (s Sizes) RAM() uint64 {
	return s[Stack] + s[Relocate] + s[Zero]
}

// Unit is one step of the canonical placement order.
type Unit struct {
	Name   UnitName
	Region RegionName
	Align  uint64
	// PadEnd rounds the end of the unit up to Align as well.
	PadEnd bool
	// Start and End are the names of the markers bounding the unit.
	Start, End string
}

const maxUnitAlign = 8

// placement is the canonical order. .data is stored in flash and copied to
// RAM by the startup code, so relocate appears once per memory class.
var placement = []Unit{
	{Name: Text, Region: ROM, Align: 4, Start: MarkerTextStart, End: MarkerTextEnd},
	{Name: Rodata, Region: ROM, Align: 4, Start: MarkerRodataStart, End: MarkerRodataEnd},
	{Name: Relocate, Region: ROM, Align: 4, Start: MarkerRelocateLoadStart, End: MarkerRelocateLoadEnd},
	{Name: Stack, Region: RAM, Align: maxUnitAlign, PadEnd: true, Start: MarkerStackStart, End: MarkerStackEnd},
	{Name: Relocate, Region: RAM, Align: 4, Start: MarkerRelocateStart, End: MarkerRelocateEnd},
	{Name: Zero, Region: RAM, Align: 4, Start: MarkerZeroStart, End: MarkerZeroEnd},
}
