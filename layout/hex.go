package layout

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/marcinbor85/gohex"
)

func parseIntelHex(r io.Reader) (*gohex.Memory, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}
	return mem, nil
}

// FlashUsageFromHex returns the number of bytes from the rom origin to the
// end of the last data segment of a kernel Intel HEX image.
func FlashUsageFromHex(b []byte, table *RegionTable) (uint64, error) {
	rom, ok := table.Region(ROM)
	if !ok {
		return 0, configErr(ROM, "region is required")
	}
	mem, err := parseIntelHex(bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	var end uint64
	for _, segment := range mem.GetDataSegments() {
		addr := uint64(segment.Address)
		if addr < rom.Origin {
			return 0, fmt.Errorf("layout: segment at %#x below region %s origin %#x", addr, ROM, rom.Origin)
		}
		end = max(end, addr+uint64(len(segment.Data)))
	}
	if end == 0 {
		return 0, nil
	}
	return end - rom.Origin, nil
}

// SizesFromHex derives placement unit sizes from a kernel Intel HEX image.
// The image does not separate code from data, so all of its flash usage is
// accounted to the text unit and RAM units are empty.
func SizesFromHex(b []byte, table *RegionTable) (Sizes, error) {
	usage, err := FlashUsageFromHex(b, table)
	if err != nil {
		return nil, err
	}
	return Sizes{Text: usage}, nil
}

// CheckKernelImage verifies that every data segment of a kernel Intel HEX
// image lies inside the kernel flash computed by l. Bytes outside it are
// reported as an *OverflowError against the rom region.
func CheckKernelImage(b []byte, l *Layout, table *RegionTable) error {
	rom, ok := table.Region(ROM)
	if !ok {
		return configErr(ROM, "region is required")
	}
	mem, err := parseIntelHex(bytes.NewReader(b))
	if err != nil {
		return err
	}
	for _, segment := range mem.GetDataSegments() {
		start := uint64(segment.Address)
		end := start + uint64(len(segment.Data))
		if start < l.KernelFlash.Start {
			return fmt.Errorf("layout: segment at %#x below kernel flash start %#x", start, l.KernelFlash.Start)
		}
		if end > l.KernelFlash.End {
			return &OverflowError{
				Region:    ROM,
				Unit:      unitAt(l, end-1),
				Required:  end - rom.Origin,
				Available: l.KernelFlash.Len(),
			}
		}
	}
	return nil
}

// unitAt names the flash unit containing addr, or the last one.
func unitAt(l *Layout, addr uint64) UnitName {
	for _, u := range placement {
		if u.Region != ROM {
			continue
		}
		start, _ := l.Markers.Lookup(u.Start)
		end, _ := l.Markers.Lookup(u.End)
		if start <= addr && addr < end {
			return u.Name
		}
	}
	return Relocate
}

// KernelBinary flattens a kernel Intel HEX image into a flash image starting
// at the rom origin, padded with 0xff up to the end of kernel flash.
func KernelBinary(b []byte, l *Layout) ([]byte, error) {
	mem, err := parseIntelHex(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if l.KernelFlash.End > 1<<32 {
		return nil, fmt.Errorf("layout: kernel flash end %#x beyond 32-bit hex address space", l.KernelFlash.End)
	}
	if l.KernelFlash.Len() > math.MaxUint32 {
		return nil, fmt.Errorf("layout: kernel flash of %#x bytes too large for a flat image", l.KernelFlash.Len())
	}
	start := uint32(l.KernelFlash.Start)
	size := uint32(l.KernelFlash.Len())
	return mem.ToBinary(start, size, 0xFF), nil
}
