package layout

import "math"

// Span is a half-open address range.
type Span struct {
	Start uint64
	End   uint64
}

func (s Span) Len() uint64 {
	return s.End - s.Start
}

func (s Span) Contains(addr uint64) bool {
	return s.Start <= addr && addr < s.End
}

type Options struct {
	// MinAppFlash and MinAppRAM turn an application region smaller than
	// the given number of bytes into an *ExhaustionError.
	MinAppFlash uint64
	MinAppRAM   uint64
}

// Layout is the result of one layout computation.
type Layout struct {
	Chip     string
	PageSize uint64
	Markers  Markers

	KernelFlash Span
	KernelRAM   Span
	Apps        Span
	AppMem      Span

	// FlashSlack and RAMSlack count the bytes of the application
	// candidate regions that rounding to PageSize left unprotectable.
	FlashSlack uint64
	RAMSlack   uint64
}

// Compute places the kernel units described by sizes onto the table and
// carves the page aligned application regions out of what is left.
// It returns no layout at all when any check fails.
func Compute(table *RegionTable, sizes Sizes, opts Options) (*Layout, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if err := sizes.Validate(); err != nil {
		return nil, err
	}

	var markers Markers
	cursor := make(map[RegionName]uint64)
	for _, r := range table.Regions {
		cursor[r.Name] = r.Origin
	}
	for _, u := range placement {
		r, _ := table.Region(u.Region)
		size := sizes[u.Name]
		start, ok := alignUp(cursor[u.Region], u.Align)
		end := start + size
		if ok && end >= start && u.PadEnd {
			end, ok = alignUp(end, u.Align)
		}
		if !ok || end < start || end > r.End() {
			return nil, &OverflowError{
				Region:    r.Name,
				Unit:      u.Name,
				Required:  required(r, u, cursor[u.Region], size),
				Available: r.Length,
			}
		}
		markers.add(u.Start, start)
		markers.add(u.End, end)
		cursor[u.Region] = end
	}

	rom, _ := table.Region(ROM)
	ram, _ := table.Region(RAM)
	l := &Layout{
		Chip:        table.Chip,
		PageSize:    table.PageSize,
		KernelFlash: Span{Start: rom.Origin, End: cursor[ROM]},
		KernelRAM:   Span{Start: ram.Origin, End: cursor[RAM]},
	}
	markers.add(MarkerKernelFlashEnd, l.KernelFlash.End)
	markers.add(MarkerKernelRAMEnd, l.KernelRAM.End)

	flash := Span{Start: cursor[ROM], End: rom.End()}
	flashRegion := ROM
	if prog, ok := table.Region(Prog); ok {
		flash = Span{Start: prog.Origin, End: prog.End()}
		flashRegion = Prog
	}
	var err error
	if l.Apps, l.FlashSlack, err = carve(flashRegion, flash, table.PageSize, opts.MinAppFlash); err != nil {
		return nil, err
	}
	mem := Span{Start: cursor[RAM], End: ram.End()}
	if l.AppMem, l.RAMSlack, err = carve(RAM, mem, table.PageSize, opts.MinAppRAM); err != nil {
		return nil, err
	}
	markers.add(MarkerAppsStart, l.Apps.Start)
	markers.add(MarkerAppsEnd, l.Apps.End)
	markers.add(MarkerAppMemStart, l.AppMem.Start)
	markers.add(MarkerAppMemEnd, l.AppMem.End)

	l.Markers = markers
	return l, nil
}

// carve rounds the candidate span inwards to page boundaries.
func carve(name RegionName, cand Span, pageSize, minLen uint64) (Span, uint64, error) {
	start, ok := alignUp(cand.Start, pageSize)
	end := alignDown(cand.End, pageSize)
	if !ok {
		start = math.MaxUint64
	}
	if start > end {
		return Span{}, 0, &ExhaustionError{Region: name, Start: start, End: end, Requested: minLen}
	}
	s := Span{Start: start, End: end}
	if s.Len() < minLen {
		return Span{}, 0, &ExhaustionError{Region: name, Start: start, End: end, Requested: minLen}
	}
	return s, cand.Len() - s.Len(), nil
}

// required returns the bytes needed from the region origin to the end of a
// unit, including end padding, saturating instead of wrapping.
func required(r Region, u Unit, cursor, size uint64) uint64 {
	start, ok := alignUp(cursor, u.Align)
	if !ok || size > math.MaxUint64-start {
		return math.MaxUint64
	}
	end := start + size
	if u.PadEnd {
		if end, ok = alignUp(end, u.Align); !ok {
			return math.MaxUint64
		}
	}
	return end - r.Origin
}
