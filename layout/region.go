package layout

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

type RegionName string

const (
	// Boot is flash reserved for a bootloader. Nothing is placed into it.
	Boot RegionName = "boot"
	// ROM holds the kernel image.
	ROM RegionName = "rom"
	// Prog is an optional flash region dedicated to application images.
	Prog RegionName = "prog"
	RAM  RegionName = "ram"
)

func (n RegionName) valid() bool {
	switch n {
	case Boot, ROM, Prog, RAM:
		return true
	}
	return false
}

type Permissions uint8

const (
	PermRead Permissions = 1 << iota
	PermWrite
	PermExec
)

// ParsePermissions parses linker style attributes such as "rx" or "rwx".
func ParsePermissions(s string) (Permissions, error) {
	var p Permissions
	for _, c := range strings.ToLower(s) {
		var bit Permissions
		switch c {
		case 'r':
			bit = PermRead
		case 'w':
			bit = PermWrite
		case 'x':
			bit = PermExec
		default:
			return 0, fmt.Errorf("invalid permission %q in %q", c, s)
		}
		if p&bit != 0 {
			return 0, fmt.Errorf("duplicate permission %q in %q", c, s)
		}
		p |= bit
	}
	if p == 0 {
		return 0, fmt.Errorf("empty permissions")
	}
	return p, nil
}

func (p Permissions) Has(q Permissions) bool {
	return p&q == q
}

func (p Permissions) String() string {
	var sb strings.Builder
	if p.Has(PermRead) {
		sb.WriteByte('r')
	}
	if p.Has(PermWrite) {
		sb.WriteByte('w')
	}
	if p.Has(PermExec) {
		sb.WriteByte('x')
	}
	return sb.String()
}

type Region struct {
	Name   RegionName
	Origin uint64
	Length uint64
	Perm   Permissions
}

// End returns the first address past the region.
func (r Region) End() uint64 {
	return r.Origin + r.Length
}

func (r Region) overlaps(o Region) bool {
	return r.Origin < o.End() && o.Origin < r.End()
}

const defaultAddressBits = 32

// RegionTable is the per-chip description consumed by Compute.
type RegionTable struct {
	Chip    string
	Regions []Region
	// PageSize is the MPU protection granularity.
	PageSize uint64
	// AddressBits bounds the physical address space. Zero means 32.
	AddressBits uint
}

// Region returns the named region.
func (t *RegionTable) Region(name RegionName) (Region, bool) {
	for _, r := range t.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

func (t *RegionTable) addressLimit() (uint64, bool) {
	ab := t.AddressBits
	if ab == 0 {
		ab = defaultAddressBits
	}
	if ab >= 64 {
		return 0, false
	}
	return uint64(1) << ab, true
}

// Validate checks the table before any layout runs. All violations are
// reported as *ConfigurationError.
func (t *RegionTable) Validate() error {
	if t.AddressBits > 64 {
		return configErr("", "address width of %d bits is not supported", t.AddressBits)
	}
	limit, bounded := t.addressLimit()
	seen := make(map[RegionName]bool)
	for _, r := range t.Regions {
		if !r.Name.valid() {
			return configErr(r.Name, "unknown region")
		}
		if seen[r.Name] {
			return configErr(r.Name, "region declared twice")
		}
		seen[r.Name] = true
		if r.Length == 0 {
			return configErr(r.Name, "zero length")
		}
		if r.End() < r.Origin {
			return configErr(r.Name, "origin %#x + length %#x overflows", r.Origin, r.Length)
		}
		if bounded && r.End() > limit {
			return configErr(r.Name, "end %#x beyond %d-bit address space", r.End(), bits.Len64(limit-1))
		}
		if err := checkPermissions(r); err != nil {
			return err
		}
	}
	for _, name := range []RegionName{ROM, RAM} {
		if !seen[name] {
			return configErr(name, "region is required")
		}
	}

	sorted := make([]Region, len(t.Regions))
	copy(sorted, t.Regions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Origin < sorted[j].Origin })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].overlaps(sorted[i]) {
			return configErr(sorted[i].Name, "overlaps region %s at %#x", sorted[i-1].Name, sorted[i].Origin)
		}
	}

	return t.validatePageSize()
}

func checkPermissions(r Region) error {
	var need Permissions
	switch r.Name {
	case ROM:
		need = PermRead | PermExec
	case RAM:
		need = PermRead | PermWrite
	default:
		need = PermRead
	}
	if !r.Perm.Has(need) {
		return configErr(r.Name, "permissions %q lack %q", r.Perm, need)
	}
	return nil
}

func (t *RegionTable) validatePageSize() error {
	ps := t.PageSize
	if !isPowerOfTwo(ps) {
		return configErr("", "page size %d is not a power of two", ps)
	}
	if ps < maxUnitAlign {
		return configErr("", "page size %d is below the %d byte unit alignment", ps, maxUnitAlign)
	}
	for _, name := range t.protectedRegions() {
		r, _ := t.Region(name)
		if ps > r.Length {
			return configErr(name, "page size %#x larger than region length %#x", ps, r.Length)
		}
	}
	return nil
}

// protectedRegions lists the regions an application boundary is carved from.
func (t *RegionTable) protectedRegions() []RegionName {
	if _, ok := t.Region(Prog); ok {
		return []RegionName{Prog, RAM}
	}
	return []RegionName{ROM, RAM}
}
