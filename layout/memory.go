package layout

import (
	"context"
	"fmt"
	"sort"

	"github.com/coreos/go-semver/semver"
	"github.com/q0jt/go-layout/layout/config"
	"github.com/q0jt/go-layout/layout/config/chip"
)

const DefaultConfigPath = "./pkl/config.pkl"

// configMajor is the LayoutConfig schema major version this package reads.
const configMajor = 1

func loadLayoutConfig(ctx context.Context, path string) (*config.LayoutConfig, error) {
	conf, err := config.LoadFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := checkConfigVersion(conf.Version); err != nil {
		return nil, err
	}
	return conf, nil
}

func checkConfigVersion(v string) error {
	ver, err := semver.NewVersion(v)
	if err != nil {
		return configErr("", "invalid config version %q: %v", v, err)
	}
	if ver.Major != configMajor {
		return configErr("", "config version %s is not supported, want %d.x", ver, configMajor)
	}
	return nil
}

// LoadRegionTable evaluates the pkl config at path and returns the region
// table registered for c.
func LoadRegionTable(ctx context.Context, path string, c chip.Chip) (*RegionTable, error) {
	conf, err := loadLayoutConfig(ctx, path)
	if err != nil {
		return nil, err
	}
	cl, err := getChipLayout(conf, c)
	if err != nil {
		return nil, err
	}
	return FromConfig(c, cl)
}

// Chips lists the chips registered in the pkl config at path.
func Chips(ctx context.Context, path string) ([]chip.Chip, error) {
	conf, err := loadLayoutConfig(ctx, path)
	if err != nil {
		return nil, err
	}
	chips := make([]chip.Chip, 0, len(conf.Chips))
	for c := range conf.Chips {
		chips = append(chips, c)
	}
	sort.Slice(chips, func(i, j int) bool { return chips[i] < chips[j] })
	return chips, nil
}

func getChipLayout(conf *config.LayoutConfig, c chip.Chip) (*config.ChipLayout, error) {
	for name, layout := range conf.Chips {
		if name != c {
			continue
		}
		return layout, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownChip, c)
}

// FromConfig converts a decoded chip layout into a validated RegionTable.
func FromConfig(c chip.Chip, cl *config.ChipLayout) (*RegionTable, error) {
	if cl == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChip, c)
	}
	t := &RegionTable{
		Chip:        c.String(),
		PageSize:    uint64(cl.PageSize),
		AddressBits: uint(cl.AddressBits),
	}
	for name, r := range cl.Regions {
		if r == nil {
			return nil, configErr(RegionName(name), "empty region")
		}
		perm, err := ParsePermissions(r.Permissions)
		if err != nil {
			return nil, configErr(RegionName(name), "%v", err)
		}
		t.Regions = append(t.Regions, Region{
			Name:   RegionName(name),
			Origin: uint64(r.Origin),
			Length: uint64(r.Length),
			Perm:   perm,
		})
	}
	sort.Slice(t.Regions, func(i, j int) bool { return t.Regions[i].Origin < t.Regions[j].Origin })
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
