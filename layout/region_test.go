package layout

import (
	"errors"
	"testing"
)

func TestParsePermissions(t *testing.T) {
	for _, test := range []struct {
		in      string
		want    Permissions
		wantErr bool
	}{
		{in: "rx", want: PermRead | PermExec},
		{in: "RWX", want: PermRead | PermWrite | PermExec},
		{in: "r", want: PermRead},
		{in: "", wantErr: true},
		{in: "rr", wantErr: true},
		{in: "rwz", wantErr: true},
	} {
		t.Run(test.in, func(t *testing.T) {
			got, err := ParsePermissions(test.in)
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("ParsePermissions(%q) err = %v, wantErr %v", test.in, err, test.wantErr)
			}
			if got != test.want {
				t.Errorf("ParsePermissions(%q) = %s, want %s", test.in, got, test.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		name       string
		mutate     func(*RegionTable)
		wantErr    bool
		wantRegion RegionName
	}{
		{
			name:   "valid",
			mutate: func(*RegionTable) {},
		}, {
			name:   "valid with prog and boot",
			mutate: func(t *RegionTable) { *t = *inventorTable() },
		}, {
			name: "missing ram",
			mutate: func(t *RegionTable) {
				t.Regions = t.Regions[:1]
			},
			wantErr:    true,
			wantRegion: RAM,
		}, {
			name: "unknown region",
			mutate: func(t *RegionTable) {
				t.Regions = append(t.Regions, Region{Name: "flash", Origin: 0x0, Length: 0x1000, Perm: PermRead})
			},
			wantErr:    true,
			wantRegion: "flash",
		}, {
			name: "duplicate region",
			mutate: func(t *RegionTable) {
				t.Regions = append(t.Regions, Region{Name: RAM, Origin: 0x30000000, Length: 0x1000, Perm: PermRead | PermWrite})
			},
			wantErr:    true,
			wantRegion: RAM,
		}, {
			name: "zero length",
			mutate: func(t *RegionTable) {
				t.Regions[1].Length = 0
			},
			wantErr:    true,
			wantRegion: RAM,
		}, {
			name: "overlap",
			mutate: func(t *RegionTable) {
				t.Regions = append(t.Regions, Region{Name: Prog, Origin: 0x0802f000, Length: 0x10000, Perm: PermRead | PermExec})
			},
			wantErr:    true,
			wantRegion: Prog,
		}, {
			name: "beyond 32-bit address space",
			mutate: func(t *RegionTable) {
				t.Regions[1].Origin = 0xffff8000
			},
			wantErr:    true,
			wantRegion: RAM,
		}, {
			name: "64-bit address space",
			mutate: func(t *RegionTable) {
				t.Regions[1].Origin = 0x1_0000_0000
				t.AddressBits = 64
			},
		}, {
			name: "arithmetic overflow",
			mutate: func(t *RegionTable) {
				t.Regions[1].Origin = ^uint64(0) - 0x10
				t.AddressBits = 64
			},
			wantErr:    true,
			wantRegion: RAM,
		}, {
			name: "rom not executable",
			mutate: func(t *RegionTable) {
				t.Regions[0].Perm = PermRead | PermWrite
			},
			wantErr:    true,
			wantRegion: ROM,
		}, {
			name: "ram not writable",
			mutate: func(t *RegionTable) {
				t.Regions[1].Perm = PermRead | PermExec
			},
			wantErr:    true,
			wantRegion: RAM,
		}, {
			name:    "page size not a power of two",
			mutate:  func(t *RegionTable) { t.PageSize = 0x600 },
			wantErr: true,
		}, {
			name:    "page size zero",
			mutate:  func(t *RegionTable) { t.PageSize = 0 },
			wantErr: true,
		}, {
			name:    "page size below unit alignment",
			mutate:  func(t *RegionTable) { t.PageSize = 4 },
			wantErr: true,
		}, {
			name:       "page size larger than ram",
			mutate:     func(t *RegionTable) { t.PageSize = 0x20000 },
			wantErr:    true,
			wantRegion: RAM,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			table := nucleoTable(2048)
			test.mutate(table)
			err := table.Validate()
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, test.wantErr)
			}
			if err == nil {
				return
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %T, want *ConfigurationError", err)
			}
			if ce.Region != test.wantRegion {
				t.Errorf("ConfigurationError.Region = %q, want %q", ce.Region, test.wantRegion)
			}
		})
	}
}

func TestPageSizeBoundsProg(t *testing.T) {
	table := inventorTable()
	table.Regions[2].Length = 0x800
	err := table.Validate()
	var ce *ConfigurationError
	if !errors.As(err, &ce) || ce.Region != Prog {
		t.Errorf("Validate() = %v, want configuration error on prog", err)
	}
}
