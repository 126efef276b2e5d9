package layout

import "fmt"

// Symbols exported to the kernel runtime.
const (
	MarkerTextStart         = "_stext"
	MarkerTextEnd           = "_etext"
	MarkerRodataStart       = "_srodata"
	MarkerRodataEnd         = "_erodata"
	MarkerRelocateLoadStart = "_sirelocate"
	MarkerRelocateLoadEnd   = "_eirelocate"
	MarkerKernelFlashEnd    = "_ekernel_flash"

	MarkerStackStart    = "_sstack"
	MarkerStackEnd      = "_estack"
	MarkerRelocateStart = "_srelocate"
	MarkerRelocateEnd   = "_erelocate"
	MarkerZeroStart     = "_szero"
	MarkerZeroEnd       = "_ezero"
	MarkerKernelRAMEnd  = "_ekernel_ram"

	MarkerAppsStart   = "_sapps"
	MarkerAppsEnd     = "_eapps"
	MarkerAppMemStart = "_sappmem"
	MarkerAppMemEnd   = "_eappmem"
)

type Marker struct {
	Name string
	Addr uint64
}

func (m Marker) String() string {
	return fmt.Sprintf("%s = %#x", m.Name, m.Addr)
}

// Markers keeps boundary markers in emission order.
type Markers []Marker

// Lookup returns the address of the named marker.
func (ms Markers) Lookup(name string) (uint64, bool) {
	for _, m := range ms {
		if m.Name == name {
			return m.Addr, true
		}
	}
	return 0, false
}

func (ms Markers) Map() map[string]uint64 {
	out := make(map[string]uint64, len(ms))
	for _, m := range ms {
		out[m.Name] = m.Addr
	}
	return out
}

func (ms *Markers) add(name string, addr uint64) {
	*ms = append(*ms, Marker{Name: name, Addr: addr})
}
