package layout

import (
	"bufio"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// WriteSymbols writes the markers as linker script assignments.
func WriteSymbols(w io.Writer, l *Layout) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "/* Boundary symbols for %s, PAGE_SIZE = %#x */\n", l.Chip, l.PageSize)
	for _, m := range l.Markers {
		fmt.Fprintf(bw, "PROVIDE(%s = 0x%08x);\n", m.Name, m.Addr)
	}
	return bw.Flush()
}

// WriteMemoryScript writes the per-chip linker script: the MEMORY block,
// the protection granularity and an include of the shared kernel layout.
func WriteMemoryScript(w io.Writer, table *RegionTable, include string) error {
	if err := table.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "/* Memory layout for %s */\n\n", table.Chip)
	fmt.Fprintln(bw, "MEMORY")
	fmt.Fprintln(bw, "{")
	for _, r := range table.Regions {
		fmt.Fprintf(bw, "  %-5s (%s) : ORIGIN = 0x%08x, LENGTH = 0x%08x\n", r.Name, r.Perm, r.Origin, r.Length)
	}
	fmt.Fprintln(bw, "}")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "PAGE_SIZE = %s;\n", linkerSize(table.PageSize))
	if include != "" {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "INCLUDE %s\n", include)
	}
	return bw.Flush()
}

func linkerSize(n uint64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dM", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dK", n>>10)
	}
	return fmt.Sprintf("%d", n)
}

// maxExactAddr is the largest address a protobuf number value holds exactly.
const maxExactAddr = 1 << 53

func markerStruct(l *Layout) (*structpb.Struct, error) {
	fields := make(map[string]any, len(l.Markers))
	for _, m := range l.Markers {
		if m.Addr > maxExactAddr {
			return nil, fmt.Errorf("layout: marker %s address %#x not representable", m.Name, m.Addr)
		}
		fields[m.Name] = float64(m.Addr)
	}
	return structpb.NewStruct(fields)
}

// MarshalMarkers encodes the marker set as a protobuf Struct.
func MarshalMarkers(l *Layout) ([]byte, error) {
	s, err := markerStruct(l)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(s)
}

// MarshalMarkersJSON encodes the marker set as a JSON object.
func MarshalMarkersJSON(l *Layout) ([]byte, error) {
	s, err := markerStruct(l)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

// UnmarshalMarkers decodes a marker set written by MarshalMarkers.
func UnmarshalMarkers(b []byte) (map[string]uint64, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	out := make(map[string]uint64, len(s.Fields))
	for name, v := range s.Fields {
		n, ok := v.Kind.(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("layout: marker %s is not a number", name)
		}
		out[name] = uint64(n.NumberValue)
	}
	return out, nil
}

func (l *Layout) String() string {
	return fmt.Sprintf("chip: %s\n- kernel flash: %#x-%#x (%#x bytes)\n- kernel ram: %#x-%#x (%#x bytes)\n"+
		"- apps: %#x-%#x (%#x bytes, slack %#x)\n- app memory: %#x-%#x (%#x bytes, slack %#x)",
		l.Chip,
		l.KernelFlash.Start, l.KernelFlash.End, l.KernelFlash.Len(),
		l.KernelRAM.Start, l.KernelRAM.End, l.KernelRAM.Len(),
		l.Apps.Start, l.Apps.End, l.Apps.Len(), l.FlashSlack,
		l.AppMem.Start, l.AppMem.End, l.AppMem.Len(), l.RAMSlack)
}
