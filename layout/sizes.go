package layout

import (
	"debug/elf"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadSizes decodes a JSON object such as {"text": 163840, "stack": 5376}.
func ReadSizes(r io.Reader) (Sizes, error) {
	var s Sizes
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func ReadSizesFile(name string) (Sizes, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSizes(f)
}

// elfSections maps kernel output sections to placement units. Stack
// buffers are split out of .bss by their own section.
var elfSections = map[string]UnitName{
	".vectors":      Text,
	".text":         Text,
	".rodata":       Rodata,
	".ARM.exidx":    Rodata,
	".data":         Relocate,
	".relocate":     Relocate,
	".sdata":        Relocate,
	".bss":          Zero,
	".sbss":         Zero,
	".zero":         Zero,
	".stack":        Stack,
	".stack_buffer": Stack,
}

// SizesFromELF sums the allocated kernel sections of an ELF image per
// placement unit.
func SizesFromELF(r io.ReaderAt) (Sizes, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s := make(Sizes)
	for _, sec := range f.Sections {
		if sec.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		unit, ok := elfSections[sec.Name]
		if !ok {
			continue
		}
		s[unit] += sec.Size
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("layout: no kernel sections found")
	}
	return s, nil
}

func SizesFromELFFile(name string) (Sizes, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return SizesFromELF(f)
}
