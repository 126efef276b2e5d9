package layout

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/marcinbor85/gohex"
)

func intelHex(t *testing.T, segments map[uint32][]byte) []byte {
	t.Helper()
	mem := gohex.NewMemory()
	for addr, data := range segments {
		if err := mem.AddBinary(addr, data); err != nil {
			t.Fatalf("AddBinary(%#x): %v", addr, err)
		}
	}
	var buf bytes.Buffer
	if err := mem.DumpIntelHex(&buf, 16); err != nil {
		t.Fatalf("DumpIntelHex: %v", err)
	}
	return buf.Bytes()
}

func kernelImage(t *testing.T) []byte {
	text := bytes.Repeat([]byte{0xaa}, 0x100)
	data := bytes.Repeat([]byte{0x55}, 0x10)
	return intelHex(t, map[uint32][]byte{
		0x08000000: text,
		0x08000100: data,
	})
}

func TestFlashUsageFromHex(t *testing.T) {
	got, err := FlashUsageFromHex(kernelImage(t), nucleoTable(2048))
	if err != nil {
		t.Fatalf("FlashUsageFromHex: %v", err)
	}
	if got != 0x110 {
		t.Errorf("FlashUsageFromHex = %#x, want 0x110", got)
	}

	low := intelHex(t, map[uint32][]byte{0x07fff000: {1, 2, 3, 4}})
	if _, err := FlashUsageFromHex(low, nucleoTable(2048)); err == nil {
		t.Error("FlashUsageFromHex succeeded for a segment below rom")
	}
}

func TestCheckKernelImage(t *testing.T) {
	img := kernelImage(t)
	table := nucleoTable(2048)

	l, err := Compute(table, Sizes{Text: 0x100, Relocate: 0x10}, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if err := CheckKernelImage(img, l, table); err != nil {
		t.Errorf("CheckKernelImage: %v", err)
	}

	small, err := Compute(table, Sizes{Text: 0x100, Relocate: 0x8}, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	err = CheckKernelImage(img, small, table)
	var oe *OverflowError
	if !errors.As(err, &oe) {
		t.Fatalf("CheckKernelImage = %v, want *OverflowError", err)
	}
	if oe.Region != ROM || oe.Over() != 0x8 {
		t.Errorf("overflow region %s by %#x, want rom by 0x8", oe.Region, oe.Over())
	}
}

func TestKernelBinary(t *testing.T) {
	table := nucleoTable(2048)
	l, err := Compute(table, Sizes{Text: 0x100, Relocate: 0x20}, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	bin, err := KernelBinary(kernelImage(t), l)
	if err != nil {
		t.Fatalf("KernelBinary: %v", err)
	}
	if len(bin) != 0x120 {
		t.Fatalf("len(KernelBinary) = %#x, want 0x120", len(bin))
	}
	if bin[0] != 0xaa || bin[0x100] != 0x55 || bin[0x11f] != 0xff {
		t.Errorf("KernelBinary content = % x ... % x", bin[:4], bin[0x10c:])
	}
}

func TestSizesFromHex(t *testing.T) {
	table := nucleoTable(2048)
	got, err := SizesFromHex(kernelImage(t), table)
	if err != nil {
		t.Fatalf("SizesFromHex: %v", err)
	}
	if diff := cmp.Diff(Sizes{Text: 0x110}, got); diff != "" {
		t.Errorf("SizesFromHex diff (-want +got):\n%s", diff)
	}
	l, err := Compute(table, got, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if err := CheckKernelImage(kernelImage(t), l, table); err != nil {
		t.Errorf("CheckKernelImage: %v", err)
	}
}

func TestKernelBinaryTooLarge(t *testing.T) {
	l := &Layout{KernelFlash: Span{Start: 0, End: 1 << 32}}
	bin, err := KernelBinary(kernelImage(t), l)
	if err == nil {
		t.Errorf("KernelBinary = %d bytes, want error for a 4GiB kernel flash", len(bin))
	}
}
