// The tocklayout tool computes the kernel and application memory layout of
// a chip and writes the boundary symbols consumed by the kernel build.
package main

import (
	"bytes"
	"context"
	"flag"
	"os"

	"github.com/q0jt/go-layout/layout"
	"github.com/q0jt/go-layout/layout/config/chip"
	"k8s.io/klog"
)

var (
	configFile  = flag.String("config", layout.DefaultConfigPath, "Pkl module describing the chips.")
	chipName    = flag.String("chip", "", "Chip to lay out.")
	sizesFile   = flag.String("sizes", "", "JSON file with placement unit sizes.")
	elfFile     = flag.String("elf", "", "Kernel ELF to read placement unit sizes from.")
	hexFile     = flag.String("hex", "", "Kernel Intel HEX image to check against the layout, and to size kernel flash from when -sizes and -elf are unset.")
	binFile     = flag.String("kernel_bin", "", "File to write the flattened kernel flash image to, requires -hex.")
	format      = flag.String("format", "ld", "Output format: ld, memory, json, proto or report.")
	include     = flag.String("include", "../kernel_layout.ld", "Shared layout included by the memory format.")
	outputFile  = flag.String("output", "", "File to write to, stdout if empty.")
	minAppFlash = flag.Uint64("min_app_flash", 0, "Minimum application flash in bytes.")
	minAppRAM   = flag.Uint64("min_app_ram", 0, "Minimum application RAM in bytes.")
	listChips   = flag.Bool("list", false, "List the chips in the config and exit.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	ctx := context.Background()

	if *listChips {
		chips, err := layout.Chips(ctx, *configFile)
		if err != nil {
			klog.Exitf("Failed to load config %q: %v", *configFile, err)
		}
		for _, c := range chips {
			os.Stdout.WriteString(c.String() + "\n")
		}
		return
	}

	var c chip.Chip
	if err := c.UnmarshalBinary([]byte(*chipName)); err != nil {
		klog.Exitf("Invalid -chip: %v", err)
	}
	table, err := layout.LoadRegionTable(ctx, *configFile, c)
	if err != nil {
		klog.Exitf("Failed to load region table for %s: %v", c, err)
	}

	b := &bytes.Buffer{}
	if *format == "memory" {
		if err := layout.WriteMemoryScript(b, table, *include); err != nil {
			klog.Exitf("WriteMemoryScript: %v", err)
		}
		writeOutputOrDie(b.Bytes())
		return
	}

	sizes := sizesOrDie(table)
	l, err := layout.Compute(table, sizes, layout.Options{
		MinAppFlash: *minAppFlash,
		MinAppRAM:   *minAppRAM,
	})
	if err != nil {
		klog.Exitf("Layout failed for %s: %v", c, err)
	}
	klog.Infof("Layout for %s:\n%s", c, l)

	if *hexFile != "" {
		img, err := os.ReadFile(*hexFile)
		if err != nil {
			klog.Exitf("Failed to read kernel image %q: %v", *hexFile, err)
		}
		if err := layout.CheckKernelImage(img, l, table); err != nil {
			klog.Exitf("Kernel image %q does not match layout: %v", *hexFile, err)
		}
		klog.Infof("Kernel image %q fits %#x bytes of kernel flash", *hexFile, l.KernelFlash.Len())
		if *binFile != "" {
			bin, err := layout.KernelBinary(img, l)
			if err != nil {
				klog.Exitf("KernelBinary: %v", err)
			}
			if err := os.WriteFile(*binFile, bin, 0o644); err != nil {
				klog.Exitf("WriteFile: %v", err)
			}
			klog.Infof("Wrote %d bytes of kernel image to %q", len(bin), *binFile)
		}
	}

	switch *format {
	case "ld":
		err = layout.WriteSymbols(b, l)
	case "json":
		var out []byte
		if out, err = layout.MarshalMarkersJSON(l); err == nil {
			b.Write(out)
		}
	case "proto":
		var out []byte
		if out, err = layout.MarshalMarkers(l); err == nil {
			checkMarkersOrDie(out, l)
			b.Write(out)
		}
	case "report":
		b.WriteString(l.String() + "\n")
	default:
		klog.Exitf("Unsupported -format %q", *format)
	}
	if err != nil {
		klog.Exitf("Failed to encode layout: %v", err)
	}
	writeOutputOrDie(b.Bytes())
}

// checkMarkersOrDie decodes an encoded marker set and compares it with l.
func checkMarkersOrDie(b []byte, l *layout.Layout) {
	got, err := layout.UnmarshalMarkers(b)
	if err != nil {
		klog.Exitf("UnmarshalMarkers: %v", err)
	}
	want := l.Markers.Map()
	if len(got) != len(want) {
		klog.Exitf("Encoded %d markers, want %d", len(got), len(want))
	}
	for name, addr := range want {
		if got[name] != addr {
			klog.Exitf("Encoded marker %s = %#x, want %#x", name, got[name], addr)
		}
	}
}

// sizesOrDie reads the placement unit sizes from -sizes or -elf, falling
// back to the flash usage of the -hex image.
func sizesOrDie(table *layout.RegionTable) layout.Sizes {
	switch {
	case *sizesFile != "" && *elfFile != "":
		klog.Exit("Only one of -sizes and -elf may be set")
	case *sizesFile != "":
		s, err := layout.ReadSizesFile(*sizesFile)
		if err != nil {
			klog.Exitf("Failed to read sizes %q: %v", *sizesFile, err)
		}
		return s
	case *elfFile != "":
		s, err := layout.SizesFromELFFile(*elfFile)
		if err != nil {
			klog.Exitf("Failed to read kernel ELF %q: %v", *elfFile, err)
		}
		return s
	case *hexFile != "":
		img, err := os.ReadFile(*hexFile)
		if err != nil {
			klog.Exitf("Failed to read kernel image %q: %v", *hexFile, err)
		}
		s, err := layout.SizesFromHex(img, table)
		if err != nil {
			klog.Exitf("Failed to size kernel image %q: %v", *hexFile, err)
		}
		klog.Infof("Sized kernel flash from %q, RAM units are empty", *hexFile)
		return s
	}
	klog.Exit("One of -sizes, -elf or -hex is required")
	return nil
}

func writeOutputOrDie(b []byte) {
	if *outputFile == "" {
		if _, err := os.Stdout.Write(b); err != nil {
			klog.Exitf("Write: %v", err)
		}
		return
	}
	if err := os.WriteFile(*outputFile, b, 0o644); err != nil {
		klog.Exitf("WriteFile: %v", err)
	}
	klog.Infof("Wrote %d bytes to %q", len(b), *outputFile)
}
