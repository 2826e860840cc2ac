package sysinfo

import (
	"strings"
	"testing"

	"github.com/shirou/gopsutil/v4/cpu"
)

func TestModelName(t *testing.T) {
	cases := []struct {
		name  string
		infos []cpu.InfoStat
		want  string
	}{
		{"intel marks", []cpu.InfoStat{{ModelName: "Intel(R) Core(TM) i7-8700K CPU @ 3.70GHz"}}, "Intel Core i7-8700K CPU @ 3.70GHz"},
		{"amd", []cpu.InfoStat{{ModelName: "AMD Ryzen 9 5950X 16-Core Processor"}, {ModelName: "other"}}, "AMD Ryzen 9 5950X 16-Core Processor"},
		{"single word", []cpu.InfoStat{{ModelName: "ARMv7"}}, ""},
		{"single word after marks", []cpu.InfoStat{{ModelName: "Intel(R) (TM)"}}, ""},
		{"marks only", []cpu.InfoStat{{ModelName: "Neoverse(TM)"}}, ""},
		{"later entry", []cpu.InfoStat{{ModelName: "Cortex"}, {ModelName: "Cortex-A72 r0p3"}}, "Cortex-A72 r0p3"},
		{"none", nil, ""},
	}
	for _, tc := range cases {
		if got := modelName(tc.infos); got != tc.want {
			t.Fatalf("%s: modelName=%q want %q", tc.name, got, tc.want)
		}
	}
}

func TestFallbackCPU(t *testing.T) {
	cases := []struct {
		processor      string
		cores, threads int
		mhz            float64
		want           string
	}{
		{"arm64", 4, 8, 2400, "arm64 4c/8t @ 2.40GHz"},
		{"Intel", 6, 12, 4700, "Intel 6c/12t @ 4.70GHz"},
		{"arm64", 0, 8, 0, "arm64 8c/8t"},
	}
	for _, tc := range cases {
		if got := fallbackCPU(tc.processor, tc.cores, tc.threads, tc.mhz); got != tc.want {
			t.Fatalf("fallbackCPU(%q,%d,%d,%v)=%q want %q", tc.processor, tc.cores, tc.threads, tc.mhz, got, tc.want)
		}
	}
}

func TestProcessorName(t *testing.T) {
	if got := processorName("GenuineIntel", "amd64"); got != "Intel" {
		t.Fatalf("got %q", got)
	}
	if got := processorName("  ", "arm64"); got != "arm64" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatGiB(t *testing.T) {
	if got := formatGiB(16 << 30); got != "16.0 GiB" {
		t.Fatalf("got %q", got)
	}
	if got := formatGiB(67_325_000_000); got != "62.7 GiB" {
		t.Fatalf("got %q", got)
	}
}

func TestHostFactsNeverEmpty(t *testing.T) {
	if CPU() == "" {
		t.Fatalf("CPU() returned empty string")
	}
	if ram := RAM(); !strings.HasSuffix(ram, " GiB") {
		t.Fatalf("RAM()=%q", ram)
	}
}
