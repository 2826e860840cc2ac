package sysinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

const gib = 1 << 30

// RAM returns total memory as "{n.n} GiB", or "" when unknown.
func RAM() string {
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil || vm.Total == 0 {
		return ""
	}
	return formatGiB(vm.Total)
}

func formatGiB(bytes uint64) string {
	return fmt.Sprintf("%.1f GiB", float64(bytes)/gib)
}
