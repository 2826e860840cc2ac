// Package sysinfo reports the host facts the bot quotes in chat.
package sysinfo

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
)

// CPU returns the processor model name, or
// "{processor} {cores}c/{threads}t @ {max GHz}GHz" when no usable model name
// is reported.
func CPU() string {
	infos, _ := cpu.Info()
	if name := modelName(infos); name != "" {
		return name
	}
	threads, err := cpu.Counts(true)
	if err != nil || threads <= 0 {
		threads = runtime.NumCPU()
	}
	cores, err := cpu.Counts(false)
	if err != nil {
		cores = 0
	}
	var vendor string
	var mhz float64
	if len(infos) > 0 {
		vendor, mhz = infos[0].VendorID, infos[0].Mhz
	}
	return fallbackCPU(processorName(vendor, runtime.GOARCH), cores, threads, mhz)
}

// modelName returns the first model name that still has more than one word
// once trademark marks are removed.
func modelName(infos []cpu.InfoStat) string {
	for _, info := range infos {
		name := strings.ReplaceAll(info.ModelName, "(R)", "")
		name = strings.ReplaceAll(name, "(TM)", "")
		if words := strings.Fields(name); len(words) > 1 {
			return strings.Join(words, " ")
		}
	}
	return ""
}

func processorName(vendor, arch string) string {
	words := strings.Fields(vendor)
	if len(words) == 0 {
		return arch
	}
	return strings.ReplaceAll(words[0], "GenuineIntel", "Intel")
}

// 물리 코어 수를 알 수 없으면 스레드 수로 대체, 클럭 미상이면 생략.
func fallbackCPU(processor string, cores, threads int, mhz float64) string {
	if cores <= 0 {
		cores = threads
	}
	out := fmt.Sprintf("%s %dc/%dt", processor, cores, threads)
	if mhz > 0 {
		out += fmt.Sprintf(" @ %.2fGHz", mhz/1000)
	}
	return out
}
