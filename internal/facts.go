// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package internal

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// SystemFacts gathers facts about the target so test plans can assert on the environment they run on.
// Sections that cannot be read on a platform are left empty rather than failing.
func SystemFacts(ctx context.Context) (map[string]any, error) {
	return map[string]any{
		"memory":    memoryFacts(ctx),
		"cpu":       cpuFacts(ctx),
		"partition": partitionFacts(ctx),
		"host":      hostFacts(ctx),
		"network":   networkFacts(ctx),
	}, nil
}

func memoryFacts(ctx context.Context) map[string]any {
	swap := map[string]any{
		"info":    map[string]any{},
		"devices": []any{},
	}
	facts := map[string]any{
		"swap":    swap,
		"virtual": map[string]any{},
	}

	if virtual, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		facts["virtual"] = virtual
	}
	if info, err := mem.SwapMemoryWithContext(ctx); err == nil {
		swap["info"] = info
	}
	if devices, err := mem.SwapDevicesWithContext(ctx); err == nil {
		swap["devices"] = devices
	}

	return facts
}

func cpuFacts(ctx context.Context) map[string]any {
	facts := map[string]any{
		"info":    []any{},
		"logical": 0,
	}

	if info, err := cpu.InfoWithContext(ctx); err == nil {
		facts["info"] = info
	}
	if count, err := cpu.CountsWithContext(ctx, true); err == nil {
		facts["logical"] = count
	}

	return facts
}

func partitionFacts(ctx context.Context) map[string]any {
	facts := map[string]any{
		"partitions": []any{},
		"usage":      []any{},
	}

	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil || len(parts) == 0 {
		return facts
	}

	usages := []*disk.UsageStat{}
	for _, part := range parts {
		u, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			continue
		}
		usages = append(usages, u)
	}

	facts["partitions"] = parts
	facts["usage"] = usages

	return facts
}

func hostFacts(ctx context.Context) map[string]any {
	facts := map[string]any{
		"info": map[string]any{},
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		facts["info"] = info
	}

	return facts
}

func networkFacts(ctx context.Context) map[string]any {
	facts := map[string]any{
		"interfaces": []any{},
	}

	if interfaces, err := net.InterfacesWithContext(ctx); err == nil {
		facts["interfaces"] = interfaces
	}

	return facts
}
