package main

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"frame-monitor/internal/logger"
	"frame-monitor/internal/models"
	"frame-monitor/internal/services"

	"github.com/shirou/gopsutil/v4/disk"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	maxFieldLen = 255
	maxIPLen    = 39
)

type sensorReadings struct {
	drives    []services.DriveSensorIn
	ipPorts   []services.IpPortSensorIn
	processes []services.ProcessSensorIn
}

// readSensors collects whatever the host lets us see. A failing source is
// logged and reported as empty.
func readSensors(ctx context.Context) sensorReadings {
	return sensorReadings{
		drives:    readDrives(ctx),
		ipPorts:   readIpPorts(ctx),
		processes: readProcesses(ctx),
	}
}

func readProcesses(ctx context.Context) []services.ProcessSensorIn {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		logger.Warn("Cannot list processes", logger.Err(err))
		return nil
	}

	out := make([]services.ProcessSensorIn, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		created, err := p.CreateTimeWithContext(ctx)
		if err != nil {
			continue
		}
		// Exe needs more privilege than Name for other users' processes.
		exe, _ := p.ExeWithContext(ctx)
		if reading, ok := processReading(p.Pid, name, exe, created); ok {
			out = append(out, reading)
		}
	}
	return out
}

// processReading maps one process. createdMillis is milliseconds since the
// epoch.
func processReading(pid int32, name, exe string, createdMillis int64) (services.ProcessSensorIn, bool) {
	if name == "" || pid < 0 || createdMillis <= 0 {
		return services.ProcessSensorIn{}, false
	}
	if exe == "" {
		exe = name
	}
	return services.ProcessSensorIn{
		FilePath:    truncate(exe),
		ProcessName: truncate(name),
		ProcessID:   int(pid),
		StartedAt:   time.UnixMilli(createdMillis).UTC().Format(services.TimeLayout),
	}, true
}

func readIpPorts(ctx context.Context) []services.IpPortSensorIn {
	conns, err := psnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		logger.Warn("Cannot list TCP connections", logger.Err(err))
		return nil
	}

	var out []services.IpPortSensorIn
	for _, conn := range conns {
		if reading, ok := ipPortReading(conn); ok {
			out = append(out, reading)
		}
	}
	return out
}

var tcpStates = map[string]models.IpPortState{
	"LISTEN":      models.IpPortListen,
	"ESTABLISHED": models.IpPortEstablish,
}

// ipPortReading maps a listening or established TCP socket. Other states are
// skipped.
func ipPortReading(conn psnet.ConnectionStat) (services.IpPortSensorIn, bool) {
	state, ok := tcpStates[conn.Status]
	if !ok {
		return services.IpPortSensorIn{}, false
	}
	if conn.Laddr.IP == "" || conn.Laddr.Port == 0 || conn.Laddr.Port > 65535 || conn.Raddr.Port > 65535 {
		return services.IpPortSensorIn{}, false
	}
	if len(conn.Laddr.IP) > maxIPLen || len(conn.Raddr.IP) > maxIPLen {
		return services.IpPortSensorIn{}, false
	}
	pid := int(conn.Pid)
	if pid < 0 {
		pid = 0
	}
	return services.IpPortSensorIn{
		State:      state,
		IP:         conn.Laddr.IP,
		Port:       int(conn.Laddr.Port),
		ProcessID:  pid,
		RemoteIP:   conn.Raddr.IP,
		RemotePort: int(conn.Raddr.Port),
	}, true
}

func readDrives(ctx context.Context) []services.DriveSensorIn {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		logger.Warn("Cannot list partitions", logger.Err(err))
		return nil
	}

	var out []services.DriveSensorIn
	for _, partition := range partitions {
		if driveLetter(partition.Mountpoint) == "" {
			continue
		}
		// Empty card readers and optical drives have no usage.
		usage, err := disk.UsageWithContext(ctx, partition.Mountpoint)
		if err != nil {
			usage = nil
		}
		if reading, ok := driveReading(partition, usage); ok {
			out = append(out, reading)
		}
	}
	return out
}

// driveReading maps a partition mounted at a drive letter. Hosts without
// drive letters report no drives.
func driveReading(partition disk.PartitionStat, usage *disk.UsageStat) (services.DriveSensorIn, bool) {
	letter := driveLetter(partition.Mountpoint)
	if letter == "" {
		return services.DriveSensorIn{}, false
	}
	reading := services.DriveSensorIn{
		DriveLetter: letter,
		DriveType:   driveType(partition, usage),
		FileSystem:  truncate(partition.Fstype),
	}
	if usage != nil {
		reading.AllSpace = formatGB(usage.Total)
		reading.FreeSpace = formatGB(usage.Free)
	}
	return reading, true
}

// driveLetter returns "C" for mount points like "C:" or `C:\`.
func driveLetter(mountpoint string) string {
	m := strings.TrimRight(mountpoint, `\/`)
	if len(m) != 2 || m[1] != ':' {
		return ""
	}
	c := m[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return ""
	}
	return string(c)
}

func driveType(partition disk.PartitionStat, usage *disk.UsageStat) models.DriveType {
	switch strings.ToUpper(partition.Fstype) {
	case "CDFS", "UDF", "ISO9660":
		return models.DriveCDRom
	case "NFS", "CIFS", "SMB", "SMBFS":
		return models.DriveNetwork
	}
	if strings.HasPrefix(partition.Device, `\\`) {
		return models.DriveNetwork
	}
	if usage == nil {
		return models.DriveUnknown
	}
	return models.DriveFixed
}

func formatGB(bytes uint64) string {
	return fmt.Sprintf("%dGB", bytes>>30)
}

// truncate shortens s to at most maxFieldLen bytes without splitting a
// UTF-8 sequence.
func truncate(s string) string {
	if len(s) <= maxFieldLen {
		return s
	}
	cut := maxFieldLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
