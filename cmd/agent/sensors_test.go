package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"frame-monitor/internal/models"

	"github.com/shirou/gopsutil/v4/disk"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessReading(t *testing.T) {
	reading, ok := processReading(3120, "explorer.exe", `C:\Windows\explorer.exe`, 1682931600000)
	require.True(t, ok)
	assert.Equal(t, `C:\Windows\explorer.exe`, reading.FilePath)
	assert.Equal(t, "explorer.exe", reading.ProcessName)
	assert.Equal(t, 3120, reading.ProcessID)
	assert.Equal(t, "2023-05-01 09:00:00", reading.StartedAt)

	reading, ok = processReading(812, "tmux: server", "", 1682931600000)
	require.True(t, ok)
	assert.Equal(t, "tmux: server", reading.FilePath)

	_, ok = processReading(1, "", "/sbin/init", 1682931600000)
	assert.False(t, ok)
	_, ok = processReading(1, "init", "/sbin/init", 0)
	assert.False(t, ok)
}

func TestIpPortReading(t *testing.T) {
	listen, ok := ipPortReading(psnet.ConnectionStat{
		Status: "LISTEN",
		Laddr:  psnet.Addr{IP: "0.0.0.0", Port: 135},
		Pid:    904,
	})
	require.True(t, ok)
	assert.Equal(t, models.IpPortListen, listen.State)
	assert.Equal(t, "0.0.0.0", listen.IP)
	assert.Equal(t, 135, listen.Port)
	assert.Equal(t, 904, listen.ProcessID)
	assert.Empty(t, listen.RemoteIP)
	assert.Zero(t, listen.RemotePort)

	established, ok := ipPortReading(psnet.ConnectionStat{
		Status: "ESTABLISHED",
		Laddr:  psnet.Addr{IP: "192.168.4.13", Port: 50344},
		Raddr:  psnet.Addr{IP: "140.90.112.25", Port: 443},
	})
	require.True(t, ok)
	assert.Equal(t, models.IpPortEstablish, established.State)
	assert.Equal(t, "140.90.112.25", established.RemoteIP)
	assert.Equal(t, 443, established.RemotePort)
	assert.Zero(t, established.ProcessID)

	for _, conn := range []psnet.ConnectionStat{
		{Status: "TIME_WAIT", Laddr: psnet.Addr{IP: "192.168.4.13", Port: 50345}},
		{Status: "LISTEN", Laddr: psnet.Addr{IP: "0.0.0.0"}},
		{Status: "LISTEN", Laddr: psnet.Addr{IP: "fe80::1ff:fe23:4567:890a%enp0s31f6-long-name", Port: 22}},
	} {
		_, ok := ipPortReading(conn)
		assert.False(t, ok, "%+v", conn)
	}
}

func TestDriveReading(t *testing.T) {
	reading, ok := driveReading(
		disk.PartitionStat{Device: "C:", Mountpoint: "C:", Fstype: "NTFS"},
		&disk.UsageStat{Total: 512 << 30, Free: 112 << 30},
	)
	require.True(t, ok)
	assert.Equal(t, "C", reading.DriveLetter)
	assert.Equal(t, models.DriveFixed, reading.DriveType)
	assert.Equal(t, "NTFS", reading.FileSystem)
	assert.Equal(t, "512GB", reading.AllSpace)
	assert.Equal(t, "112GB", reading.FreeSpace)

	reading, ok = driveReading(disk.PartitionStat{Device: "D:", Mountpoint: `d:\`, Fstype: "CDFS"}, nil)
	require.True(t, ok)
	assert.Equal(t, "D", reading.DriveLetter)
	assert.Equal(t, models.DriveCDRom, reading.DriveType)
	assert.Empty(t, reading.AllSpace)

	reading, ok = driveReading(disk.PartitionStat{Device: `\\nas\share`, Mountpoint: "Z:", Fstype: "NTFS"}, &disk.UsageStat{})
	require.True(t, ok)
	assert.Equal(t, models.DriveNetwork, reading.DriveType)

	_, ok = driveReading(disk.PartitionStat{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"}, &disk.UsageStat{})
	assert.False(t, ok)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	ascii := strings.Repeat("a", maxFieldLen+10)
	assert.Len(t, truncate(ascii), maxFieldLen)

	// 254 ASCII bytes then a three-byte rune straddling the limit.
	mixed := strings.Repeat("a", maxFieldLen-1) + "日本"
	got := truncate(mixed)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxFieldLen-1), got)

	cyrillic := strings.Repeat("ж", maxFieldLen)
	got = truncate(cyrillic)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxFieldLen)
	assert.Equal(t, maxFieldLen/2, utf8.RuneCountInString(got))
}
