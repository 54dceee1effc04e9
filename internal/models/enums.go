package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// Both enums are stored as their label. JSON accepts the label or the legacy
// ordinal and always emits the label.

type DriveType int

const (
	DriveUnknown DriveType = iota
	DriveNoRootDirectory
	DriveRemovable
	DriveFixed
	DriveNetwork
	DriveCDRom
	DriveRam
)

var driveTypeLabels = []string{
	"Unknown",
	"NoRootDirectory",
	"Removable",
	"Fixed",
	"Network",
	"CDRom",
	"Ram",
}

func (d DriveType) String() string {
	if d < 0 || int(d) >= len(driveTypeLabels) {
		return fmt.Sprintf("DriveType(%d)", int(d))
	}
	return driveTypeLabels[d]
}

func (d DriveType) Valid() bool {
	return d >= DriveUnknown && d <= DriveRam
}

func ParseDriveType(label string) (DriveType, error) {
	for i, l := range driveTypeLabels {
		if l == label {
			return DriveType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown drive type %q", label)
}

func (DriveType) GormDataType() string { return "string" }

func (d DriveType) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid drive type %d", int(d))
	}
	return d.String(), nil
}

func (d *DriveType) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case int64:
		return d.fromOrdinal(v)
	default:
		return fmt.Errorf("cannot scan %T into DriveType", src)
	}
}

func (d DriveType) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid drive type %d", int(d))
	}
	return json.Marshal(d.String())
}

func (d *DriveType) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		return d.parse(label)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("drive type must be a label or an ordinal: %w", err)
	}
	return d.fromOrdinal(n)
}

func (d *DriveType) parse(label string) error {
	parsed, err := ParseDriveType(label)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *DriveType) fromOrdinal(n int64) error {
	if n < int64(DriveUnknown) || n > int64(DriveRam) {
		return fmt.Errorf("drive type ordinal %d out of range", n)
	}
	*d = DriveType(n)
	return nil
}

type IpPortState string

const (
	IpPortListen    IpPortState = "listen"
	IpPortEstablish IpPortState = "establish"
)

var ipPortStates = []IpPortState{IpPortListen, IpPortEstablish}

func (s IpPortState) Valid() bool {
	return s == IpPortListen || s == IpPortEstablish
}

func (s IpPortState) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ip port state %q", string(s))
	}
	return string(s), nil
}

func (s *IpPortState) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case int64:
		return s.fromOrdinal(v)
	default:
		return fmt.Errorf("cannot scan %T into IpPortState", src)
	}
}

func (s *IpPortState) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		return s.parse(label)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("ip port state must be a label or an ordinal: %w", err)
	}
	return s.fromOrdinal(n)
}

func (s *IpPortState) parse(label string) error {
	state := IpPortState(label)
	if !state.Valid() {
		return fmt.Errorf("unknown ip port state %q", label)
	}
	*s = state
	return nil
}

func (s *IpPortState) fromOrdinal(n int64) error {
	if n < 0 || n >= int64(len(ipPortStates)) {
		return fmt.Errorf("ip port state ordinal %d out of range", n)
	}
	*s = ipPortStates[n]
	return nil
}
