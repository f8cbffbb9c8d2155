// Package api holds the well-known Build API message types shared by every
// service: the chroot descriptor, the path descriptor and the messages of the
// built-in services.
package api

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/morezero/build-api/pkg/message"
)

// Full type names of the common messages.
const (
	ChrootType    = "buildapi.Chroot"
	ChrootEnvType = "buildapi.ChrootEnv"
	PathType      = "buildapi.Path"
)

// DefaultChrootPath is used when a Chroot message carries no path.
const DefaultChrootPath = "/var/lib/build-api/chroot"

// Chroot describes an isolated execution root.
type Chroot struct {
	Path     string     `json:"path,omitempty"`
	CacheDir string     `json:"cacheDir,omitempty"`
	Env      *ChrootEnv `json:"env,omitempty"`
}

// MessageName implements message.Message.
func (*Chroot) MessageName() string { return ChrootType }

// Fields implements message.Message.
func (m *Chroot) Fields() []message.Field {
	return []message.Field{
		message.ScalarField("path", "string", &m.Path),
		message.ScalarField("cacheDir", "string", &m.CacheDir),
		message.MessageField("env", ChrootEnvType, &m.Env),
	}
}

// ChrootEnv holds the environment-affecting flags of a chroot.
type ChrootEnv struct {
	UseFlags []UseFlag `json:"useFlags,omitempty"`
	Features []Feature `json:"features,omitempty"`
}

// MessageName implements message.Message.
func (*ChrootEnv) MessageName() string { return ChrootEnvType }

// Fields implements message.Message.
func (m *ChrootEnv) Fields() []message.Field {
	return []message.Field{
		message.ScalarField("useFlags", "repeated buildapi.UseFlag", &m.UseFlags),
		message.ScalarField("features", "repeated buildapi.Feature", &m.Features),
	}
}

// UseFlag is a single USE flag.
type UseFlag struct {
	Flag string `json:"flag,omitempty"`
}

// Feature is a single FEATURES entry.
type Feature struct {
	Feature string `json:"feature,omitempty"`
}

// Location tags which side of the chroot boundary a path lives on.
type Location int32

const (
	LocationUnspecified Location = 0
	Inside              Location = 1
	Outside             Location = 2
)

var locationNames = map[Location]string{
	LocationUnspecified: "NO_LOCATION",
	Inside:              "INSIDE",
	Outside:             "OUTSIDE",
}

func (l Location) String() string {
	if name, ok := locationNames[l]; ok {
		return name
	}
	return strconv.Itoa(int(l))
}

// MarshalJSON encodes the location by name.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts either the enum name or its number.
func (l *Location) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		for loc, n := range locationNames {
			if n == name {
				*l = loc
				return nil
			}
		}
		return fmt.Errorf("unknown location %q", name)
	}

	var n int32
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid location %s: %w", data, err)
	}
	*l = Location(n)
	return nil
}

// Path pairs a filesystem path with the side of the chroot it lives on.
type Path struct {
	Path     string   `json:"path,omitempty"`
	Location Location `json:"location,omitempty"`
}

// MessageName implements message.Message.
func (*Path) MessageName() string { return PathType }

// Fields implements message.Message.
func (m *Path) Fields() []message.Field {
	return []message.Field{
		message.ScalarField("path", "string", &m.Path),
		message.ScalarField("location", "buildapi.Path.Location", &m.Location),
	}
}

// IsSet reports whether both the path and the location are populated.
func (m *Path) IsSet() bool {
	return m != nil && m.Path != "" && m.Location != LocationUnspecified
}
