// Package fieldhandler locates well-known embedded messages (the chroot
// descriptor and path descriptors) inside arbitrary request and response
// messages by declared type, and performs the side effects they imply.
package fieldhandler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/morezero/build-api/pkg/api"
	"github.com/morezero/build-api/pkg/message"
)

const chrootLogPrefix = "fieldhandler:chroot"

// DefaultFeatures is the FEATURES value used when a chroot declares none.
const DefaultFeatures = "separatedebug"

// EnvVar is a single environment variable.
type EnvVar struct {
	Name  string
	Value string
}

// Chroot is the decoded form of an api.Chroot message.
type Chroot struct {
	Path     string
	CacheDir string
	// Env is ordered; a name appears at most once.
	Env []EnvVar
}

// Getenv returns the value of name in the chroot environment.
func (c *Chroot) Getenv(name string) (string, bool) {
	for _, v := range c.Env {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// EnvMap returns the chroot environment as a map.
func (c *Chroot) EnvMap() map[string]string {
	m := make(map[string]string, len(c.Env))
	for _, v := range c.Env {
		m[v.Name] = v.Value
	}
	return m
}

// Environ returns the chroot environment as KEY=VALUE strings, in order.
func (c *Chroot) Environ() []string {
	out := make([]string, 0, len(c.Env))
	for _, v := range c.Env {
		out = append(out, v.Name+"="+v.Value)
	}
	return out
}

// setenv assigns name, replacing an existing value in place.
func (c *Chroot) setenv(name, value string) {
	for i := range c.Env {
		if c.Env[i].Name == name {
			c.Env[i].Value = value
			return
		}
	}
	c.Env = append(c.Env, EnvVar{Name: name, Value: value})
}

// Handle finds the first top-level field of msg declared as a chroot and
// decodes it. When clearField is set the field is cleared on msg so it is not
// serialized again downstream. The second result is false when msg declares
// no chroot field.
func Handle(msg message.Message, clearField bool) (*Chroot, bool) {
	fields := message.FieldsOfType(msg, api.ChrootType)
	if len(fields) == 0 {
		return nil, false
	}
	field := fields[0]

	chrootMsg, _ := field.Message().(*api.Chroot)
	if chrootMsg == nil {
		chrootMsg = &api.Chroot{}
	}
	if clearField {
		field.Clear()
	}
	slog.Debug(fmt.Sprintf("%s - found chroot in field %s of %s", chrootLogPrefix, field.Name, msg.MessageName()))
	return ParseChroot(chrootMsg), true
}

// ParseChroot decodes a chroot message, applying defaults.
func ParseChroot(m *api.Chroot) *Chroot {
	c := &Chroot{
		Path:     m.Path,
		CacheDir: m.CacheDir,
	}
	if c.Path == "" {
		c.Path = api.DefaultChrootPath
	}

	var useFlags, features []string
	if m.Env != nil {
		for _, f := range m.Env.UseFlags {
			useFlags = append(useFlags, f.Flag)
		}
		for _, f := range m.Env.Features {
			features = append(features, f.Feature)
		}
	}

	if len(useFlags) > 0 {
		c.setenv("USE", strings.Join(useFlags, " "))
	}
	// The default is always assigned and then replaced, never merged.
	c.setenv("FEATURES", DefaultFeatures)
	if len(features) > 0 {
		c.setenv("FEATURES", strings.Join(features, " "))
	}
	return c
}

// HandleChroot is Handle with a fallback: when msg declares no chroot field
// it logs a warning and returns the defaults.
func HandleChroot(msg message.Message, clearField bool) *Chroot {
	if c, ok := Handle(msg, clearField); ok {
		return c
	}
	name := "<nil>"
	if msg != nil {
		name = msg.MessageName()
	}
	slog.Warn(fmt.Sprintf("%s - no chroot found in %s, falling back to defaults", chrootLogPrefix, name))
	return ParseChroot(&api.Chroot{})
}
