package api

import "github.com/morezero/build-api/pkg/message"

// Full type names of the built-in service messages.
const (
	MethodGetResponseType  = "buildapi.MethodGetResponse"
	VersionGetResponseType = "buildapi.VersionGetResponse"
	StageRequestType       = "buildapi.StageRequest"
	StageResponseType      = "buildapi.StageResponse"
)

// MethodInfo names one routable "Service/Method".
type MethodInfo struct {
	Method string `json:"method"`
}

// MethodGetResponse lists every routable method.
type MethodGetResponse struct {
	Methods []MethodInfo `json:"methods,omitempty"`
}

// MessageName implements message.Message.
func (*MethodGetResponse) MessageName() string { return MethodGetResponseType }

// Fields implements message.Message.
func (m *MethodGetResponse) Fields() []message.Field {
	return []message.Field{
		message.ScalarField("methods", "repeated buildapi.MethodInfo", &m.Methods),
	}
}

// VersionInfo is a major.minor.bug version triple.
type VersionInfo struct {
	Major int32 `json:"major"`
	Minor int32 `json:"minor"`
	Bug   int32 `json:"bug"`
}

// VersionGetResponse carries the Build API version.
type VersionGetResponse struct {
	Version *VersionInfo `json:"version,omitempty"`
}

// MessageName implements message.Message.
func (*VersionGetResponse) MessageName() string { return VersionGetResponseType }

// Fields implements message.Message.
func (m *VersionGetResponse) Fields() []message.Field {
	return []message.Field{
		message.ScalarField("version", "buildapi.VersionInfo", &m.Version),
	}
}

// StageRequest asks for its Path fields to be staged inside the chroot.
type StageRequest struct {
	Chroot   *Chroot `json:"chroot,omitempty"`
	Artifact *Path   `json:"artifact,omitempty"`
	Extra    *Path   `json:"extra,omitempty"`
}

// MessageName implements message.Message.
func (*StageRequest) MessageName() string { return StageRequestType }

// Fields implements message.Message.
func (m *StageRequest) Fields() []message.Field {
	return []message.Field{
		message.MessageField("chroot", ChrootType, &m.Chroot),
		message.MessageField("artifact", PathType, &m.Artifact),
		message.MessageField("extra", PathType, &m.Extra),
	}
}

// StagedArtifact reports one staged Path field. Path is relative to the
// chroot root and names a staging directory that only exists while Stage
// runs; it is gone by the time the response is returned. Files lists what was
// staged there.
type StagedArtifact struct {
	Field string   `json:"field"`
	Path  string   `json:"path"`
	Files []string `json:"files,omitempty"`
}

// StageResponse reports the chroot environment and what was staged.
type StageResponse struct {
	ChrootPath string            `json:"chrootPath,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
	Staged     []StagedArtifact  `json:"staged,omitempty"`
}

// MessageName implements message.Message.
func (*StageResponse) MessageName() string { return StageResponseType }

// Fields implements message.Message.
func (m *StageResponse) Fields() []message.Field {
	return []message.Field{
		message.ScalarField("chrootPath", "string", &m.ChrootPath),
		message.ScalarField("env", "map<string,string>", &m.Env),
		message.ScalarField("staged", "repeated buildapi.StagedArtifact", &m.Staged),
	}
}
