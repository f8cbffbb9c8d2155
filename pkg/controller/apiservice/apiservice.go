// Package apiservice implements buildapi.ApiService, the Build API's
// self-description service.
package apiservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/morezero/build-api/pkg/api"
	"github.com/morezero/build-api/pkg/message"
	"github.com/morezero/build-api/pkg/router"
)

const logPrefix = "apiservice:apiservice"

const (
	// ServiceName is the full name of the service.
	ServiceName = "buildapi.ApiService"
	// ModuleName is the implementation module the service routes to.
	ModuleName = "buildapi.controller.api"
)

// MethodLister lists every routable "Service/Method".
type MethodLister interface {
	ListMethods() []string
}

// Schema returns the service declaration and its message types.
func Schema() router.Schema {
	return router.Schema{
		Name: "buildapi/api.proto",
		Services: []router.ServiceDescriptor{{
			FullName: ServiceName,
			Module:   ModuleName,
			Methods: []router.MethodDescriptor{
				{Name: "GetMethods", InputType: message.EmptyType, OutputType: api.MethodGetResponseType},
				{Name: "GetVersion", InputType: message.EmptyType, OutputType: api.VersionGetResponseType},
			},
		}},
		Types: []message.Constructor{
			func() message.Message { return &api.MethodGetResponse{} },
			func() message.Message { return &api.VersionGetResponse{} },
		},
	}
}

// Module returns the implementation module. methods is usually the router
// the module is registered with.
func Module(methods MethodLister) router.Module {
	return router.Module{
		Name: ModuleName,
		Functions: map[string]router.Handler{
			"GetMethods": func(ctx context.Context, _ message.Message) (message.Message, error) {
				return GetMethods(ctx, methods), nil
			},
			"GetVersion": func(ctx context.Context, _ message.Message) (message.Message, error) {
				return GetVersion(ctx), nil
			},
		},
	}
}

// GetMethods lists every method known to methods.
func GetMethods(_ context.Context, methods MethodLister) *api.MethodGetResponse {
	names := methods.ListMethods()
	resp := &api.MethodGetResponse{Methods: make([]api.MethodInfo, 0, len(names))}
	for _, name := range names {
		resp.Methods = append(resp.Methods, api.MethodInfo{Method: name})
	}
	slog.Debug(fmt.Sprintf("%s - %d methods", logPrefix, len(resp.Methods)))
	return resp
}

// GetVersion reports the Build API version.
func GetVersion(_ context.Context) *api.VersionGetResponse {
	v := api.CurrentVersion()
	return &api.VersionGetResponse{Version: &api.VersionInfo{
		Major: int32(v.Major()),
		Minor: int32(v.Minor()),
		Bug:   int32(v.Patch()),
	}}
}
