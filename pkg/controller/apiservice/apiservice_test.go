package apiservice

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/morezero/build-api/pkg/api"
	"github.com/morezero/build-api/pkg/router"
)

func newRouter(t *testing.T) *router.Router {
	t.Helper()
	r := router.NewRouter(router.NewRouterParams{})
	if err := r.Register(Schema()); err != nil {
		t.Fatalf("apiservice:apiservice_test - register failed: %v", err)
	}
	r.RegisterModule(Module(r))
	return r
}

func TestGetMethods(t *testing.T) {
	r := newRouter(t)

	out, err := r.Route(context.Background(), ServiceName, "GetMethods", nil)
	if err != nil {
		t.Fatalf("apiservice:apiservice_test - unexpected error: %v", err)
	}
	want := &api.MethodGetResponse{Methods: []api.MethodInfo{
		{Method: "buildapi.ApiService/GetMethods"},
		{Method: "buildapi.ApiService/GetVersion"},
	}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("apiservice:apiservice_test - GetMethods mismatch (-want +got):\n%s", diff)
	}
}

func TestGetVersion(t *testing.T) {
	r := newRouter(t)

	out, err := r.Route(context.Background(), ServiceName, "GetVersion", []byte("ignored"))
	if err != nil {
		t.Fatalf("apiservice:apiservice_test - unexpected error: %v", err)
	}
	resp, ok := out.(*api.VersionGetResponse)
	if !ok || resp.Version == nil {
		t.Fatalf("apiservice:apiservice_test - unexpected output %#v", out)
	}

	v := api.CurrentVersion()
	got := resp.Version
	if int64(got.Major) != int64(v.Major()) || int64(got.Minor) != int64(v.Minor()) || int64(got.Bug) != int64(v.Patch()) {
		t.Errorf("apiservice:apiservice_test - version %d.%d.%d, want %s", got.Major, got.Minor, got.Bug, v)
	}
}
