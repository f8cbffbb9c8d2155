// Package artifacts implements buildapi.ArtifactsService, which stages the
// files named by a request inside the chroot.
package artifacts

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/morezero/build-api/pkg/api"
	"github.com/morezero/build-api/pkg/fieldhandler"
	"github.com/morezero/build-api/pkg/message"
	"github.com/morezero/build-api/pkg/router"
)

const logPrefix = "artifacts:artifacts"

const (
	ServiceName = "buildapi.ArtifactsService"
	ModuleName  = "buildapi.controller.artifacts"
)

// Schema returns the service declaration and its message types.
func Schema() router.Schema {
	return router.Schema{
		Name: "buildapi/artifacts.proto",
		Services: []router.ServiceDescriptor{{
			FullName: ServiceName,
			Module:   ModuleName,
			Methods: []router.MethodDescriptor{
				{Name: "Stage", InputType: api.StageRequestType, OutputType: api.StageResponseType},
			},
		}},
		Types: []message.Constructor{
			func() message.Message { return &api.StageRequest{} },
			func() message.Message { return &api.StageResponse{} },
		},
	}
}

// Module returns the implementation module.
func Module() router.Module {
	return router.Module{
		Name: ModuleName,
		Functions: map[string]router.Handler{
			"Stage": func(ctx context.Context, in message.Message) (message.Message, error) {
				req, ok := in.(*api.StageRequest)
				if !ok {
					return nil, fmt.Errorf("%s - unexpected input %T", logPrefix, in)
				}
				return Stage(ctx, req)
			},
		},
	}
}

// Stage copies every outside Path of req into <chroot>/tmp and reports the
// staged files using chroot-relative paths. The staged copies only live for
// the duration of the call.
func Stage(_ context.Context, req *api.StageRequest) (*api.StageResponse, error) {
	chroot := fieldhandler.HandleChroot(req, true)
	resp := &api.StageResponse{
		ChrootPath: chroot.Path,
		Env:        chroot.EnvMap(),
	}

	err := fieldhandler.WithPathTransfers(req, filepath.Join(chroot.Path, "tmp"), func(transfers []fieldhandler.PathTransfer) error {
		for _, t := range transfers {
			if t.Result == nil {
				slog.Debug(fmt.Sprintf("%s - %s already inside the chroot", logPrefix, t.Field))
				continue
			}
			files, err := listFiles(t.Handler.TempDir())
			if err != nil {
				return err
			}
			resp.Staged = append(resp.Staged, api.StagedArtifact{
				Field: t.Field,
				Path:  t.Result.Path,
				Files: files,
			})
		}
		return nil
	}, fieldhandler.WithDirection(fieldhandler.DirectionInside), fieldhandler.WithPrefix(chroot.Path))
	if err != nil {
		return nil, fmt.Errorf("%s - staging into %s failed: %w", logPrefix, chroot.Path, err)
	}

	slog.Info(fmt.Sprintf("%s - staged %d artifacts into %s", logPrefix, len(resp.Staged), chroot.Path))
	return resp, nil
}

// listFiles returns the regular files under root, relative to it.
func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}
