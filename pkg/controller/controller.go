// Package controller registers the built-in Build API services with a
// router.
package controller

import (
	"fmt"

	"github.com/morezero/build-api/pkg/controller/apiservice"
	"github.com/morezero/build-api/pkg/controller/artifacts"
	"github.com/morezero/build-api/pkg/router"
)

const logPrefix = "controller:controller"

// RegisterAll registers every built-in service schema and implementation
// module with r.
func RegisterAll(r *router.Router) error {
	if err := r.Register(apiservice.Schema()); err != nil {
		return fmt.Errorf("%s - api service: %w", logPrefix, err)
	}
	r.RegisterModule(apiservice.Module(r))

	if err := r.Register(artifacts.Schema()); err != nil {
		return fmt.Errorf("%s - artifacts service: %w", logPrefix, err)
	}
	r.RegisterModule(artifacts.Module())
	return nil
}
