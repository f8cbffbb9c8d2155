// Package cli wires the build_api command line onto the router.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morezero/build-api/internal/config"
	"github.com/morezero/build-api/pkg/api"
	"github.com/morezero/build-api/pkg/controller"
	"github.com/morezero/build-api/pkg/events"
	"github.com/morezero/build-api/pkg/message"
	"github.com/morezero/build-api/pkg/router"
)

const logPrefix = "cli:cli"

// ErrInvalidRoute is returned for a route argument that is not Service/Method.
var ErrInvalidRoute = errors.New("route must be in the form Service/Method")

// ParseRoute splits a "Service/Method" argument.
func ParseRoute(arg string) (service, method string, err error) {
	if strings.Count(arg, "/") != 1 {
		return "", "", fmt.Errorf("%s - %w: %q", logPrefix, ErrInvalidRoute, arg)
	}
	service, method, _ = strings.Cut(arg, "/")
	if service == "" || method == "" {
		return "", "", fmt.Errorf("%s - %w: %q", logPrefix, ErrInvalidRoute, arg)
	}
	return service, method, nil
}

type app struct {
	cfg        *config.Config
	router     *router.Router
	inputJSON  string
	outputJSON string
}

// NewRootCommand builds the build_api command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "build_api <Service>/<Method>",
		Short: "Call a Build API method",
		Long: `Call a Build API method with a JSON encoded request.

The request is read from --input-json; a missing file is an empty request.
The response is written to --output-json when given.

Environment:
  BUILD_API_LOG_LEVEL     debug, info (default), warn or error
  BUILD_API_OUTPUT_MODE   permission mode of the output file (default 0644)
  BUILD_API_MIN_VERSION   semver constraint the Build API version must meet
  BUILD_API_ROUTE_EVENTS  log an event after every call (default true)`,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runRoute,
	}
	root.Flags().StringVar(&a.inputJSON, "input-json", "", "path to the JSON encoded request")
	root.Flags().StringVar(&a.outputJSON, "output-json", "", "path to write the JSON encoded response to")

	root.AddCommand(&cobra.Command{
		Use:   "list-methods",
		Short: "List every routable Service/Method",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, m := range a.router.ListMethods() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the Build API version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), api.Version)
			return nil
		},
	})
	return root
}

// Execute runs the build_api command line.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads configuration, installs the logger and builds the router.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	var pub events.Publisher = &events.NoOpPublisher{}
	if cfg.RouteEvents {
		pub = events.NewLogPublisher(logger)
	}
	a.router = router.NewRouter(router.NewRouterParams{Publisher: pub})
	if err := controller.RegisterAll(a.router); err != nil {
		return fmt.Errorf("%s - failed to register services: %w", logPrefix, err)
	}
	return nil
}

func (a *app) runRoute(cmd *cobra.Command, args []string) error {
	service, method, err := ParseRoute(args[0])
	if err != nil {
		return err
	}

	input, err := readInput(a.inputJSON)
	if err != nil {
		return err
	}

	out, err := a.router.Route(cmd.Context(), service, method, input)
	if err != nil {
		return fmt.Errorf("%s - %s/%s failed: %w", logPrefix, service, method, err)
	}

	if a.outputJSON == "" {
		slog.Debug(fmt.Sprintf("%s - no --output-json, discarding %s", logPrefix, out.MessageName()))
		return nil
	}
	data, err := message.Encode(out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.outputJSON, data, a.cfg.OutputMode); err != nil {
		return fmt.Errorf("%s - failed to write output: %w", logPrefix, err)
	}
	slog.Debug(fmt.Sprintf("%s - wrote %s to %s", logPrefix, out.MessageName(), a.outputJSON))
	return nil
}

// readInput returns the content of path. An empty path or a missing file
// reads as no input.
func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug(fmt.Sprintf("%s - input %s does not exist, using an empty request", logPrefix, path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s - failed to read input: %w", logPrefix, err)
	}
	return data, nil
}
