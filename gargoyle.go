package gargoyle

import (
	"context"

	"github.com/wippyai/gargoyle/config"
	"github.com/wippyai/gargoyle/host"
	"github.com/wippyai/gargoyle/memvm"
)

// Open creates a host module over the built-in runtime and starts it.
func Open(ctx context.Context, opts config.Options, hostOpts ...host.Option) (*host.Module, error) {
	m := host.NewModule(&memvm.Launcher{}, hostOpts...)
	if _, err := m.Start(ctx, opts); err != nil {
		return nil, err
	}
	return m, nil
}
