package orchestrator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/installer"
	"github.com/thoreinstein/mcsync/internal/mirror"
	"github.com/thoreinstein/mcsync/internal/rollback"
)

type staticResolver struct {
	root, src string
	err       error
}

func (s staticResolver) Resolve() (string, error)    { return s.root, s.err }
func (s staticResolver) SourceRoot() (string, error) { return s.src, nil }

type mockBackupper struct{ mock.Mock }

func (m *mockBackupper) Backup(target string) (*backup.Result, error) {
	args := m.Called(target)
	res, _ := args.Get(0).(*backup.Result)
	return res, args.Error(1)
}

type mockSynchronizer struct{ mock.Mock }

func (m *mockSynchronizer) Mirror(src, dst string) (mirror.Stats, error) {
	args := m.Called(src, dst)
	return args.Get(0).(mirror.Stats), args.Error(1)
}

type mockRollbacker struct{ mock.Mock }

func (m *mockRollbacker) Rollback(kinds []content.Kind) (*rollback.Report, error) {
	args := m.Called(kinds)
	rb, _ := args.Get(0).(*rollback.Report)
	return rb, args.Error(1)
}

type mockInstaller struct{ mock.Mock }

func (m *mockInstaller) Install(ctx context.Context, dir, version string) (*installer.Result, error) {
	args := m.Called(ctx, dir, version)
	res, _ := args.Get(0).(*installer.Result)
	return res, args.Error(1)
}
