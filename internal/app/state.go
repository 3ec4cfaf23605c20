package app

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fibero-labs/bridgectl/internal/admin"
	"github.com/fibero-labs/bridgectl/internal/config"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/fee"
	"github.com/fibero-labs/bridgectl/internal/journal"
	"github.com/fibero-labs/bridgectl/internal/pool"
	"github.com/fibero-labs/bridgectl/internal/registry"
	"github.com/fibero-labs/bridgectl/internal/signer"
	"github.com/fibero-labs/bridgectl/internal/swap"
	"github.com/rs/zerolog"
)

// services is the fully wired orchestration stack. Connections are
// established once and shared by every command that runs afterwards.
type services struct {
	settings config.Settings
	logger   zerolog.Logger

	registry   *registry.Registry
	pools      pool.Map
	feeManager pool.FeeManager
	fees       *fee.Calculator
	planner    *swap.Planner
	executor   *swap.Executor
	admin      *admin.Admin
	journal    *journal.Store
	signer     *signer.LocalSigner

	close func()
}

// connect loads config, dials every chain once, and binds the pool and
// fee contracts. needSigner is true for state-changing commands.
func (s *runtimeState) connect(ctx context.Context, needSigner bool) (*services, error) {
	settings, err := config.Load(s.flags)
	if err != nil {
		return nil, bridgerr.Wrap(bridgerr.CodeUsage, "load configuration", err)
	}

	logger := newLogger(settings)

	var txSigner *signer.LocalSigner
	if needSigner {
		txSigner, err = signer.NewLocalSignerFromEnv()
		if err != nil {
			return nil, bridgerr.Wrap(bridgerr.CodeSigner, "load signing key", err)
		}
	}

	reg, err := registry.New(settings.ChainSpecs())
	if err != nil {
		return nil, bridgerr.Wrap(bridgerr.CodeUsage, "build chain registry", err)
	}
	if err := reg.Dial(ctx); err != nil {
		return nil, err
	}

	submitOpts := pool.SubmitOptions{
		PollInterval:   settings.PollInterval,
		ConfirmTimeout: settings.ConfirmTimeout,
		GasMultiplier:  1.2,
	}

	pools := make(pool.Map, len(reg.Handles()))
	for _, handle := range reg.Handles() {
		var sg signer.Signer
		if txSigner != nil {
			sg = txSigner
		}
		bound, err := pool.NewEVMPool(handle, sg, submitOpts)
		if err != nil {
			reg.Close()
			return nil, bridgerr.Wrap(bridgerr.CodeInternal, "bind pool contract", err)
		}
		pools[handle.Name] = bound
	}

	if !common.IsHexAddress(settings.FeeManagerAddress) {
		reg.Close()
		return nil, bridgerr.New(bridgerr.CodeUsage, "fee_manager.address is required in configuration")
	}
	feeChain, err := reg.Resolve(settings.FeeManagerChain)
	if err != nil {
		reg.Close()
		return nil, err
	}
	var sg signer.Signer
	if txSigner != nil {
		sg = txSigner
	}
	feeManager, err := pool.NewEVMFeeManager(feeChain, common.HexToAddress(settings.FeeManagerAddress), sg, submitOpts)
	if err != nil {
		reg.Close()
		return nil, bridgerr.Wrap(bridgerr.CodeInternal, "bind fee manager contract", err)
	}

	store, err := journal.Open(settings.JournalPath, settings.JournalLockPath)
	if err != nil {
		logger.Warn().Err(err).Msg("journal unavailable, submissions will not be recorded")
		store = nil
	}

	fees := fee.NewCalculator(feeManager, settings.CollaboratorTimeout)
	svc := &services{
		settings:   settings,
		logger:     logger,
		registry:   reg,
		pools:      pools,
		feeManager: feeManager,
		fees:       fees,
		planner:    swap.NewPlanner(reg, pools, fees),
		executor:   swap.NewExecutor(),
		admin:      admin.New(reg, pools, feeManager),
		journal:    store,
		signer:     txSigner,
	}
	svc.close = func() {
		reg.Close()
		if store != nil {
			_ = store.Close()
		}
	}
	return svc, nil
}

// requireAdmin is the CLI-side authorization gate: the loaded signing
// key must belong to the configured admin address.
func (svc *services) requireAdmin() error {
	if svc.signer == nil {
		return bridgerr.New(bridgerr.CodeSigner, "admin operations need a signing key")
	}
	if !common.IsHexAddress(svc.settings.AdminAddress) {
		return bridgerr.New(bridgerr.CodeAuth, "admin.address is not configured")
	}
	return admin.Authorize(svc.signer.Address(), common.HexToAddress(svc.settings.AdminAddress))
}

func (svc *services) record(entry journal.Entry) {
	if svc.journal == nil {
		return
	}
	if err := svc.journal.Record(entry); err != nil {
		svc.logger.Warn().Err(err).Msg("journal write failed")
	}
}

func newLogger(settings config.Settings) zerolog.Logger {
	level := zerolog.InfoLevel
	if settings.Verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
