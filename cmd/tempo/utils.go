// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/bitcountry/tempo/eventlog"
	"github.com/bitcountry/tempo/genesis"
	"github.com/bitcountry/tempo/log"
	"github.com/bitcountry/tempo/lvldb"
)

func initLogger(lvl int, jsonLogs bool) *slog.LevelVar {
	output := io.Writer(os.Stdout)
	useColor := (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) && os.Getenv("TERM") != "dumb"

	level := &slog.LevelVar{}
	level.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if jsonLogs {
		handler = log.JSONHandlerWithLevel(output, level)
	} else {
		handler = log.NewTerminalHandlerWithLevel(output, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d", val)
	}
	return int(val), nil
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".org.bitcountry.tempo")
	}
	return ""
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func loadGenesis(path string) (*genesis.Genesis, error) {
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	gen, err := genesis.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load genesis file [%v]", path)
	}
	return gen, nil
}

func makeInstanceDir(dataDir string, gen *genesis.Genesis) (string, error) {
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, "instance-"+gen.Name)
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// stores are the databases a node runs on.
type stores struct {
	db          *lvldb.LevelDB
	events      *eventlog.EventLog
	instanceDir string
}

func (s *stores) Close() {
	log.Info("closing event log...")
	if err := s.events.Close(); err != nil {
		log.Warn("failed to close event log", "err", err)
	}
	log.Info("closing state database...")
	if err := s.db.Close(); err != nil {
		log.Warn("failed to close state database", "err", err)
	}
}

func openStores(ctx *cli.Context, gen *genesis.Genesis) (*stores, error) {
	if !ctx.Bool(persistFlag.Name) {
		db, err := lvldb.NewMem()
		if err != nil {
			return nil, errors.Wrap(err, "open state database")
		}
		events, err := eventlog.NewMem()
		if err != nil {
			db.Close()
			return nil, errors.Wrap(err, "open event log")
		}
		return &stores{db: db, events: events, instanceDir: "Memory"}, nil
	}

	instanceDir, err := makeInstanceDir(ctx.String(dataDirFlag.Name), gen)
	if err != nil {
		return nil, err
	}
	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse cache flag")
	}

	dir := filepath.Join(instanceDir, "state.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open state database [%v]", dir)
	}
	path := filepath.Join(instanceDir, "events.db")
	events, err := eventlog.New(path)
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open event log [%v]", path)
	}
	return &stores{db: db, events: events, instanceDir: instanceDir}, nil
}
