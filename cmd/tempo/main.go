// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// tempo runs a node of the staking pools and auctions engine.
package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/bitcountry/tempo/api"
	"github.com/bitcountry/tempo/cmd/tempo/httpserver"
	"github.com/bitcountry/tempo/log"
	"github.com/bitcountry/tempo/metrics"
	"github.com/bitcountry/tempo/node"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	flags = []cli.Flag{
		dataDirFlag,
		genesisFlag,
		persistFlag,
		cacheFlag,
		blockIntervalFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		apiBacktraceLimitFlag,
		apiEventsLimitFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
	}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Tempo",
		Usage:     "Node of the Tempo staking pools and auctions engine",
		Copyright: fmt.Sprintf("2025-%s Bit Country <https://bit.country/>", copyrightYear),
		Flags:     flags,
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))
	defer func() { log.Info("exited") }()

	exitSignal := handleExitSignal()

	// meters are created lazily, metrics must be enabled before any component is built
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gen, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}
	stores, err := openStores(ctx, gen)
	if err != nil {
		return err
	}
	defer stores.Close()

	blockInterval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
	if blockInterval == 0 {
		return errors.New("block interval must be greater than zero")
	}
	n, err := node.New(stores.db, stores.events, gen, node.Options{BlockInterval: blockInterval})
	if err != nil {
		return errors.Wrap(err, "create node")
	}

	backtraceLimit := ctx.Uint64(apiBacktraceLimitFlag.Name)
	if backtraceLimit > uint64(^uint32(0)) {
		return errors.Errorf("invalid -%s %d", apiBacktraceLimitFlag.Name, backtraceLimit)
	}
	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, apiCloseFunc := api.New(n, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       uint32(backtraceLimit),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	defer func() { log.Info("closing API..."); apiCloseFunc() }()

	apiURL, srvCloseFunc, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), apiHandler, httpserver.APIConfig{
		Timeout:   time.Duration(ctx.Uint64(apiTimeoutFlag.Name)) * time.Millisecond,
		GenesisID: n.GenesisID(),
	})
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); srvCloseFunc() }()

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, n, blockInterval)
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		defer func() { log.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	printStartupMessage(n, blockInterval, stores.instanceDir, apiURL, metricsURL, adminURL)

	return n.Run(exitSignal)
}

func printStartupMessage(n *node.Node, blockInterval time.Duration, instanceDir, apiURL, metricsURL, adminURL string) {
	fmt.Printf(`Starting %v
    Genesis      [ %v ]
    Head         [ #%v ]
    Block        [ every %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		"Tempo "+fullVersion(),
		n.GenesisID(),
		n.Head(),
		blockInterval,
		instanceDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL))
}

func orDisabled(url string) string {
	if url == "" {
		return "Disabled"
	}
	return url
}
