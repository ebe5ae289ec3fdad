// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"time"

	"github.com/bitcountry/tempo/lifecycle"
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/metrics"
)

var (
	metricBlockSealedCount    = metrics.LazyLoadCounterVec("block_sealed_count", []string{"status"})
	metricBlockSealedDuration = metrics.LazyLoadHistogramVec(
		"block_sealed_duration_ms", []string{"status"}, metrics.Bucket10s,
	)
	metricHeadHeight = metrics.LazyLoadGauge("head_height")

	metricFinalizedCount = metrics.LazyLoadCounterVec("finalized_count", []string{"status"})
	metricEventCount     = metrics.LazyLoadCounterVec("event_count", []string{"kind"})

	metricLive        = metrics.LazyLoadGaugeVec("live_count", []string{"kind"})
	metricPending     = metrics.LazyLoadGauge("pending_entries")
	metricTotalStaked = metrics.LazyLoadGauge("total_staked")
)

func evalSealMetrics(start time.Time, report *lifecycle.TickReport, err error) {
	status := map[string]string{"status": "sealed"}
	if err != nil {
		status["status"] = "failed"
	}
	metricBlockSealedCount().AddWithLabel(1, status)
	metricBlockSealedDuration().ObserveWithLabels(time.Since(start).Milliseconds(), status)

	if report != nil {
		metricFinalizedCount().AddWithLabel(int64(len(report.Finalized)), map[string]string{"status": "finalized"})
		metricFinalizedCount().AddWithLabel(int64(len(report.Failed)), map[string]string{"status": "failed"})
	}
}

func countEvent(ev event.Event) {
	metricEventCount().AddWithLabel(1, map[string]string{"kind": string(ev.Kind())})
}

func updateStatsMetrics(head uint32, stats *lifecycle.Stats) {
	metricHeadHeight().Set(int64(head))
	metricLive().SetWithLabel(int64(stats.LivePools), map[string]string{"kind": "pool"})
	metricLive().SetWithLabel(int64(stats.LiveAuctions), map[string]string{"kind": "auction"})
	metricPending().Set(int64(stats.Pending))
	metricTotalStaked().Set(int64(stats.TotalStaked))
}
