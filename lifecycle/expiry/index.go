// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package expiry

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/lifecycle/slots"
	"github.com/bitcountry/tempo/tempo"
)

var (
	slotBuckets  = tempo.BytesToBytes32([]byte("expiry-buckets"))
	slotSchedule = tempo.BytesToBytes32([]byte("expiry-schedule"))
	slotPending  = tempo.BytesToBytes32([]byte("expiry-pending"))
)

type schedule struct {
	Height uint32
}

// Index maps block heights to the entries due at that height.
// An entry is scheduled in at most one bucket, and buckets without
// entries are not materialized.
type Index struct {
	buckets  *slots.Mapping[slots.Uint32Key, []Entry]
	schedule *slots.Mapping[Entry, *schedule]
	pending  *slots.Uint64
}

func New(sctx *slots.Context) *Index {
	return &Index{
		buckets:  slots.NewMapping[slots.Uint32Key, []Entry](sctx, slotBuckets),
		schedule: slots.NewMapping[Entry, *schedule](sctx, slotSchedule),
		pending:  slots.NewUint64(sctx, slotPending),
	}
}

// Insert schedules entry at height.
func (x *Index) Insert(height uint32, entry Entry) error {
	s, err := x.schedule.Get(entry)
	if err != nil {
		return errors.Wrap(err, "failed to get schedule")
	}
	if s != nil {
		return reverts.ErrAlreadyScheduled.WithReason(entry.String())
	}
	if err := x.push(height, entry); err != nil {
		return err
	}
	return x.pending.Add(1)
}

// Move relocates entry from bucket at height from to bucket at height to.
// It fails with reverts.ErrCorruptIndex if entry is not in bucket from.
func (x *Index) Move(entry Entry, from, to uint32) error {
	bucket, err := x.buckets.Get(slots.Uint32Key(from))
	if err != nil {
		return errors.Wrap(err, "failed to get bucket")
	}
	i := slices.Index(bucket, entry)
	if i < 0 {
		return reverts.ErrCorruptIndex.WithReason(entry.String())
	}
	if from == to {
		return nil
	}

	if err := x.setBucket(from, slices.Delete(bucket, i, i+1)); err != nil {
		return err
	}
	return x.push(to, entry)
}

// Drain returns the entries due at height in scheduling order and removes the bucket.
func (x *Index) Drain(height uint32) ([]Entry, error) {
	bucket, err := x.buckets.Get(slots.Uint32Key(height))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bucket")
	}
	if len(bucket) == 0 {
		return nil, nil
	}
	x.buckets.Delete(slots.Uint32Key(height))
	for _, entry := range bucket {
		x.schedule.Delete(entry)
	}
	if err := x.pending.Sub(uint64(len(bucket))); err != nil {
		return nil, err
	}
	return bucket, nil
}

// HeightOf returns the height entry is scheduled at. The second return value is
// false if the entry is not scheduled.
func (x *Index) HeightOf(entry Entry) (uint32, bool, error) {
	s, err := x.schedule.Get(entry)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get schedule")
	}
	if s == nil {
		return 0, false, nil
	}
	return s.Height, true, nil
}

// Bucket returns the entries scheduled at height without draining them.
func (x *Index) Bucket(height uint32) ([]Entry, error) {
	return x.buckets.Get(slots.Uint32Key(height))
}

// Pending returns the number of scheduled entries.
func (x *Index) Pending() (uint64, error) {
	return x.pending.Get()
}

func (x *Index) push(height uint32, entry Entry) error {
	bucket, err := x.buckets.Get(slots.Uint32Key(height))
	if err != nil {
		return errors.Wrap(err, "failed to get bucket")
	}
	if err := x.setBucket(height, append(bucket, entry)); err != nil {
		return err
	}
	if err := x.schedule.Set(entry, &schedule{height}); err != nil {
		return errors.Wrap(err, "failed to set schedule")
	}
	return nil
}

func (x *Index) setBucket(height uint32, bucket []Entry) error {
	if len(bucket) == 0 {
		x.buckets.Delete(slots.Uint32Key(height))
		return nil
	}
	if err := x.buckets.Set(slots.Uint32Key(height), bucket); err != nil {
		return errors.Wrap(err, "failed to set bucket")
	}
	return nil
}
