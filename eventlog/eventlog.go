// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"context"
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/tempo"
)

const memPath = ":memory:"

// EventLog archives the events of committed blocks in sqlite.
type EventLog struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New creates or opens the event log at path.
func New(path string) (log *EventLog, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if log == nil {
			db.Close()
		}
	}()
	if path == memPath {
		// every connection opens its own in memory database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventLog{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem creates an event log in ram.
func NewMem() (*EventLog, error) {
	return New(memPath)
}

// Close closes the event log.
func (l *EventLog) Close() error {
	return l.db.Close()
}

func (l *EventLog) Path() string {
	return l.path
}

func (l *EventLog) DriverVersion() string {
	return l.driverVersion
}

// Prepare starts the batch of events of the block at height.
func (l *EventLog) Prepare(height uint32) *BlockBatch {
	return &BlockBatch{
		db:     l.db,
		height: height,
	}
}

// Newest returns the highest height having events.
func (l *EventLog) Newest(ctx context.Context) (uint32, bool, error) {
	var height sql.NullInt64
	if err := l.db.QueryRowContext(ctx, "SELECT MAX(height) FROM event").Scan(&height); err != nil {
		return 0, false, err
	}
	if !height.Valid {
		return 0, false, nil
	}
	return uint32(height.Int64), true, nil
}

// Filter queries the records selected by filter, all records if filter is nil.
func (l *EventLog) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	if filter == nil {
		return l.query(ctx, "SELECT * FROM event ORDER BY height ASC, eventIndex ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND height >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND height <= ? "
		}
	}
	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1 "
		} else {
			stmt += " OR ( 1 "
		}
		if criteria.Kind != nil {
			args = append(args, string(*criteria.Kind))
			stmt += " AND kind = ? "
		}
		if criteria.Namespace != "" {
			args = append(args, criteria.Namespace)
			stmt += " AND namespace = ? "
		}
		if criteria.Entity != nil {
			args = append(args, int64(*criteria.Entity))
			stmt += " AND entity = ? "
		}
		if criteria.Account != nil {
			args = append(args, criteria.Account.Bytes())
			stmt += " AND account = ? "
		}
		if i == length-1 {
			stmt += " )) "
		} else {
			stmt += " ) "
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY height DESC, eventIndex DESC "
	} else {
		stmt += " ORDER BY height ASC, eventIndex ASC "
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return l.query(ctx, stmt, args...)
}

func (l *EventLog) query(ctx context.Context, stmt string, args ...any) ([]*Record, error) {
	rows, err := l.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			height    uint32
			index     uint32
			kind      string
			namespace string
			entity    int64
			account   []byte
			data      []byte
		)
		if err := rows.Scan(
			&height,
			&index,
			&kind,
			&namespace,
			&entity,
			&account,
			&data,
		); err != nil {
			return nil, err
		}
		rec := &Record{
			Height:    height,
			Index:     index,
			Kind:      event.Kind(kind),
			Namespace: namespace,
			Entity:    uint64(entity),
			Data:      data,
		}
		if len(account) > 0 {
			acc := tempo.BytesToAddress(account)
			rec.Account = &acc
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func accountValue(acc *tempo.Address) []byte {
	if acc == nil {
		return nil
	}
	return acc.Bytes()
}

// BlockBatch collects the events of one block. It's an event.Sink.
type BlockBatch struct {
	db      *sql.DB
	height  uint32
	records []*Record
	err     error
}

// Emit appends ev to the batch.
func (bb *BlockBatch) Emit(ev event.Event) {
	if bb.err != nil {
		return
	}
	rec, err := newRecord(bb.height, uint32(len(bb.records)), ev)
	if err != nil {
		bb.err = err
		return
	}
	bb.records = append(bb.records, rec)
}

func (bb *BlockBatch) Len() int {
	return len(bb.records)
}

// Records returns the collected records.
func (bb *BlockBatch) Records() []*Record {
	return bb.records
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes the batch in one transaction.
func (bb *BlockBatch) Commit() error {
	if bb.err != nil {
		return bb.err
	}
	if len(bb.records) == 0 {
		return nil
	}
	return bb.execInTx(func(tx *sql.Tx) error {
		for _, rec := range bb.records {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(height, eventIndex, kind, namespace, entity, account, data) VALUES (?, ?, ?, ?, ?, ?, ?);",
				rec.Height,
				rec.Index,
				string(rec.Kind),
				rec.Namespace,
				int64(rec.Entity),
				accountValue(rec.Account),
				rec.Data,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
