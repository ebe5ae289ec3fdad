// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	height INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	kind TEXT NOT NULL,
	namespace TEXT NOT NULL,
	entity INTEGER NOT NULL,
	account BLOB(20),
	data BLOB NOT NULL,
	PRIMARY KEY (height, eventIndex)
);

CREATE INDEX IF NOT EXISTS eventKindIndex ON event(kind);
CREATE INDEX IF NOT EXISTS eventEntityIndex ON event(namespace, entity);
CREATE INDEX IF NOT EXISTS eventAccountIndex ON event(account);
`
