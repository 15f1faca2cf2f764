// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import migrate "github.com/rubenv/sql-migrate"

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "0001_blobs",
			Up: []string{
				`CREATE TABLE blobs (
					name       TEXT PRIMARY KEY NOT NULL,
					data       TEXT NOT NULL,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
			},
			Down: []string{
				`DROP TABLE blobs`,
			},
		},
	},
}
