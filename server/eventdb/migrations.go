package eventdb

import (
	"github.com/BurntSushi/migration"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/dbh"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
)

func Migrations(log log.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE event(
			id INTEGER PRIMARY KEY,
			event_id TEXT NOT NULL,
			session TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at INT NOT NULL,
			closed_at INT,
			response_seconds INT,
			baseline INT NOT NULL,
			drop_by INT NOT NULL,
			frame_key TEXT NOT NULL,
			prev_frame_key TEXT,
			evidence_key TEXT,
			prev_evidence_key TEXT,
			missing_boxes TEXT
		);

		CREATE UNIQUE INDEX idx_event_event_id ON event(event_id);
	`))

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE INDEX idx_event_session ON event(session);
		CREATE INDEX idx_event_created_at ON event(created_at);
	`))

	return migs
}
