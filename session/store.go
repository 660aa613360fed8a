package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/xor-shift/rngkit/common"
)

// ConfigFromEnv reads the database settings the binaries share.
func ConfigFromEnv() *mysql.Config {
	config := mysql.NewConfig()
	config.User = os.Getenv("DB_USER")
	config.Passwd = os.Getenv("DB_PASSWORD")
	config.Addr = os.Getenv("DB_ADDRESS")
	config.DBName = os.Getenv("DB_NAME")
	config.Collation = "utf8mb4_general_ci"
	config.Net = "tcp"
	config.AllowNativePasswords = true
	config.ParseTime = true

	return config
}

func OpenDB(config *mysql.Config) (*sql.DB, error) {
	return sql.Open("mysql", config.FormatDSN())
}

// MySQLStore keeps sessions in the `sessions` table:
//
//	session_id  INT UNSIGNED AUTO_INCREMENT PRIMARY KEY
//	kind        VARCHAR(32)
//	initial     MEDIUMTEXT   -- JSON descriptor
//	checkpoint  MEDIUMTEXT   -- JSON descriptor, NULL until the first verified batch
//	drawn       BIGINT UNSIGNED
//	dropped     BIGINT UNSIGNED
//
// The INSERT ... RETURNING form needs MariaDB 10.5 or later.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (store *MySQLStore) CreateSession(ctx context.Context, initial common.Descriptor) (uint, error) {
	marshalled, err := json.Marshal(initial)
	if err != nil {
		return 0, err
	}

	rows, err := store.db.QueryContext(ctx,
		"insert into sessions (kind, initial, drawn, dropped) values (?, ?, 0, 0) returning session_id",
		initial.Kind, string(marshalled))
	if err != nil {
		return 0, err
	}

	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return 0, err
		}

		return 0, errors.New("no rows returned from sql insert query")
	}

	var id uint
	if err = rows.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (store *MySQLStore) SaveCheckpoint(ctx context.Context, id uint, checkpoint common.Descriptor, dropped uint) error {
	marshalled, err := json.Marshal(checkpoint)
	if err != nil {
		return err
	}

	_, err = store.db.ExecContext(ctx,
		"update sessions set checkpoint = ?, drawn = ?, dropped = ? where session_id = ?",
		string(marshalled), checkpoint.Drawn, dropped, id)

	return err
}

// InsertDraws archives a verified batch in the `draws` table in one transaction.
func InsertDraws(ctx context.Context, db *sql.DB, batch common.DrawBatch) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO draws (session_id, sequence, word) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, draw := range batch.Draws {
		if _, err = stmt.ExecContext(ctx, batch.SessionID, draw.Sequence, draw.Word); err != nil {
			return err
		}
	}

	return tx.Commit()
}
