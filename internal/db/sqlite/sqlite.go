package sqlite

import (
	"fmt"

	"github.com/networkupstools/nut-hcl/internal/util"
	"github.com/networkupstools/nut-hcl/pkg/hcl"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const TABLE_NAME = "nut_hcl_records"

// row is the stored shape of a record; row_index keeps the authored order.
type row struct {
	RowIndex int `db:"row_index"`
	hcl.Record
}

func CreateRecordsIfNotExists(path string) (*sqlx.DB, error) {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		row_index 	INTEGER NOT NULL PRIMARY KEY,
		level 		INTEGER NOT NULL,
		vendor 		TEXT NOT NULL,
		model 		TEXT NOT NULL,
		note 		TEXT NOT NULL,
		driver 		TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS %s_vendor ON %s (vendor);
	`, TABLE_NAME, TABLE_NAME, TABLE_NAME)
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return db, nil
}

// InsertRecords replaces the stored table with records in a single
// transaction.
func InsertRecords(path string, records ...hcl.Record) error {
	if records == nil {
		return fmt.Errorf("no records to insert")
	}

	// create database if it doesn't already exist
	db, err := CreateRecordsIfNotExists(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s;", TABLE_NAME)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear table: %w", err)
	}
	sql := fmt.Sprintf(`INSERT INTO %s (row_index, level, vendor, model, note, driver)
		VALUES (:row_index, :level, :vendor, :model, :note, :driver);`, TABLE_NAME)
	for i, r := range records {
		if _, err := tx.NamedExec(sql, row{RowIndex: i, Record: r}); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRecords loads records in their stored order.
func GetRecords(path string) ([]hcl.Record, error) {
	// check if path exists first to prevent creating the database
	_, exists := util.PathExists(path)
	if !exists {
		return nil, fmt.Errorf("no file found at %s", path)
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows := []row{}
	err = db.Select(&rows, fmt.Sprintf("SELECT row_index, level, vendor, model, note, driver FROM %s ORDER BY row_index ASC;", TABLE_NAME))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve records: %w", err)
	}
	records := make([]hcl.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record)
	}
	return records, nil
}

// CountByLevel returns how many stored rows claim each support level.
func CountByLevel(path string) (map[hcl.SupportLevel]int, error) {
	_, exists := util.PathExists(path)
	if !exists {
		return nil, fmt.Errorf("no file found at %s", path)
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var counts []struct {
		Level hcl.SupportLevel `db:"level"`
		Count int              `db:"count"`
	}
	err = db.Select(&counts, fmt.Sprintf("SELECT level, COUNT(*) AS count FROM %s GROUP BY level ORDER BY level;", TABLE_NAME))
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	out := make(map[hcl.SupportLevel]int, len(counts))
	for _, c := range counts {
		out[c.Level] = c.Count
	}
	return out, nil
}
