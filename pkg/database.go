package mcfit

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type PadMappingEntry struct {
	PadID   int     `db:"PadID"`
	CenterX float64 `db:"CenterX"`
	CenterY float64 `db:"CenterY"`
}

// LoadPadPlaneFromDB builds the pad plane from the PadMapping table for the
// given run. Pitch is the characteristic pad size used for coordinate
// lookups and must match the geometry stored in the database.
func LoadPadPlaneFromDB(db *sqlx.DB, runNumber int, pitch float64) (*PadMap, error) {
	query := "SELECT PadID, CenterX, CenterY FROM PadMapping WHERE MinRun <= %d and MaxRun >= %d ORDER BY PadID"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Pad mapping read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := &ErrPadMap{Err: fmt.Errorf("error querying database: %w", err)}
		logger.Error(errMessage.Error())
		return nil, errMessage
	}

	padMap := NewPadMap(pitch)
	for rows.Next() {
		result := PadMappingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := &ErrPadMap{Err: fmt.Errorf("error scanning DB row: %w", err)}
			logger.Error(errMessage.Error())
			return nil, errMessage
		}
		if result.PadID < 0 || result.PadID >= NumPads {
			continue
		}
		padMap.Insert(uint16(result.PadID), result.CenterX, result.CenterY)
	}

	if padMap.NumPads() == 0 {
		errMessage := &ErrPadMap{Err: fmt.Errorf("no pads found for run %d", runNumber)}
		logger.Error(errMessage.Error())
		return nil, errMessage
	}
	return padMap, nil
}
