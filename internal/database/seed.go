package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// seedParties and seedPoliticians use the same loose shapes the hosted
// store produces, including mixed key spellings.
var seedParties = []map[string]any{
	{"Name": "Lok Janata Party", "slug": "lok-janata-party", "Abbreviation": "LJP", "Status": "National Party", "Founded": "1977", "Seats": "240", "Leaders": "R. Menon, S. Iyer", "Symbol": "Wheel"},
	{"Name": "Pragati Morcha", "slug": "pragati-morcha", "abbr": "PM", "Status": "State Party", "State": "Kerala", "Founded": "1998-03-01", "seats": 12, "Leaders": []any{"A. Thomas"}},
	{"Name": "Nava Sangam", "slug": "nava-sangam", "abbrev": "NS", "Status": "Registered (Unrecognised)", "State": "Bihar", "Seats": ""},
}

var seedPoliticians = []map[string]any{
	{"Name": "Asha Rao", "slug": "asha-rao", "Party": "Lok Janata Party", "State": "Karnataka", "current_position": "Member of Parliament", "Constituency": "Bangalore North", "Age": 54, "Offices": "MP; Minister of State", "Criminal Cases": "0"},
	{"Name": "Vikram Sethi", "slug": "vikram-sethi", "Party": "Pragati Morcha", "State": "Kerala", "Position": "MLA", "constituency": "Kochi", "Age": "47", "Links": "https://example.org/vs"},
	{"Name": "Meera Pillai", "Party": "Nava Sangam", "State": "Bihar", "position": "Former MLA", "Years in Politics": "18"},
}

// Seed populates the record tables with sample rows for local development.
// It is a no-op when either table already holds data.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT (SELECT COUNT(*) FROM parties) + (SELECT COUNT(*) FROM politicians)").Scan(&count); err != nil {
		return fmt.Errorf("seed check records: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	if err := insertRows(db, "parties", seedParties); err != nil {
		return err
	}
	if err := insertRows(db, "politicians", seedPoliticians); err != nil {
		return err
	}

	slog.Info("database seeded with sample records",
		"parties", len(seedParties),
		"politicians", len(seedPoliticians),
	)
	return nil
}

func insertRows(db *sql.DB, table string, rows []map[string]any) error {
	for _, fields := range rows {
		raw, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("seed marshal %s: %w", table, err)
		}
		if _, err := db.Exec(
			"INSERT INTO "+table+" (id, fields) VALUES ($1, $2)",
			uuid.NewString(), raw,
		); err != nil {
			return fmt.Errorf("seed insert %s: %w", table, err)
		}
	}
	return nil
}
