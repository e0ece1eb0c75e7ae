package model

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE features (
	ord   INTEGER PRIMARY KEY,
	name  TEXT NOT NULL,
	mean  REAL,
	scale REAL
);
CREATE TABLE encodings (
	feature  TEXT NOT NULL,
	category TEXT NOT NULL,
	code     REAL NOT NULL,
	PRIMARY KEY (feature, category)
);
CREATE TABLE centroids (
	cluster INTEGER NOT NULL,
	ord     INTEGER NOT NULL,
	value   REAL NOT NULL,
	PRIMARY KEY (cluster, ord)
);
CREATE TABLE labels (
	cluster INTEGER PRIMARY KEY,
	label   TEXT NOT NULL,
	kind    TEXT NOT NULL
);
`

// readSQLite loads a model stored in the tables of sqliteSchema.
func readSQLite(path string) (*KMeans, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	m := &KMeans{Encodings: make(map[string]map[string]float64)}

	if err := readFeatures(db, m); err != nil {
		return nil, err
	}
	if err := readEncodings(db, m); err != nil {
		return nil, err
	}
	if err := readCentroids(db, m); err != nil {
		return nil, err
	}
	if err := readLabels(db, m); err != nil {
		return nil, err
	}

	return m, nil
}

func readFeatures(db *sql.DB, m *KMeans) error {
	rows, err := db.Query("SELECT name, mean, scale FROM features ORDER BY ord")
	if err != nil {
		return fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	var means, scales []float64
	var unscaled []string
	for rows.Next() {
		var name string
		var mean, scale sql.NullFloat64
		if err := rows.Scan(&name, &mean, &scale); err != nil {
			return fmt.Errorf("scanning feature: %w", err)
		}
		m.Features = append(m.Features, name)
		if !mean.Valid || !scale.Valid {
			unscaled = append(unscaled, name)
		}
		means = append(means, mean.Float64)
		scales = append(scales, scale.Float64)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading features: %w", err)
	}

	// Either every feature carries a scaler entry or none does.
	switch {
	case len(m.Features) == 0 || len(unscaled) == len(m.Features):
	case len(unscaled) == 0:
		m.Scaler = &Scaler{Mean: means, Scale: scales}
	default:
		return fmt.Errorf("scaler is incomplete: no mean or scale for %s", strings.Join(unscaled, ", "))
	}
	return nil
}

func readEncodings(db *sql.DB, m *KMeans) error {
	rows, err := db.Query("SELECT feature, category, code FROM encodings")
	if err != nil {
		return fmt.Errorf("querying encodings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var feature, category string
		var code float64
		if err := rows.Scan(&feature, &category, &code); err != nil {
			return fmt.Errorf("scanning encoding: %w", err)
		}
		if m.Encodings[feature] == nil {
			m.Encodings[feature] = make(map[string]float64)
		}
		m.Encodings[feature][category] = code
	}
	return rows.Err()
}

func readCentroids(db *sql.DB, m *KMeans) error {
	rows, err := db.Query("SELECT cluster, ord, value FROM centroids ORDER BY cluster, ord")
	if err != nil {
		return fmt.Errorf("querying centroids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cluster, ord int
		var value float64
		if err := rows.Scan(&cluster, &ord, &value); err != nil {
			return fmt.Errorf("scanning centroid: %w", err)
		}
		if cluster != len(m.Centroids)-1 {
			if cluster != len(m.Centroids) {
				return fmt.Errorf("centroid clusters are not contiguous at %d", cluster)
			}
			m.Centroids = append(m.Centroids, nil)
		}
		c := &m.Centroids[cluster]
		if ord != len(*c) {
			return fmt.Errorf("centroid %d has a gap at dimension %d", cluster, ord)
		}
		*c = append(*c, value)
	}
	return rows.Err()
}

func readLabels(db *sql.DB, m *KMeans) error {
	rows, err := db.Query("SELECT label, kind FROM labels ORDER BY cluster")
	if err != nil {
		return fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var text, kind string
		if err := rows.Scan(&text, &kind); err != nil {
			return fmt.Errorf("scanning label: %w", err)
		}
		v, err := decodeLabel(text, kind)
		if err != nil {
			return err
		}
		m.Labels = append(m.Labels, v)
	}
	return rows.Err()
}

func decodeLabel(text, kind string) (any, error) {
	switch kind {
	case "int":
		return strconv.Atoi(text)
	case "float":
		return strconv.ParseFloat(text, 64)
	case "string":
		return text, nil
	default:
		return nil, fmt.Errorf("unknown label kind %q", kind)
	}
}

func encodeLabel(v any) (string, string) {
	switch l := v.(type) {
	case int:
		return strconv.Itoa(l), "int"
	case int64:
		return strconv.FormatInt(l, 10), "int"
	case float64:
		return strconv.FormatFloat(l, 'g', -1, 64), "float"
	default:
		return fmt.Sprint(v), "string"
	}
}

// writeSQLite replaces path with a fresh database holding m.
func writeSQLite(path string, m *KMeans) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old artifact: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	for i, name := range m.Features {
		var mean, scale any
		if m.Scaler != nil {
			mean, scale = m.Scaler.Mean[i], m.Scaler.Scale[i]
		}
		if _, err := tx.Exec("INSERT INTO features (ord, name, mean, scale) VALUES (?, ?, ?, ?)", i, name, mean, scale); err != nil {
			return fmt.Errorf("writing feature %s: %w", name, err)
		}
	}

	for feature, codes := range m.Encodings {
		for category, code := range codes {
			if _, err := tx.Exec("INSERT INTO encodings (feature, category, code) VALUES (?, ?, ?)", feature, category, code); err != nil {
				return fmt.Errorf("writing encoding %s/%s: %w", feature, category, err)
			}
		}
	}

	for cluster, c := range m.Centroids {
		for ord, v := range c {
			if _, err := tx.Exec("INSERT INTO centroids (cluster, ord, value) VALUES (?, ?, ?)", cluster, ord, v); err != nil {
				return fmt.Errorf("writing centroid %d: %w", cluster, err)
			}
		}
	}

	for cluster, l := range m.Labels {
		text, kind := encodeLabel(l)
		if _, err := tx.Exec("INSERT INTO labels (cluster, label, kind) VALUES (?, ?, ?)", cluster, text, kind); err != nil {
			return fmt.Errorf("writing label %d: %w", cluster, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing artifact: %w", err)
	}
	return nil
}
