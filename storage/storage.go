// Package storage persists a generated CityResult to sqlite3 and reads it
// back for inspection.
//
// Grounded on readers.go's SqliteReader (database/sql + the side-effect
// import of github.com/mattn/go-sqlite3 to register the driver): this
// package is the write-side counterpart the teacher never needed (the
// teacher only ever reads pre-existing RIB sqlite dumps), built in the
// same database/sql style.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Emeline-1/citygen/cityspec"
	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/geom"
	"github.com/Emeline-1/citygen/intersectionir"
	"github.com/Emeline-1/citygen/population"
	"github.com/Emeline-1/citygen/trafficway"
)

// Store is a sqlite3-backed record store for one generation run's output.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite3 database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS probes (
	idx INTEGER PRIMARY KEY,
	x REAL, y REAL, z REAL,
	pop200 REAL, pop1000 REAL
);
CREATE TABLE IF NOT EXISTS connections (
	src INTEGER, dst INTEGER,
	flow REAL, lane_count INTEGER
);
CREATE TABLE IF NOT EXISTS traffic_ways (
	conn_id TEXT PRIMARY KEY,
	src INTEGER, dst INTEGER, lane_count INTEGER
);
CREATE TABLE IF NOT EXISTS markings (
	conn_id TEXT, boundary_index INTEGER, kind INTEGER, t1 REAL, t2 REAL
);
CREATE TABLE IF NOT EXISTS lanes (
	conn_id TEXT, lane_index INTEGER,
	left_curve_index INTEGER, right_curve_index INTEGER,
	left_adjacent INTEGER, right_adjacent INTEGER
);
CREATE TABLE IF NOT EXISTS intersections (
	probe INTEGER PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS intersection_connections (
	probe INTEGER, inbound_conn_id TEXT, inbound_lane INTEGER, outbound_conn_id TEXT
);
`

func (s *Store) createSchema() error {
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("storage: create schema: %w", err)
	}
	return nil
}

// Save writes every table of result inside a single transaction.
func (s *Store) Save(result *cityspec.CityResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}

	if err := saveProbes(tx, result.Probes); err != nil {
		tx.Rollback()
		return err
	}
	if err := saveConnections(tx, result.Connections); err != nil {
		tx.Rollback()
		return err
	}
	if err := saveTrafficWays(tx, result.TrafficWays); err != nil {
		tx.Rollback()
		return err
	}
	if err := saveIntersections(tx, result.Intersections); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func saveProbes(tx *sql.Tx, probes []population.Probe) error {
	stmt, err := tx.Prepare("INSERT INTO probes(idx, x, y, z, pop200, pop1000) VALUES (?,?,?,?,?,?)")
	if err != nil {
		return fmt.Errorf("storage: prepare probes: %w", err)
	}
	defer stmt.Close()

	for i, p := range probes {
		if _, err := stmt.Exec(i, p.Location.X, p.Location.Y, p.Location.Z, p.Pop200, p.Pop1000); err != nil {
			return fmt.Errorf("storage: insert probe %d: %w", i, err)
		}
	}
	return nil
}

func saveConnections(tx *sql.Tx, conns []flow.ProbeConnectionFlow) error {
	stmt, err := tx.Prepare("INSERT INTO connections(src, dst, flow, lane_count) VALUES (?,?,?,?)")
	if err != nil {
		return fmt.Errorf("storage: prepare connections: %w", err)
	}
	defer stmt.Close()

	for _, c := range conns {
		if _, err := stmt.Exec(c.Src, c.Dst, c.Flow, c.LaneCount); err != nil {
			return fmt.Errorf("storage: insert connection %s: %w", c.ID(), err)
		}
	}
	return nil
}

func saveTrafficWays(tx *sql.Tx, ways []*trafficway.TrafficWay) error {
	wayStmt, err := tx.Prepare("INSERT INTO traffic_ways(conn_id, src, dst, lane_count) VALUES (?,?,?,?)")
	if err != nil {
		return fmt.Errorf("storage: prepare traffic_ways: %w", err)
	}
	defer wayStmt.Close()

	markingStmt, err := tx.Prepare("INSERT INTO markings(conn_id, boundary_index, kind, t1, t2) VALUES (?,?,?,?,?)")
	if err != nil {
		return fmt.Errorf("storage: prepare markings: %w", err)
	}
	defer markingStmt.Close()

	laneStmt, err := tx.Prepare("INSERT INTO lanes(conn_id, lane_index, left_curve_index, right_curve_index, left_adjacent, right_adjacent) VALUES (?,?,?,?,?,?)")
	if err != nil {
		return fmt.Errorf("storage: prepare lanes: %w", err)
	}
	defer laneStmt.Close()

	for _, w := range ways {
		id := w.Connection.ID()
		if _, err := wayStmt.Exec(id, w.Connection.Src, w.Connection.Dst, w.Connection.LaneCount); err != nil {
			return fmt.Errorf("storage: insert traffic way %s: %w", id, err)
		}

		for boundaryIndex, windows := range w.Markings {
			for _, m := range windows {
				if _, err := markingStmt.Exec(id, boundaryIndex, int(m.Kind), m.T1, m.T2); err != nil {
					return fmt.Errorf("storage: insert marking for %s: %w", id, err)
				}
			}
		}

		for laneIndex, lane := range w.Lanes {
			if _, err := laneStmt.Exec(id, laneIndex, lane.LeftCurveIndex, lane.RightCurveIndex, lane.LeftAdjacentLaneIndex, lane.RightAdjacentLaneIndex); err != nil {
				return fmt.Errorf("storage: insert lane for %s: %w", id, err)
			}
		}
	}
	return nil
}

func saveIntersections(tx *sql.Tx, intersections []*intersectionir.Intersection) error {
	probeStmt, err := tx.Prepare("INSERT INTO intersections(probe) VALUES (?)")
	if err != nil {
		return fmt.Errorf("storage: prepare intersections: %w", err)
	}
	defer probeStmt.Close()

	connStmt, err := tx.Prepare("INSERT INTO intersection_connections(probe, inbound_conn_id, inbound_lane, outbound_conn_id) VALUES (?,?,?,?)")
	if err != nil {
		return fmt.Errorf("storage: prepare intersection_connections: %w", err)
	}
	defer connStmt.Close()

	for _, ix := range intersections {
		if _, err := probeStmt.Exec(ix.Probe); err != nil {
			return fmt.Errorf("storage: insert intersection %d: %w", ix.Probe, err)
		}
		for _, c := range ix.Connections {
			if _, err := connStmt.Exec(ix.Probe, c.Inbound.Connection.ID(), c.InboundLane, c.Outbound.Connection.ID()); err != nil {
				return fmt.Errorf("storage: insert intersection connection at probe %d: %w", ix.Probe, err)
			}
		}
	}
	return nil
}

// LoadProbes reads back the probes table, in index order.
func (s *Store) LoadProbes() ([]population.Probe, error) {
	rows, err := s.db.Query("SELECT x, y, z, pop200, pop1000 FROM probes ORDER BY idx")
	if err != nil {
		return nil, fmt.Errorf("storage: query probes: %w", err)
	}
	defer rows.Close()

	var probes []population.Probe
	for rows.Next() {
		var x, y, z, pop200, pop1000 float64
		if err := rows.Scan(&x, &y, &z, &pop200, &pop1000); err != nil {
			return nil, fmt.Errorf("storage: scan probe: %w", err)
		}
		probes = append(probes, population.Probe{
			Location: geom.Point3{X: x, Y: y, Z: z},
			Pop200:   pop200,
			Pop1000:  pop1000,
		})
	}
	return probes, rows.Err()
}

// LoadConnections reads back the connections table, in insertion order.
func (s *Store) LoadConnections() ([]flow.ProbeConnectionFlow, error) {
	rows, err := s.db.Query("SELECT src, dst, flow, lane_count FROM connections")
	if err != nil {
		return nil, fmt.Errorf("storage: query connections: %w", err)
	}
	defer rows.Close()

	var conns []flow.ProbeConnectionFlow
	for rows.Next() {
		var src, dst, laneCount int
		var f float64
		if err := rows.Scan(&src, &dst, &f, &laneCount); err != nil {
			return nil, fmt.Errorf("storage: scan connection: %w", err)
		}
		conns = append(conns, flow.ProbeConnectionFlow{
			ProbeConnection: flow.ProbeConnection{Src: src, Dst: dst},
			Flow:            f,
			LaneCount:       laneCount,
		})
	}
	return conns, rows.Err()
}

// DumpJSON writes a human-inspectable JSON rendering of result to path.
// Plain encoding/json is used deliberately here, not an ecosystem
// alternative: this is a flat, one-shot debug dump with no schema
// evolution or streaming requirement, the one place in this repo stdlib is
// the right tool (see DESIGN.md).
func DumpJSON(path string, result *cityspec.CityResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("storage: encode json: %w", err)
	}
	return nil
}
