// Package itistest builds small ITIS SQLite databases for tests.
package itistest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// UpdateDate is the update_date written by every helper.
const UpdateDate = "2021-04-27"

// Schema is the subset of the ITIS schema read by itisgraph.
const Schema = `
CREATE TABLE kingdoms (
	kingdom_id INTEGER PRIMARY KEY,
	kingdom_name CHAR(10) NOT NULL,
	update_date DATE NOT NULL
);
CREATE TABLE taxon_unit_types (
	kingdom_id INTEGER NOT NULL,
	rank_id SMALLINT NOT NULL,
	rank_name CHAR(15) NOT NULL,
	dir_parent_rank_id SMALLINT NOT NULL,
	req_parent_rank_id SMALLINT NOT NULL,
	update_date DATE NOT NULL,
	PRIMARY KEY (kingdom_id, rank_id)
);
CREATE TABLE taxonomic_units (
	tsn INTEGER PRIMARY KEY,
	unit_ind1 CHAR(1),
	unit_name1 CHAR(35) NOT NULL,
	unit_ind2 CHAR(1),
	unit_name2 VARCHAR(35),
	unit_ind3 VARCHAR(7),
	unit_name3 VARCHAR(35),
	unit_ind4 VARCHAR(7),
	unit_name4 VARCHAR(35),
	name_usage VARCHAR(12) NOT NULL,
	parent_tsn INTEGER,
	taxon_author_id INTEGER,
	hybrid_author_id INTEGER,
	kingdom_id SMALLINT NOT NULL,
	rank_id SMALLINT NOT NULL,
	update_date DATE NOT NULL,
	initial_time_stamp DATETIME NOT NULL,
	complete_name VARCHAR(300) NOT NULL
);
CREATE TABLE vernaculars (
	tsn INTEGER NOT NULL,
	vernacular_name VARCHAR(80) NOT NULL,
	language VARCHAR(15) NOT NULL,
	approved_ind CHAR(1),
	update_date DATE NOT NULL,
	vern_id INTEGER NOT NULL,
	PRIMARY KEY (tsn, vern_id)
);
CREATE TABLE geographic_div (
	tsn INTEGER NOT NULL,
	geographic_value VARCHAR(45) NOT NULL,
	update_date DATE NOT NULL,
	PRIMARY KEY (tsn, geographic_value)
);
CREATE TABLE synonym_links (
	tsn INTEGER NOT NULL,
	tsn_accepted INTEGER NOT NULL,
	update_date DATE NOT NULL,
	PRIMARY KEY (tsn, tsn_accepted)
);
CREATE TABLE taxon_authors_lkp (
	taxon_author_id INTEGER NOT NULL,
	taxon_author VARCHAR(100) NOT NULL,
	update_date DATE NOT NULL,
	kingdom_id SMALLINT NOT NULL,
	short_author VARCHAR(100),
	PRIMARY KEY (taxon_author_id, kingdom_id)
);
CREATE TABLE longnames (
	tsn INTEGER PRIMARY KEY,
	completename VARCHAR(164) NOT NULL
);
CREATE TABLE nodc_ids (
	nodc_id CHAR(12) NOT NULL,
	update_date DATE NOT NULL,
	tsn INTEGER NOT NULL,
	PRIMARY KEY (nodc_id, tsn)
);
`

// DB is a writable ITIS database in a test's temp dir.
type DB struct {
	t    testing.TB
	db   *sql.DB
	path string
}

// New creates an empty database with [Schema]. It is removed with the test's
// temp dir.
func New(t testing.TB) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "itis.sqlite")
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return &DB{t: t, db: db, path: path}
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Exec runs a statement and fails the test on error.
func (d *DB) Exec(query string, args ...any) *DB {
	d.t.Helper()
	if _, err := d.db.Exec(query, args...); err != nil {
		d.t.Fatalf("exec %q: %v", query, err)
	}
	return d
}

// Kingdom inserts a kingdom.
func (d *DB) Kingdom(id int64, name string) *DB {
	d.t.Helper()
	return d.Exec(`INSERT INTO kingdoms VALUES (?, ?, ?)`, id, name, UpdateDate)
}

// Rank inserts a rank with its direct and required parent ranks.
func (d *DB) Rank(kingdomID, rankID int64, name string, dirParent, reqParent int64) *DB {
	d.t.Helper()
	return d.Exec(`INSERT INTO taxon_unit_types VALUES (?, ?, ?, ?, ?, ?)`,
		kingdomID, rankID, name, dirParent, reqParent, UpdateDate)
}

// Unit describes a taxonomic_units row. Zero ids are written as NULL.
type Unit struct {
	TSN          int64
	KingdomID    int64
	RankID       int64
	ParentTSN    int64
	Name         string // unit_name1 and complete_name
	NameUsage    string // defaults to "accepted"
	TaxonAuthor  int64
	HybridAuthor int64
	Created      string // defaults to "1996-06-13 14:51:08"
}

// Unit inserts a taxonomic unit.
func (d *DB) Unit(u Unit) *DB {
	d.t.Helper()
	if u.NameUsage == "" {
		u.NameUsage = "accepted"
	}
	if u.Created == "" {
		u.Created = "1996-06-13 14:51:08"
	}
	return d.Exec(`INSERT INTO taxonomic_units
		(tsn, unit_name1, name_usage, parent_tsn, taxon_author_id, hybrid_author_id,
		 kingdom_id, rank_id, update_date, initial_time_stamp, complete_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.TSN, u.Name, u.NameUsage, nullID(u.ParentTSN), nullID(u.TaxonAuthor), nullID(u.HybridAuthor),
		u.KingdomID, u.RankID, UpdateDate, u.Created, u.Name)
}

// Vernacular inserts a vernacular name.
func (d *DB) Vernacular(vernID, tsn int64, language, name string) *DB {
	d.t.Helper()
	return d.Exec(`INSERT INTO vernaculars (tsn, vernacular_name, language, update_date, vern_id)
		VALUES (?, ?, ?, ?, ?)`, tsn, name, language, UpdateDate, vernID)
}

// Geography inserts a geographic division record for a unit.
func (d *DB) Geography(tsn int64, value string) *DB {
	d.t.Helper()
	return d.Exec(`INSERT INTO geographic_div VALUES (?, ?, ?)`, tsn, value, UpdateDate)
}

// Synonym links a unit to its accepted unit.
func (d *DB) Synonym(tsn, accepted int64) *DB {
	d.t.Helper()
	return d.Exec(`INSERT INTO synonym_links VALUES (?, ?, ?)`, tsn, accepted, UpdateDate)
}

// Author inserts a taxon author.
func (d *DB) Author(id, kingdomID int64, taxonAuthor, shortAuthor string) *DB {
	d.t.Helper()
	var short any
	if shortAuthor != "" {
		short = shortAuthor
	}
	return d.Exec(`INSERT INTO taxon_authors_lkp VALUES (?, ?, ?, ?, ?)`,
		id, taxonAuthor, UpdateDate, kingdomID, short)
}

// LongName inserts a long name for a unit.
func (d *DB) LongName(tsn int64, name string) *DB {
	d.t.Helper()
	return d.Exec(`INSERT INTO longnames VALUES (?, ?)`, tsn, name)
}

// NODC inserts a NODC id for a unit.
func (d *DB) NODC(tsn int64, id string) *DB {
	d.t.Helper()
	return d.Exec(`INSERT INTO nodc_ids VALUES (?, ?, ?)`, id, UpdateDate, tsn)
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// Plantae returns a small Plantae (kingdom 3) database:
//
//   - ranks 10 (Kingdom, self-parented), 20 (Subkingdom) and 220 (Species)
//   - unit 1 (root, rank 10) and unit 100 (child of 1, rank 10) with a long
//     name, a NODC id, an English vernacular (500) and a North America record
//   - unit 101 (species, synonym of 100) authored by 42 with hybrid author 0,
//     and unit 102 with a negative taxon author and an unknown hybrid author
//   - an Animalia (kingdom 5) kingdom, rank and unit that must stay out of scope
func Plantae(t testing.TB) *DB {
	t.Helper()
	d := New(t)
	d.Kingdom(3, "Plantae").
		Kingdom(5, "Animalia").
		Rank(3, 10, "Kingdom", 10, 10).
		Rank(3, 20, "Subkingdom", 10, 10).
		Rank(3, 220, "Species", 20, 10).
		Rank(5, 10, "Kingdom", 10, 10).
		Author(42, 3, "L.", "Linnaeus").
		Author(43, 3, "(Hook.) Rydb.", "").
		Author(77, 5, "Fabricius", "")
	d.Unit(Unit{TSN: 1, KingdomID: 3, RankID: 10, Name: "Plantae"}).
		Unit(Unit{TSN: 100, KingdomID: 3, RankID: 10, ParentTSN: 1, Name: "Viridiplantae"}).
		Unit(Unit{TSN: 101, KingdomID: 3, RankID: 220, ParentTSN: 100, Name: "Acer rubrum", NameUsage: "not accepted", TaxonAuthor: 42}).
		Unit(Unit{TSN: 102, KingdomID: 3, RankID: 220, ParentTSN: 100, Name: "Acer nigrum", TaxonAuthor: -1, HybridAuthor: 999}).
		Unit(Unit{TSN: 103, KingdomID: 3, RankID: 220, ParentTSN: 100, Name: "Acer x freemanii", TaxonAuthor: 43, HybridAuthor: 42}).
		Unit(Unit{TSN: 900, KingdomID: 5, RankID: 10, Name: "Animalia", TaxonAuthor: 77})
	d.LongName(100, "Viridiplantae Cavalier-Smith").
		NODC(100, "9400000000").
		NODC(100, "9400000001").
		Vernacular(500, 100, "English", "green plants").
		Vernacular(501, 101, "French", "érable rouge").
		Vernacular(502, 101, "English", "red maple").
		Vernacular(900, 900, "Klingon", "out of scope").
		Geography(100, "North America").
		Geography(101, "North America").
		Geography(101, "Europe & Northern Asia (excluding China)").
		Geography(900, "Atlantis").
		Synonym(101, 100)
	return d
}
