package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
	_ "modernc.org/sqlite"
)

const (
	alertKindCatalog = "catalog"
	alertKindIntake  = "intake"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS alerts (
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			id INTEGER NOT NULL,
			source TEXT NOT NULL,
			text TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			status TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			priority TEXT NOT NULL,
			location TEXT NOT NULL,
			duplicate_of INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (kind, id)
		);

		CREATE TABLE IF NOT EXISTS disasters (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			type TEXT NOT NULL,
			severity TEXT NOT NULL,
			affected INTEGER NOT NULL,
			teams INTEGER NOT NULL,
			supplies TEXT NOT NULL,
			resource_allocation INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS zones (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			severity TEXT NOT NULL,
			affected INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			doc TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS roster (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			doc TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS relief_requests (
			id TEXT PRIMARY KEY,
			doc TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_position ON alerts(kind, position);
		CREATE INDEX IF NOT EXISTS idx_disasters_position ON disasters(position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Seed loads a catalog in a single transaction. A database that already
// holds a catalog is left as it is.
func (s *SQLiteDB) Seed(ctx context.Context, cat Catalog) error {
	if err := cat.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting seed transaction: %w", err)
	}
	defer tx.Rollback()

	var seeded int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM disasters`).Scan(&seeded); err != nil {
		return fmt.Errorf("error checking seed state: %w", err)
	}
	if seeded > 0 {
		return nil
	}

	insertAlert := func(kind string, pos int, a models.Alert) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO alerts (kind, position, id, source, text, timestamp, status, confidence, priority, location, duplicate_of, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			kind, pos, a.ID, string(a.Source), a.Text, a.Timestamp, string(a.Status), a.Confidence, string(a.Priority), a.Location, a.DuplicateOf, a.Reason)
		return err
	}
	for i, a := range cat.Alerts {
		if err := insertAlert(alertKindCatalog, i, a); err != nil {
			return fmt.Errorf("error seeding alert %d: %w", a.ID, err)
		}
	}
	for i, a := range cat.Intake {
		if err := insertAlert(alertKindIntake, i, a); err != nil {
			return fmt.Errorf("error seeding intake alert %d: %w", a.ID, err)
		}
	}

	for i, d := range cat.Disasters {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO disasters (id, position, name, location, type, severity, affected, teams, supplies, resource_allocation)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, i, d.Name, d.Location, d.Type, string(d.Severity), d.Affected, d.Teams, d.Supplies, d.ResourceAllocation)
		if err != nil {
			return fmt.Errorf("error seeding disaster %d: %w", d.ID, err)
		}
	}

	for i, z := range cat.Zones {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO zones (id, position, name, type, latitude, longitude, severity, affected)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			z.ID, i, z.Name, z.Type, z.Latitude, z.Longitude, string(z.Severity), z.Affected)
		if err != nil {
			return fmt.Errorf("error seeding zone %d: %w", z.ID, err)
		}
	}

	for i, t := range cat.Tasks {
		doc, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("error encoding task %s: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks (id, position, doc) VALUES (?, ?, ?)`, t.ID, i, string(doc)); err != nil {
			return fmt.Errorf("error seeding task %s: %w", t.ID, err)
		}
	}

	for _, p := range cat.Profiles {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("error encoding profile %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO profiles (id, doc) VALUES (?, ?)`, p.ID, string(doc)); err != nil {
			return fmt.Errorf("error seeding profile %s: %w", p.ID, err)
		}
	}

	for i, v := range cat.Roster {
		doc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("error encoding volunteer %d: %w", v.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO roster (id, position, doc) VALUES (?, ?, ?)`, v.ID, i, string(doc)); err != nil {
			return fmt.Errorf("error seeding volunteer %d: %w", v.ID, err)
		}
	}

	for i := range cat.Requests {
		if err := addRequest(ctx, tx, &cat.Requests[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteDB) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.listAlerts(ctx, alertKindCatalog)
}

func (s *SQLiteDB) ListIntake(ctx context.Context) ([]models.Alert, error) {
	return s.listAlerts(ctx, alertKindIntake)
}

func (s *SQLiteDB) listAlerts(ctx context.Context, kind string) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, text, timestamp, status, confidence, priority, location, duplicate_of, reason
		FROM alerts WHERE kind = ? ORDER BY position`, kind)
	if err != nil {
		return nil, fmt.Errorf("error querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func (s *SQLiteDB) GetAlert(ctx context.Context, id int) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, text, timestamp, status, confidence, priority, location, duplicate_of, reason
		FROM alerts WHERE kind = ? AND id = ?`, alertKindCatalog, id)
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("alert %d: %w", id, ErrNotFound)
	}
	return a, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAlert(sc scanner) (*models.Alert, error) {
	var (
		a                        models.Alert
		source, status, priority string
	)
	if err := sc.Scan(&a.ID, &source, &a.Text, &a.Timestamp, &status, &a.Confidence, &priority, &a.Location, &a.DuplicateOf, &a.Reason); err != nil {
		return nil, err
	}
	a.Source = models.AlertSource(source)
	a.Status = models.AlertStatus(status)
	a.Priority = models.Priority(priority)
	return &a, nil
}

func (s *SQLiteDB) ListDisasters(ctx context.Context, opts Filter) ([]models.DisasterRecord, error) {
	query := `SELECT id, name, location, type, severity, affected, teams, supplies, resource_allocation FROM disasters`
	var (
		where []string
		args  []any
	)

	if opts.Severity != nil {
		where = append(where, "severity = ?")
		args = append(args, string(*opts.Severity))
	}
	if q := strings.ToLower(strings.TrimSpace(opts.Query)); q != "" {
		where = append(where, "(instr(lower(name), ?) > 0 OR instr(lower(location), ?) > 0 OR instr(lower(type), ?) > 0)")
		args = append(args, q, q, q)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY position"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying disasters: %w", err)
	}
	defer rows.Close()

	disasters := []models.DisasterRecord{}
	for rows.Next() {
		d, err := scanDisaster(rows)
		if err != nil {
			return nil, err
		}
		disasters = append(disasters, *d)
	}
	return disasters, rows.Err()
}

func (s *SQLiteDB) GetDisaster(ctx context.Context, id int) (*models.DisasterRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, location, type, severity, affected, teams, supplies, resource_allocation
		FROM disasters WHERE id = ?`, id)
	d, err := scanDisaster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("disaster %d: %w", id, ErrNotFound)
	}
	return d, err
}

func scanDisaster(sc scanner) (*models.DisasterRecord, error) {
	var (
		d        models.DisasterRecord
		severity string
	)
	if err := sc.Scan(&d.ID, &d.Name, &d.Location, &d.Type, &severity, &d.Affected, &d.Teams, &d.Supplies, &d.ResourceAllocation); err != nil {
		return nil, err
	}
	d.Severity = models.Severity(severity)
	return &d, nil
}

func (s *SQLiteDB) UpdateDisaster(ctx context.Context, d *models.DisasterRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE disasters SET name = ?, location = ?, type = ?, severity = ?, affected = ?, teams = ?, supplies = ?, resource_allocation = ?
		WHERE id = ?`,
		d.Name, d.Location, d.Type, string(d.Severity), d.Affected, d.Teams, d.Supplies, d.ResourceAllocation, d.ID)
	if err != nil {
		return fmt.Errorf("error updating disaster %d: %w", d.ID, err)
	}
	return requireRow(res, fmt.Sprintf("disaster %d", d.ID))
}

func (s *SQLiteDB) ListZones(ctx context.Context, zoneType string) ([]models.Zone, error) {
	query := `SELECT id, name, type, latitude, longitude, severity, affected FROM zones`
	var args []any
	if zoneType != "" {
		query += " WHERE lower(type) = lower(?)"
		args = append(args, zoneType)
	}
	query += " ORDER BY position"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying zones: %w", err)
	}
	defer rows.Close()

	zones := []models.Zone{}
	for rows.Next() {
		var (
			z        models.Zone
			severity string
		)
		if err := rows.Scan(&z.ID, &z.Name, &z.Type, &z.Latitude, &z.Longitude, &severity, &z.Affected); err != nil {
			return nil, err
		}
		z.Severity = models.Severity(severity)
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (s *SQLiteDB) ListTasks(ctx context.Context) ([]models.VolunteerTask, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("error querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.VolunteerTask
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var t models.VolunteerTask
		if err := json.Unmarshal([]byte(doc), &t); err != nil {
			return nil, fmt.Errorf("error decoding task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteDB) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM roster ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("error querying roster: %w", err)
	}
	defer rows.Close()

	roster := []models.Volunteer{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v models.Volunteer
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, fmt.Errorf("error decoding volunteer: %w", err)
		}
		roster = append(roster, v)
	}
	return roster, rows.Err()
}

func (s *SQLiteDB) GetTask(ctx context.Context, id string) (*models.VolunteerTask, error) {
	var t models.VolunteerTask
	if err := s.getDoc(ctx, `SELECT doc FROM tasks WHERE id = ?`, id, &t); err != nil {
		return nil, fmt.Errorf("task %s: %w", id, err)
	}
	return &t, nil
}

func (s *SQLiteDB) UpdateTask(ctx context.Context, t *models.VolunteerTask) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("error encoding task %s: %w", t.ID, err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET doc = ? WHERE id = ?`, string(doc), t.ID)
	if err != nil {
		return fmt.Errorf("error updating task %s: %w", t.ID, err)
	}
	return requireRow(res, "task "+t.ID)
}

func (s *SQLiteDB) GetProfile(ctx context.Context, id string) (*models.VolunteerProfile, error) {
	var p models.VolunteerProfile
	if err := s.getDoc(ctx, `SELECT doc FROM profiles WHERE id = ?`, id, &p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", id, err)
	}
	return &p, nil
}

func (s *SQLiteDB) UpdateProfile(ctx context.Context, p *models.VolunteerProfile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("error encoding profile %s: %w", p.ID, err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET doc = ? WHERE id = ?`, string(doc), p.ID)
	if err != nil {
		return fmt.Errorf("error updating profile %s: %w", p.ID, err)
	}
	return requireRow(res, "profile "+p.ID)
}

func (s *SQLiteDB) AddRequest(ctx context.Context, r *models.ReliefRequest) error {
	return addRequest(ctx, s.db, r)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func addRequest(ctx context.Context, ex execer, r *models.ReliefRequest) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error encoding relief request %s: %w", r.ID, err)
	}
	_, err = ex.ExecContext(ctx, `INSERT INTO relief_requests (id, doc, created_at) VALUES (?, ?, ?)`, r.ID, string(doc), r.CreatedAt)
	if err != nil {
		return fmt.Errorf("error adding relief request %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteDB) GetRequest(ctx context.Context, id string) (*models.ReliefRequest, error) {
	var r models.ReliefRequest
	if err := s.getDoc(ctx, `SELECT doc FROM relief_requests WHERE id = ?`, id, &r); err != nil {
		return nil, fmt.Errorf("relief request %s: %w", id, err)
	}
	return &r, nil
}

func (s *SQLiteDB) getDoc(ctx context.Context, query, id string, dst any) error {
	var doc string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(doc), dst)
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
