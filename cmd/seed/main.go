// Command seed loads a YAML fixture of turfs, teams, forms, questions,
// attributes and demo addresses into Postgres for local development.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	fixturePath = flag.String("fixture", "cmd/seed/fixtures/demo.yaml", "Path to the YAML fixture")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
)

type Fixture struct {
	Volunteers []struct {
		ID        string  `yaml:"id"`
		Name      string  `yaml:"name"`
		Email     string  `yaml:"email"`
		Admin     bool    `yaml:"admin"`
		Autoturf  bool    `yaml:"autoturf"`
		Longitude float64 `yaml:"longitude"`
		Latitude  float64 `yaml:"latitude"`
	} `yaml:"volunteers"`
	Teams []struct {
		Name    string   `yaml:"name"`
		Members []string `yaml:"members"`
	} `yaml:"teams"`
	Turfs []struct {
		Name       string   `yaml:"name"`
		Teams      []string `yaml:"teams"`
		Volunteers []string `yaml:"volunteers"`
	} `yaml:"turfs"`
	Questions []struct {
		Key    string `yaml:"key"`
		Label  string `yaml:"label"`
		Type   string `yaml:"type"`
		Author string `yaml:"author"`
	} `yaml:"questions"`
	Forms []struct {
		ID         string   `yaml:"id"`
		Name       string   `yaml:"name"`
		Author     string   `yaml:"author"`
		Teams      []string `yaml:"teams"`
		Volunteers []string `yaml:"volunteers"`
		Questions  []string `yaml:"questions"`
	} `yaml:"forms"`
	Attributes []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"attributes"`
	Devices []struct {
		UniqueID  string `yaml:"uniqueId"`
		Volunteer string `yaml:"volunteer"`
	} `yaml:"devices"`
	Addresses []struct {
		ID        string   `yaml:"id"`
		Street    string   `yaml:"street"`
		City      string   `yaml:"city"`
		State     string   `yaml:"state"`
		Zip       string   `yaml:"zip"`
		Longitude float64  `yaml:"longitude"`
		Latitude  float64  `yaml:"latitude"`
		Turf      string   `yaml:"turf"`
		Units     []string `yaml:"units"`
		Residents []struct {
			ID   string `yaml:"id"`
			Name string `yaml:"name"`
			Unit string `yaml:"unit"`
		} `yaml:"residents"`
	} `yaml:"addresses"`
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	raw, err := os.ReadFile(*fixturePath)
	if err != nil {
		fatalf("fixture: %v", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		fatalf("fixture parse: %v", err)
	}

	fmt.Printf("Loaded %d volunteers, %d teams, %d turfs, %d forms, %d addresses from %s\n",
		len(fx.Volunteers), len(fx.Teams), len(fx.Turfs), len(fx.Forms), len(fx.Addresses), *fixturePath)

	if *dryRun {
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	if err := seed(ctx, tx, fx); err != nil {
		fatalf("seed: %v", err)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Seed complete.")
}

func seed(ctx context.Context, tx *sql.Tx, fx Fixture) error {
	exec := func(q string, args ...interface{}) error {
		_, err := tx.ExecContext(ctx, q, args...)
		return err
	}

	for _, v := range fx.Volunteers {
		if err := exec(`
			INSERT INTO canvass.volunteers (id, name, email, admin, autoturf, longitude, latitude, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT (id) DO NOTHING`,
			v.ID, v.Name, v.Email, v.Admin, v.Autoturf, v.Longitude, v.Latitude); err != nil {
			return fmt.Errorf("volunteer %s: %w", v.ID, err)
		}
	}

	teamIDs := map[string]string{}
	for _, t := range fx.Teams {
		if err := exec(`
			INSERT INTO canvass.teams (id, name, created_at) VALUES ($1, $2, now())
			ON CONFLICT (name) DO NOTHING`, uuid.NewString(), t.Name); err != nil {
			return fmt.Errorf("team %s: %w", t.Name, err)
		}
		var id string
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM canvass.teams WHERE name = $1`, t.Name).Scan(&id); err != nil {
			return fmt.Errorf("team %s: %w", t.Name, err)
		}
		teamIDs[t.Name] = id
		for _, m := range t.Members {
			if err := exec(`
				INSERT INTO canvass.team_members (team_id, volunteer_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, id, m); err != nil {
				return fmt.Errorf("team member %s/%s: %w", t.Name, m, err)
			}
		}
	}

	turfIDs := map[string]string{}
	for _, t := range fx.Turfs {
		if err := exec(`
			INSERT INTO canvass.turfs (id, name, created_at) VALUES ($1, $2, now())
			ON CONFLICT (name) DO NOTHING`, uuid.NewString(), t.Name); err != nil {
			return fmt.Errorf("turf %s: %w", t.Name, err)
		}
		var id string
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM canvass.turfs WHERE name = $1`, t.Name).Scan(&id); err != nil {
			return fmt.Errorf("turf %s: %w", t.Name, err)
		}
		turfIDs[t.Name] = id
		for _, team := range t.Teams {
			if err := exec(`
				INSERT INTO canvass.turf_teams (turf_id, team_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, id, teamIDs[team]); err != nil {
				return fmt.Errorf("turf team %s/%s: %w", t.Name, team, err)
			}
		}
		for _, vol := range t.Volunteers {
			if err := exec(`
				INSERT INTO canvass.turf_volunteers (turf_id, volunteer_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, id, vol); err != nil {
				return fmt.Errorf("turf volunteer %s/%s: %w", t.Name, vol, err)
			}
		}
	}

	for _, q := range fx.Questions {
		if err := exec(`
			INSERT INTO canvass.questions (key, label, type, author_id, created_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (key) DO NOTHING`, q.Key, q.Label, q.Type, q.Author); err != nil {
			return fmt.Errorf("question %s: %w", q.Key, err)
		}
	}

	for _, f := range fx.Forms {
		id := f.ID
		if id == "" {
			id = uuid.NewString()
		}
		if err := exec(`
			INSERT INTO canvass.forms (id, name, version, author_id, created_at)
			VALUES ($1, $2, 1, $3, now())
			ON CONFLICT (id) DO NOTHING`, id, f.Name, f.Author); err != nil {
			return fmt.Errorf("form %s: %w", f.Name, err)
		}
		for _, team := range f.Teams {
			if err := exec(`
				INSERT INTO canvass.form_teams (form_id, team_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, id, teamIDs[team]); err != nil {
				return fmt.Errorf("form team %s/%s: %w", f.Name, team, err)
			}
		}
		for _, vol := range f.Volunteers {
			if err := exec(`
				INSERT INTO canvass.form_volunteers (form_id, volunteer_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, id, vol); err != nil {
				return fmt.Errorf("form volunteer %s/%s: %w", f.Name, vol, err)
			}
		}
		for _, key := range f.Questions {
			if err := exec(`
				INSERT INTO canvass.question_forms (question_key, form_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, key, id); err != nil {
				return fmt.Errorf("form question %s/%s: %w", f.Name, key, err)
			}
		}
	}

	for _, a := range fx.Attributes {
		if err := exec(`
			INSERT INTO canvass.attributes (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING`, a.ID, a.Name); err != nil {
			return fmt.Errorf("attribute %s: %w", a.ID, err)
		}
	}

	for _, d := range fx.Devices {
		if err := exec(`
			INSERT INTO canvass.devices (unique_id, volunteer_id) VALUES ($1, $2)
			ON CONFLICT (unique_id) DO NOTHING`, d.UniqueID, d.Volunteer); err != nil {
			return fmt.Errorf("device %s: %w", d.UniqueID, err)
		}
	}

	for _, a := range fx.Addresses {
		if err := exec(`
			INSERT INTO canvass.addresses (id, street, city, state, zip, longitude, latitude, updated)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Street, a.City, a.State, a.Zip, a.Longitude, a.Latitude); err != nil {
			return fmt.Errorf("address %s: %w", a.ID, err)
		}
		if a.Turf != "" {
			if err := exec(`
				INSERT INTO canvass.turf_addresses (turf_id, address_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, turfIDs[a.Turf], a.ID); err != nil {
				return fmt.Errorf("address turf %s/%s: %w", a.ID, a.Turf, err)
			}
		}
		unitIDs := map[string]string{}
		for _, u := range a.Units {
			id := uuid.NewString()
			if err := exec(`
				INSERT INTO canvass.units (id, name, address_id) VALUES ($1, $2, $3)`,
				id, u, a.ID); err != nil {
				return fmt.Errorf("unit %s/%s: %w", a.ID, u, err)
			}
			unitIDs[u] = id
		}
		for _, p := range a.Residents {
			if err := exec(`
				INSERT INTO canvass.persons (id, name) VALUES ($1, $2)
				ON CONFLICT (id) DO NOTHING`, p.ID, p.Name); err != nil {
				return fmt.Errorf("person %s: %w", p.ID, err)
			}
			var unitID interface{}
			if p.Unit != "" {
				unitID = unitIDs[p.Unit]
			}
			if err := exec(`
				INSERT INTO canvass.residencies (id, person_id, address_id, unit_id, current, updated)
				VALUES ($1, $2, $3, $4, true, now())`,
				uuid.NewString(), p.ID, a.ID, unitID); err != nil {
				return fmt.Errorf("residency %s: %w", p.ID, err)
			}
		}
	}

	return nil
}
