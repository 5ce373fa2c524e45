package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	sinceTick := fs.Uint64("since_tick", 0, "first tick (ticks/actions/audits)")
	limit := fs.Int("limit", 20, "result limit")
	action := fs.String("action", "", "action filter (actions/audits)")
	_ = fs.Parse(args)

	q := "snapshots"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	if *limit <= 0 {
		*limit = 20
	}
	if err := runQuery(db, q, *sinceTick, strings.ToUpper(strings.TrimSpace(*action)), *limit, printJSON); err != nil {
		fmt.Fprintln(os.Stderr, q+":", err)
		os.Exit(1)
	}
}

type snapshotRow struct {
	Tick      int64  `json:"tick"`
	Path      string `json:"path"`
	Seed      int64  `json:"seed"`
	Score     int    `json:"score"`
	Buildings int    `json:"buildings"`
	Resources int    `json:"resources"`
	Items     int    `json:"items"`
	Chunks    int    `json:"chunks"`
}

type tickRow struct {
	Tick          int64  `json:"tick"`
	Digest        string `json:"digest"`
	Actions       int    `json:"actions"`
	Collected     int    `json:"collected"`
	Moved         int    `json:"moved"`
	Spawned       int    `json:"spawned"`
	Merged        int    `json:"merged"`
	ScoreGain     int    `json:"score_gain"`
	Discontinuity string `json:"discontinuity,omitempty"`
}

type actionRow struct {
	Tick     int64  `json:"tick"`
	Seq      int    `json:"seq"`
	ClientID string `json:"client_id"`
	Action   string `json:"action"`
	OK       bool   `json:"ok"`
	Code     string `json:"code,omitempty"`
}

type auditRow struct {
	Tick   int64  `json:"tick"`
	Seq    int    `json:"seq"`
	Actor  string `json:"actor"`
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Reason string `json:"reason,omitempty"`
}

func runQuery(db *sql.DB, q string, sinceTick uint64, action string, limit int, emit func(any)) error {
	switch q {
	case "snapshots":
		rows, err := db.Query(`SELECT tick,path,seed,score,buildings,resources,items,chunks FROM snapshots ORDER BY tick DESC LIMIT ?`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r snapshotRow
			if err := rows.Scan(&r.Tick, &r.Path, &r.Seed, &r.Score, &r.Buildings, &r.Resources, &r.Items, &r.Chunks); err != nil {
				return err
			}
			emit(r)
		}
		return rows.Err()

	case "ticks":
		rows, err := db.Query(`SELECT tick,digest,actions,collected,moved,spawned,merged,score_gain,COALESCE(discontinuity,'') FROM ticks WHERE tick>=? ORDER BY tick LIMIT ?`, int64(sinceTick), limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r tickRow
			if err := rows.Scan(&r.Tick, &r.Digest, &r.Actions, &r.Collected, &r.Moved, &r.Spawned, &r.Merged, &r.ScoreGain, &r.Discontinuity); err != nil {
				return err
			}
			emit(r)
		}
		return rows.Err()

	case "actions":
		rows, err := db.Query(`SELECT tick,seq,client_id,action,ok,COALESCE(code,'') FROM actions WHERE tick>=? AND (?='' OR action=?) ORDER BY tick,seq LIMIT ?`, int64(sinceTick), action, action, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r actionRow
			var ok int
			if err := rows.Scan(&r.Tick, &r.Seq, &r.ClientID, &r.Action, &ok, &r.Code); err != nil {
				return err
			}
			r.OK = ok != 0
			emit(r)
		}
		return rows.Err()

	case "audits":
		rows, err := db.Query(`SELECT tick,seq,actor,action,x,y,COALESCE(reason,'') FROM audits WHERE tick>=? AND (?='' OR action=?) ORDER BY tick,seq LIMIT ?`, int64(sinceTick), action, action, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r auditRow
			if err := rows.Scan(&r.Tick, &r.Seq, &r.Actor, &r.Action, &r.X, &r.Y, &r.Reason); err != nil {
				return err
			}
			emit(r)
		}
		return rows.Err()
	}
	return fmt.Errorf("unknown query (want snapshots, ticks, actions or audits)")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
