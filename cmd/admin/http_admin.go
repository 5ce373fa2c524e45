package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"coinfactory.ai/internal/persistence/snapshot"
)

// adminRoutes maps each subcommand onto its loopback admin endpoint.
var adminRoutes = map[string]struct {
	method string
	path   string
}{
	"state":    {http.MethodGet, "/admin/v1/state"},
	"snapshot": {http.MethodPost, "/admin/v1/snapshot"},
	"export":   {http.MethodGet, "/admin/v1/export"},
	"reset":    {http.MethodPost, "/admin/v1/reset"},
	"restore":  {http.MethodPost, "/admin/v1/restore"},
}

func httpCmd(name string, args []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	snapPath := fs.String("snapshot", "", "snapshot file to restore (restore only)")
	outPath := fs.String("out", "", "write the response body to this file (optional)")
	_ = fs.Parse(args)

	var body []byte
	if name == "restore" {
		if strings.TrimSpace(*snapPath) == "" {
			fmt.Fprintln(os.Stderr, "missing -snapshot")
			os.Exit(2)
		}
		snap, err := snapshot.ReadSnapshot(*snapPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read snapshot:", err)
			os.Exit(1)
		}
		if body, err = snapshot.EncodeJSON(snap); err != nil {
			fmt.Fprintln(os.Stderr, "encode snapshot:", err)
			os.Exit(1)
		}
	}

	status, b, err := callAdmin(&http.Client{Timeout: 10 * time.Second}, *baseURL, name, body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, b, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "write:", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(string(b))
	}
	if status/100 != 2 {
		os.Exit(1)
	}
}

func callAdmin(cl *http.Client, baseURL, name string, body []byte) (int, []byte, error) {
	route, ok := adminRoutes[name]
	if !ok {
		return 0, nil, fmt.Errorf("unknown admin command %q", name)
	}
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/") + route.path
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequest(route.method, u, rd)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := cl.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}
