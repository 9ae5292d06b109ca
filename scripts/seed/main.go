// Command seed loads a JSON fixture of teachers and batches into a running
// API instance. It is meant for local development and demo environments;
// a teacher whose short name is already taken makes the server respond
// with a conflict, which the tool reports and skips.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type teacherFixture struct {
	FullName    string `json:"full_name"`
	ShortName   string `json:"short_name"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
	University  string `json:"university"`
}

type batchFixture struct {
	Year     string `json:"year"`
	Semester string `json:"semester"`
	Name     string `json:"name"`
	Color    string `json:"color"`
}

type fixture struct {
	Teachers []teacherFixture `json:"teachers"`
	Batches  []batchFixture   `json:"batches"`
}

func main() {
	var (
		base        string
		fixturePath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL including the route prefix")
	flag.StringVar(&fixturePath, "fixture", filepath.Join("scripts", "seed", "fixture.json"), "Path to JSON fixture file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	fix, err := loadFixture(fixturePath)
	if err != nil {
		log.Fatalf("failed to load fixture: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var created, skipped, failed int

	for _, t := range fix.Teachers {
		status, err := post(client, base+"/teachers", t)
		report("teacher", t.ShortName, status, err, &created, &skipped, &failed)
	}
	for _, b := range fix.Batches {
		status, err := post(client, base+"/batches", b)
		report("batch", b.Name, status, err, &created, &skipped, &failed)
	}

	fmt.Printf("Created: %d, Skipped: %d, Failed: %d\n", created, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fix fixture
	if err := json.Unmarshal(data, &fix); err != nil {
		return nil, err
	}
	if len(fix.Teachers) == 0 && len(fix.Batches) == 0 {
		return nil, fmt.Errorf("no teachers or batches defined in %s", path)
	}
	return &fix, nil
}

func post(client *http.Client, url string, payload interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func report(kind, name string, status int, err error, created, skipped, failed *int) {
	switch {
	case err != nil:
		log.Printf("%s %s: %v", kind, name, err)
		*failed++
	case status == http.StatusCreated:
		log.Printf("%s %s: created", kind, name)
		*created++
	case status == http.StatusConflict:
		log.Printf("%s %s: already exists, skipped", kind, name)
		*skipped++
	default:
		log.Printf("%s %s: unexpected status %d", kind, name, status)
		*failed++
	}
}
