//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

type fakeCourse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Instructor string  `json:"instructor"`
	Category   string  `json:"category"`
	Level      string  `json:"level"`
	Language   string  `json:"language"`
	Rating     float64 `json:"rating"`
	Reviews    int     `json:"reviews"`
	Price      float64 `json:"price"`
	Students   int     `json:"students"`
}

type fakePage struct {
	Courses      []fakeCourse `json:"courses"`
	TotalCourses int          `json:"totalCourses"`
}

// FakeCatalog is an in-process catalog API with a fixed course list
type FakeCatalog struct {
	srv *httptest.Server

	mu       sync.Mutex
	courses  []fakeCourse
	failWith int
	requests []url.Values
}

func defaultCourses() []fakeCourse {
	titles := []struct{ title, category string }{
		{"Go for Beginners", "Programming"},
		{"Concurrency in Go", "Programming"},
		{"Rust Fundamentals", "Programming"},
		{"Python Data Pipelines", "Programming"},
		{"Typography Basics", "Design"},
		{"Color Theory", "Design"},
		{"Figma Masterclass", "Design"},
		{"Logo Design", "Design"},
		{"Intro to Go Testing", "Programming"},
		{"UX Research", "Design"},
		{"Icon Drawing", "Design"},
		{"Shell Scripting", "Programming"},
	}
	levels := []string{"beginner", "intermediate", "advanced"}

	courses := make([]fakeCourse, 0, len(titles))
	for i, t := range titles {
		price := float64(i%4) * 15
		courses = append(courses, fakeCourse{
			ID:         fmt.Sprintf("c%02d", i+1),
			Title:      t.title,
			Instructor: fmt.Sprintf("Instructor %d", i+1),
			Category:   t.category,
			Level:      levels[i%len(levels)],
			Language:   "English",
			Rating:     3.5 + float64(i%4)*0.4,
			Reviews:    100 + i*10,
			Price:      price,
			Students:   1000 * (i + 1),
		})
	}
	return courses
}

// CreateTestWorkspace starts a fake catalog and writes a config pointing at it
func (tf *TUITestFramework) CreateTestWorkspace() (*FakeCatalog, error) {
	tf.workspace = tf.t.TempDir()

	fc := &FakeCatalog{courses: defaultCourses()}
	fc.srv = httptest.NewServer(http.HandlerFunc(fc.serve))
	tf.catalog = fc

	cfg := fmt.Sprintf(`version = 1

[api]
base_url = %q
timeout_seconds = 5
retry_max = 0
page_size = 5

[search]
debounce_ms = 50

[cache]
size = 0

[catalog]
categories = ["Programming", "Design"]
languages = ["English"]

[log]
level = "debug"
file = %q
`, fc.srv.URL, filepath.Join(tf.workspace, "coursedeck.log"))

	if err := os.WriteFile(tf.ConfigPath(), []byte(cfg), 0644); err != nil {
		return nil, err
	}
	return fc, nil
}

// ConfigPath is the config file the app is started with
func (tf *TUITestFramework) ConfigPath() string {
	return filepath.Join(tf.workspace, "coursedeck.toml")
}

// ReadConfig returns the config file as the app left it
func (tf *TUITestFramework) ReadConfig() (string, error) {
	data, err := os.ReadFile(tf.ConfigPath())
	return string(data), err
}

// FailWith makes every request answer status; 0 restores normal answers
func (fc *FakeCatalog) FailWith(status int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.failWith = status
}

// Requests returns the query of every request received so far
func (fc *FakeCatalog) Requests() []url.Values {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	out := make([]url.Values, len(fc.requests))
	copy(out, fc.requests)
	return out
}

// LastRequest returns the query of the most recent request
func (fc *FakeCatalog) LastRequest() url.Values {
	reqs := fc.Requests()
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

// Close stops the server
func (fc *FakeCatalog) Close() {
	fc.srv.Close()
}

func (fc *FakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/courses" {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	fc.mu.Lock()
	fc.requests = append(fc.requests, q)
	failWith := fc.failWith
	courses := fc.courses
	fc.mu.Unlock()

	if failWith != 0 {
		http.Error(w, "catalog unavailable", failWith)
		return
	}

	var matched []fakeCourse
	for _, c := range courses {
		if s := q.Get("search"); s != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(s)) {
			continue
		}
		if v := q.Get("category"); v != "" && c.Category != v {
			continue
		}
		if v := q.Get("level"); v != "" && c.Level != v {
			continue
		}
		matched = append(matched, c)
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 12
	}
	start := (page - 1) * limit
	end := start + limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(fakePage{
		Courses:      append([]fakeCourse{}, matched[start:end]...),
		TotalCourses: len(matched),
	})
}
