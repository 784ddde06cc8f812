package onet

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skill-gap/internal/config"
)

func testConfig(baseURL string) config.SourceConfig {
	return config.SourceConfig{
		BaseURL:   baseURL,
		Username:  "svc",
		Password:  "secret",
		PageDelay: time.Millisecond,
	}
}

func TestNewHTTPClient_MissingCredentials(t *testing.T) {
	if c := NewHTTPClient(config.SourceConfig{BaseURL: "http://example.test"}, nil); c != nil {
		t.Fatal("expected nil client without credentials")
	}
	if c := NewHTTPClient(config.SourceConfig{Username: "u", Password: "p"}, nil); c != nil {
		t.Fatal("expected nil client without base URL")
	}
}

func TestFetchOccupation_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "svc" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `<rows total="1">
			<row>
				<onetsoc_code>11-1011.00</onetsoc_code>
				<title>Chief Executives</title>
				<description>Determine and formulate policies.</description>
			</row>
		</rows>`)
	}))
	defer srv.Close()

	c := NewHTTPClient(testConfig(srv.URL), nil)
	occ, err := c.FetchOccupation(context.Background(), "11-1011.00")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if occ == nil || occ.Code != "11-1011.00" || occ.Title != "Chief Executives" {
		t.Fatalf("unexpected occupation: %+v", occ)
	}
}

func TestFetchOccupation_Absent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<rows total="0"></rows>`)
	}))
	defer srv.Close()

	c := NewHTTPClient(testConfig(srv.URL), nil)
	occ, err := c.FetchOccupation(context.Background(), "99-9999.99")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if occ != nil {
		t.Fatalf("expected nil occupation, got %+v", occ)
	}
}

func TestFetchSkillRatings_Paginated(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/database/rows/skills", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<rows total="2">
			<row>
				<onetsoc_code>11-1011.00</onetsoc_code>
				<element_id>2.A.1.a</element_id>
				<element_name>Reading Comprehension</element_name>
				<scale_id>LV</scale_id>
				<data_value>4.12</data_value>
			</row>
			<link rel="next" href="%s/page2"/>
		</rows>`, srv.URL)
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<rows total="2">
			<row>
				<onetsoc_code>11-1011.00</onetsoc_code>
				<element_id>2.A.1.a</element_id>
				<element_name>Reading Comprehension</element_name>
				<scale_id>IM</scale_id>
				<data_value>3.50</data_value>
			</row>
		</rows>`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient(testConfig(srv.URL), nil)
	rows, err := c.FetchSkillRatings(context.Background(), "11-1011.00")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows across pages, got %d", len(rows))
	}
	if rows[0].ScaleID != "LV" || rows[1].ScaleID != "IM" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestFetchSkillRatings_RelativeNextLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/database/rows/skills", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<rows total="2">
			<row><onetsoc_code>11-1011.00</onetsoc_code><element_id>A</element_id><scale_id>LV</scale_id><data_value>1</data_value></row>
			<link rel="next" href="/page2"/>
		</rows>`)
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<rows total="2">
			<row><onetsoc_code>11-1011.00</onetsoc_code><element_id>B</element_id><scale_id>LV</scale_id><data_value>2</data_value></row>
		</rows>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient(testConfig(srv.URL), nil)
	rows, err := c.FetchSkillRatings(context.Background(), "11-1011.00")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 2 || rows[1].ElementID != "B" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestFetchPage_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(testConfig(srv.URL), nil)
	_, err := c.FetchOccupation(context.Background(), "11-1011.00")
	if err == nil {
		t.Fatal("expected error")
	}
}
