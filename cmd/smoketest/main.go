// Command smoketest exercises a running factwatch server: both relays, the
// pages and a search followed by load-more through a session cookie.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("base", envOr("FACTWATCH_BASE_URL", "http://localhost:8080"), "server base URL")
	query := flag.String("query", "covid", "search term")
	target := flag.String("url", "https://testsafebrowsing.appspot.com/s/malware.html", "URL to check")
	wait := flag.Duration("wait", 2*time.Second, "delay before the first request")
	flag.Parse()

	time.Sleep(*wait)
	fmt.Println("Starting smoke test against", *baseURL)

	jar, err := cookiejar.New(nil)
	if err != nil {
		fail("cookie jar", err)
	}
	client := &http.Client{Jar: jar, Timeout: 30 * time.Second}
	base := strings.TrimRight(*baseURL, "/")

	step("1. Health", func() error {
		_, err := fetch(client, http.MethodGet, base+"/healthz", nil, http.StatusOK)
		return err
	})

	step("2. Claim search relay", func() error {
		body, err := fetch(client, http.MethodGet, base+"/api/factcheck?"+url.Values{"query": {*query}, "lang": {"en"}}.Encode(), nil, http.StatusOK)
		if err != nil {
			return err
		}
		fmt.Printf("   %s\n", preview(body))
		return nil
	})

	step("3. Relay rejects a missing query", func() error {
		_, err := fetch(client, http.MethodGet, base+"/api/factcheck", nil, http.StatusBadRequest)
		return err
	})

	step("4. Threat lookup relay", func() error {
		body, err := fetch(client, http.MethodGet, base+"/api/httpcheck?"+url.Values{"url": {*target}}.Encode(), nil, http.StatusOK)
		if err != nil {
			return err
		}
		fmt.Printf("   %s\n", preview(body))
		return nil
	})

	step("5. Search page", func() error {
		doc, err := page(client, base+"/search", url.Values{"q": {*query}, "lang": {"en"}})
		if err != nil {
			return err
		}
		if msg := strings.TrimSpace(doc.Find("#error").Text()); msg != "" {
			return fmt.Errorf("page shows error: %s", msg)
		}
		fmt.Printf("   %s\n", strings.TrimSpace(doc.Find("#stats").Text()))
		if doc.Find("#load-more").Length() == 0 {
			fmt.Println("   no further pages, skipping load more")
			return nil
		}
		before := doc.Find("li.claim").Length()
		doc, err = page(client, base+"/search/more", url.Values{})
		if err != nil {
			return err
		}
		if after := doc.Find("li.claim").Length(); after <= before {
			return fmt.Errorf("load more did not append: %d -> %d", before, after)
		}
		return nil
	})

	step("6. URL check page", func() error {
		doc, err := page(client, base+"/httpcheck", url.Values{"url": {*target}})
		if err != nil {
			return err
		}
		verdict := strings.TrimSpace(doc.Find("#verdict").Text())
		if verdict == "" {
			return fmt.Errorf("no verdict: %s", strings.TrimSpace(doc.Find("#error").Text()))
		}
		fmt.Printf("   %s %s\n", verdict, *target)
		return nil
	})

	fmt.Println("Smoke test passed")
}

func step(name string, fn func() error) {
	fmt.Println(name + "...")
	if err := fn(); err != nil {
		fail(name, err)
	}
	fmt.Println("PASSED: " + name)
}

func fail(name string, err error) {
	fmt.Printf("FAILED: %s: %v\n", name, err)
	os.Exit(1)
}

func fetch(client *http.Client, method, target string, body io.Reader, want int) ([]byte, error) {
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != want {
		return nil, fmt.Errorf("status %d, want %d: %s", resp.StatusCode, want, preview(data))
	}
	return data, nil
}

// page posts a form and parses the page the server redirects to.
func page(client *http.Client, target string, form url.Values) (*goquery.Document, error) {
	resp, err := client.PostForm(target, form)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func preview(b []byte) string {
	s := string(b)
	if len(s) > 160 {
		s = s[:160] + "..."
	}
	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
