// File: services/ctftime_service.go
package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/hugsy/ctfhub/logger"
)

// userAgent mimics a browser; the catalog rejects default Go agents.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:12.0) Gecko/20100101 Firefox/12.0"

// acceptedLogoExtensions are the image types we are willing to hotlink
// for an event logo.
var acceptedLogoExtensions = map[string]bool{
	".png": true, ".jpg": true, ".gif": true, ".bmp": true,
}

// CTFTimeEvent mirrors one entry of the CTFTime events API.
type CTFTimeEvent struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Logo        string    `json:"logo"`
	Weight      float64   `json:"weight"`
	Start       time.Time `json:"start"`
	Finish      time.Time `json:"finish"`
	CTFTimeURL  string    `json:"ctftime_url"`
	Format      string    `json:"format"`
	OnSite      bool      `json:"onsite"`
	Location    string    `json:"location"`
}

// Duration returns the length of the event.
func (e CTFTimeEvent) Duration() time.Duration {
	return e.Finish.Sub(e.Start)
}

// CTFTimeClient fetches event listings and detail records from the
// CTFTime API over HTTPS.
type CTFTimeClient struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewCTFTimeClient builds a client against the given base URL
// (scheme://host, no trailing slash needed).
func NewCTFTimeClient(baseURL string, timeout time.Duration) *CTFTimeClient {
	return &CTFTimeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

func (c *CTFTimeClient) get(url string, out any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn.Printf("ctftime: GET %s failed: %v", url, err)
		return ErrRemoteUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn.Printf("ctftime: GET %s returned HTTP %d", url, resp.StatusCode)
		return ErrRemoteUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn.Printf("ctftime: GET %s returned unparseable body: %v", url, err)
		return ErrRemoteUnavailable
	}
	return nil
}

// ListEvents retrieves events from the catalog with a wide window
// (60 days back, 26 weeks ahead) so local filters can be applied to one
// response.
func (c *CTFTimeClient) ListEvents(limit int) ([]CTFTimeEvent, error) {
	now := c.now()
	start := now.Add(-60 * 24 * time.Hour).Unix()
	finish := now.Add(26 * 7 * 24 * time.Hour).Unix()
	url := fmt.Sprintf("%s/api/v1/events/?limit=%d&start=%d&finish=%d",
		c.baseURL, limit, start, finish)

	var events []CTFTimeEvent
	if err := c.get(url, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// UpcomingEvents returns the events that are currently running or start
// in the future.
func (c *CTFTimeClient) UpcomingEvents() ([]CTFTimeEvent, error) {
	events, err := c.ListEvents(100)
	if err != nil {
		return nil, err
	}

	now := c.now()
	result := make([]CTFTimeEvent, 0, len(events))
	for _, ev := range events {
		running := ev.Start.Before(now) && now.Before(ev.Finish)
		future := now.Before(ev.Start)
		if running || future {
			result = append(result, ev)
		}
	}
	return result, nil
}

// EventInfo retrieves the full detail record for one event.
func (c *CTFTimeClient) EventInfo(id int64) (*CTFTimeEvent, error) {
	var ev CTFTimeEvent
	url := fmt.Sprintf("%s/api/v1/events/%d/", c.baseURL, id)
	if err := c.get(url, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// EventURL builds the public page URL for an event.
func (c *CTFTimeClient) EventURL(id int64) string {
	return fmt.Sprintf("%s/event/%d", c.baseURL, id)
}

// TeamURL builds the public page URL for a team. Unknown teams link
// nowhere.
func (c *CTFTimeClient) TeamURL(id int64) string {
	if id < 0 {
		return "#"
	}
	return fmt.Sprintf("%s/team/%d", c.baseURL, id)
}

// SafeLogoURL returns the event logo when its extension is an accepted
// image type, or the given fallback otherwise.
func SafeLogoURL(logo, fallback string) string {
	if logo == "" {
		return fallback
	}
	ext := strings.ToLower(filepath.Ext(logo))
	if !acceptedLogoExtensions[ext] {
		return fallback
	}
	return logo
}
