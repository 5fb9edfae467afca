package xmlcal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/config"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL serves production calendars as <base>/<country>/<year>/calendar.xml
const DefaultBaseURL = "https://xmlcalendar.ru/data"

// Day types used by the feed
const (
	dayOff       = "1"
	dayShortened = "2"
	dayWorking   = "3"
)

// Client downloads and parses production calendars
type Client struct {
	baseURL string
	country string
	client  *http.Client
	log     *logrus.Logger
}

// NewClient initializes a production calendar client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	base := cfg.HolidayFeedURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		country: cfg.HolidayCountry,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// yearURL builds the calendar URL for one year
func (c *Client) yearURL(year int) string {
	return fmt.Sprintf("%s/%s/%d/calendar.xml", c.baseURL, c.country, year)
}

// sendRequest fetches the raw calendar document
func (c *Client) sendRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("Calendar XML response from %s: %d bytes", url, len(body))
	return body, nil
}

// FetchYear downloads the non-working days of one year
func (c *Client) FetchYear(ctx context.Context, year int) ([]time.Time, error) {
	body, err := c.sendRequest(ctx, c.yearURL(year))
	if err != nil {
		return nil, err
	}
	got, dates, err := Parse(body)
	if err != nil {
		return nil, err
	}
	if got != year {
		return nil, fmt.Errorf("calendar year mismatch: requested %d, got %d", year, got)
	}
	c.log.Infof("Loaded %d holidays for %s/%d", len(dates), c.country, year)
	return dates, nil
}

// Refresh reloads the given years into the holiday set. A failed year keeps
// its previous dates and is reported in the returned error.
func (c *Client) Refresh(ctx context.Context, h *calendar.Holidays, years ...int) error {
	var failed []string
	for _, y := range years {
		dates, err := c.FetchYear(ctx, y)
		if err != nil {
			c.log.WithError(err).Warnf("Failed to load holiday calendar for %d", y)
			failed = append(failed, strconv.Itoa(y))
			continue
		}
		h.Replace(y, dates)
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to load holiday calendar for years %s", strings.Join(failed, ", "))
	}
	return nil
}

// ParseFile loads a calendar document from disk
func ParseFile(path string) (int, []time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read calendar file: %w", err)
	}
	return Parse(data)
}

// Parse extracts the year and its non-working days from a calendar document
// such as:
//
//	<calendar year="2024" country="ru">
//	  <days><day d="01.01" t="1" h="1"/><day d="04.27" t="3"/></days>
//	</calendar>
//
// Shortened and transferred working days are not holidays.
func Parse(raw []byte) (int, []time.Time, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return 0, nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.FindElement("//calendar")
	if root == nil {
		return 0, nil, fmt.Errorf("calendar element not found in XML")
	}
	year, err := strconv.Atoi(root.SelectAttrValue("year", ""))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to parse calendar year: %w", err)
	}

	var dates []time.Time
	for _, day := range root.FindElements("./days/day") {
		switch t := day.SelectAttrValue("t", dayOff); t {
		case dayOff:
		case dayShortened, dayWorking:
			continue
		default:
			return 0, nil, fmt.Errorf("unknown day type %q", t)
		}
		d, err := parseDay(year, day.SelectAttrValue("d", ""))
		if err != nil {
			return 0, nil, err
		}
		dates = append(dates, d)
	}
	return year, dates, nil
}

// parseDay reads the MM.DD day attribute
func parseDay(year int, v string) (time.Time, error) {
	parts := strings.Split(v, ".")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid day attribute %q", v)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month in day attribute %q", v)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > calendar.DaysIn(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("invalid day in day attribute %q", v)
	}
	return calendar.Date(year, time.Month(month), day), nil
}
