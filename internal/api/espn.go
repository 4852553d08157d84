package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"league-history/internal/config"
	"league-history/internal/constants"

	"github.com/valyala/fasthttp"
)

const espnBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"

var (
	ErrUnauthorized = errors.New("league is private or credentials are invalid")
	ErrNotFound     = errors.New("league or season not found")
)

// Views requested for a season load.
var SeasonViews = []string{"mTeam", "mSettings", "mMatchupScore"}

const DraftView = "mDraftDetail"

type ESPNClient struct {
	baseURL  string
	leagueID int
	swid     string
	espnS2   string
	client   *fasthttp.Client
	cache    ResponseCache
}

// ResponseCache stores raw response bodies by Request.Key. Lookup reports a
// miss when the entry is absent or stale; Store failures are the cache's to
// log.
type ResponseCache interface {
	Lookup(ctx context.Context, r Request) ([]byte, bool, error)
	Store(ctx context.Context, r Request, body []byte)
}

// Request is one read against the fantasy API. Key is stable across runs and
// identifies the cached payload.
type Request struct {
	Key    string
	Year   int
	URL    string
	Filter string
	// leagueHistory responses wrap the league in a one element array
	Legacy bool
}

func NewESPNClient(cfg *config.Config, cache ResponseCache) *ESPNClient {
	return newESPNClient(espnBaseURL, cfg, cache, &fasthttp.Client{
		MaxConnsPerHost:     cfg.FetchConcurrency * 2,
		ReadTimeout:         constants.ExternalAPITimeout,
		WriteTimeout:        10 * time.Second,
		MaxIdleConnDuration: 1 * time.Minute,
		// full season documents run to several megabytes
		MaxResponseBodySize: 64 << 20,
	})
}

func newESPNClient(baseURL string, cfg *config.Config, cache ResponseCache, client *fasthttp.Client) *ESPNClient {
	return &ESPNClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		leagueID: cfg.LeagueID,
		swid:     cfg.SWID,
		espnS2:   cfg.ESPNS2,
		client:   client,
		cache:    cache,
	}
}

// LeagueRequest reads the league document for a season with the given views.
func (c *ESPNClient) LeagueRequest(year int, views ...string) Request {
	views = append([]string(nil), views...)
	sort.Strings(views)

	q := url.Values{}
	for _, v := range views {
		q.Add("view", v)
	}
	return c.seasonRequest(
		fmt.Sprintf("league/%d/%d/%s", c.leagueID, year, strings.Join(views, "+")),
		year, q, "",
	)
}

// MatchupPeriodRequest reads the box scores of one matchup period with the
// lineups and stats of one of its scoring periods.
func (c *ESPNClient) MatchupPeriodRequest(year, week, scoringPeriod int) Request {
	q := url.Values{}
	q.Add("view", "mMatchupScore")
	q.Add("view", "mScoreboard")
	q.Set("scoringPeriodId", strconv.Itoa(scoringPeriod))

	filter := fmt.Sprintf(`{"schedule":{"filterMatchupPeriodIds":{"value":[%d]}}}`, week)
	return c.seasonRequest(fmt.Sprintf("matchup/%d/%d/%d/%d", c.leagueID, year, week, scoringPeriod), year, q, filter)
}

// PlayersRequest reads the player universe for a season. The response is a
// bare array and is never served from leagueHistory.
func (c *ESPNClient) PlayersRequest(year int) Request {
	return Request{
		Key:  fmt.Sprintf("players/%d", year),
		Year: year,
		URL:  fmt.Sprintf("%s/seasons/%d/players?view=players_wl", c.baseURL, year),
	}
}

func (c *ESPNClient) seasonRequest(key string, year int, q url.Values, filter string) Request {
	req := Request{Key: key, Year: year, Filter: filter}
	if year < constants.FirstModernSeason {
		q.Set("seasonId", strconv.Itoa(year))
		req.URL = fmt.Sprintf("%s/leagueHistory/%d?%s", c.baseURL, c.leagueID, q.Encode())
		req.Legacy = true
		return req
	}
	req.URL = fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d?%s", c.baseURL, year, c.leagueID, q.Encode())
	return req
}

// Fetch performs the request and returns a copy of the response body.
func (c *ESPNClient) Fetch(ctx context.Context, r Request) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.URL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	if c.swid != "" && c.espnS2 != "" {
		req.Header.SetCookie("SWID", c.swid)
		req.Header.SetCookie("espn_s2", c.espnS2)
	}
	if r.Filter != "" {
		req.Header.Set("X-Fantasy-Filter", r.Filter)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusUnauthorized, fasthttp.StatusForbidden:
		return nil, fmt.Errorf("%w: %d", ErrUnauthorized, resp.StatusCode())
	case fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.Key)
	default:
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, fmt.Errorf("failed to decompress response: %w", err)
	}
	return append([]byte(nil), body...), nil
}

// Decode parses a body fetched for r, unwrapping leagueHistory arrays.
func Decode[T any](r Request, body []byte) (*T, error) {
	if r.Legacy {
		var wrapped []T
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", r.Key, err)
		}
		if len(wrapped) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.Key)
		}
		return &wrapped[0], nil
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.Key, err)
	}
	return &result, nil
}

func doRequest[T any](ctx context.Context, client *ESPNClient, r Request) (*T, error) {
	if client.cache != nil {
		body, ok, err := client.cache.Lookup(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("failed to read cache for %s: %w", r.Key, err)
		}
		if ok {
			return Decode[T](r, body)
		}
	}

	body, err := client.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	result, err := Decode[T](r, body)
	if err != nil {
		return nil, err
	}

	// undecodable bodies are never cached
	if client.cache != nil {
		client.cache.Store(ctx, r, body)
	}
	return result, nil
}

func (c *ESPNClient) GetLeague(ctx context.Context, year int, views ...string) (*League, error) {
	return doRequest[League](ctx, c, c.LeagueRequest(year, views...))
}

func (c *ESPNClient) GetMatchupPeriod(ctx context.Context, year, week, scoringPeriod int) (*League, error) {
	return doRequest[League](ctx, c, c.MatchupPeriodRequest(year, week, scoringPeriod))
}

func (c *ESPNClient) GetPlayers(ctx context.Context, year int) (*[]ProPlayer, error) {
	return doRequest[[]ProPlayer](ctx, c, c.PlayersRequest(year))
}
